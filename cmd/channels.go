package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tvzap/tvzap/catalog"
	"github.com/tvzap/tvzap/color"
	"github.com/tvzap/tvzap/style"
	"github.com/tvzap/tvzap/util"
)

func init() {
	rootCmd.AddCommand(channelsCmd)
}

// channelsCmd groups the read-only inspection commands for the channel file.
var channelsCmd = &cobra.Command{
	Use:     "channels",
	Aliases: []string{"ch"},
	Short:   "Inspect the channel list as playback numbers it",
}

func init() {
	channelsCmd.AddCommand(channelsListCmd)
	channelsListCmd.Flags().StringP("category", "c", "", "Only list channels of this category")
	channelsListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	_ = channelsListCmd.RegisterFlagCompletionFunc("category", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		cat, err := loadCatalog()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return cat.Categories(), cobra.ShellCompDirectiveNoFileComp
	})

	channelsListCmd.SetOut(os.Stdout)
}

var channelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List channels with the numbers used to tune them",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cat, err := loadCatalog()
		handleErr(err)

		view := cat.All()
		if category := lo.Must(cmd.Flags().GetString("category")); category != "" {
			view = cat.ByCategory(category)
		}

		printView(cmd, view, lo.Must(cmd.Flags().GetBool("json")))
	},
}

func init() {
	channelsCmd.AddCommand(channelsSearchCmd)
	channelsSearchCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	channelsSearchCmd.SetOut(os.Stdout)
}

var channelsSearchCmd = &cobra.Command{
	Use:     "search [query]",
	Short:   "Fuzzy search channel names, best match first",
	Args:    cobra.MinimumNArgs(1),
	Example: "  tvzap channels search bbc news",
	Run: func(cmd *cobra.Command, args []string) {
		cat, err := loadCatalog()
		handleErr(err)

		printView(cmd, cat.Search(strings.Join(args, " ")), lo.Must(cmd.Flags().GetBool("json")))
	},
}

func init() {
	channelsCmd.AddCommand(channelsCategoriesCmd)
	channelsCategoriesCmd.SetOut(os.Stdout)
}

var channelsCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories of the channel list",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cat, err := loadCatalog()
		handleErr(err)

		for _, category := range cat.Categories() {
			count := cat.ByCategory(category).Len()
			cmd.Printf("%s %s\n", style.Fg(color.Purple)(category), style.Faint(util.Quantify(count, "channel", "channels")))
		}
	},
}

func init() {
	channelsCmd.AddCommand(channelsSchemaCmd)
	channelsSchemaCmd.SetOut(os.Stdout)
}

// channelsSchemaCmd prints the JSON Schema the channel file is validated against.
var channelsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the channel file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(channelSchema()))
	},
}

func channelSchema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.DoNotReference = true

	schema := reflector.Reflect([]catalog.Channel{})
	schema.Title = "tvzap channel file"
	return schema
}

func printView(cmd *cobra.Command, view *catalog.View, asJson bool) {
	if asJson {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(view.Entries()))
		return
	}

	if view.Len() == 0 {
		cmd.Println(style.Faint("no channels"))
		return
	}

	width := len(fmt.Sprint(lo.MaxBy(view.Entries(), func(a, b catalog.Channel) bool {
		return a.Number > b.Number
	}).Number))

	for _, ch := range view.Entries() {
		line := fmt.Sprintf("%s %s", style.Fg(color.Yellow)(fmt.Sprintf("%*d", width, ch.Number)), ch.Name)
		if ch.Category != "" {
			line += " " + style.Faint(ch.Category)
		}
		cmd.Println(line)
	}
}
