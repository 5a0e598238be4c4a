package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tvzap/tvzap/color"
	"github.com/tvzap/tvzap/style"
	"github.com/tvzap/tvzap/where"
)

// location is a path `tvzap where` can print. Hidden ones are only
// reachable through their flag.
type location struct {
	title  string
	flag   string
	short  string
	path   func() string
	hidden bool
}

var locations = []location{
	{title: "Config", flag: "config", short: "c", path: where.Config},
	{title: "Channel file", flag: "channel-file", short: "f", path: catalogPath},
	{title: "Last channel", flag: "resume", short: "r", path: where.Resume},
	{title: "Logs", flag: "logs", short: "l", path: where.Logs},
	{title: "mpv sockets", flag: "sockets", path: where.Temp, hidden: true},
}

func init() {
	rootCmd.AddCommand(whereCmd)
	whereCmd.SetOut(os.Stdout)

	flags := whereCmd.Flags()
	for _, l := range locations {
		flags.BoolP(l.flag, l.short, false, "Print only the "+l.title+" path")
		if l.hidden {
			lo.Must0(flags.MarkHidden(l.flag))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string { return l.flag })...)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print where tvzap keeps its config, channel file and logs",
	Run: func(cmd *cobra.Command, args []string) {
		if l, ok := lo.Find(locations, func(l location) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		}); ok {
			cmd.Println(l.path())
			return
		}

		title := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(locations, func(l location, _ int) bool { return l.hidden })
		for i, l := range visible {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n", title(l.title), style.Fg(color.Yellow)("--"+l.flag))
			cmd.Println(l.path())
		}
	},
}
