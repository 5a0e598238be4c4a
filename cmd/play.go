package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tvzap/tvzap/catalog"
	"github.com/tvzap/tvzap/constant"
	"github.com/tvzap/tvzap/key"
	"github.com/tvzap/tvzap/log"
	"github.com/tvzap/tvzap/metrics"
	"github.com/tvzap/tvzap/player"
	"github.com/tvzap/tvzap/player/fake"
	"github.com/tvzap/tvzap/resume"
	"github.com/tvzap/tvzap/session"
	"github.com/tvzap/tvzap/tui"
	"github.com/tvzap/tvzap/util"
	"github.com/tvzap/tvzap/where"
)

// engines lists the values accepted by --engine.
var engines = []string{"mpv", "fake"}

func init() {
	rootCmd.AddCommand(playCmd)
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("start", "s", 1, "Display number of the channel to start on")
	cmd.Flags().StringP("category", "c", "", "Start on the first channel of this category")
	cmd.Flags().StringP("search", "q", "", "Start on the channel whose name best matches the query")
	cmd.MarkFlagsMutuallyExclusive("start", "category", "search")

	cmd.Flags().StringP("engine", "e", "", "Media engine to drive (mpv or fake)")
	lo.Must0(cmd.RegisterFlagCompletionFunc("engine", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return engines, cobra.ShellCompDirectiveNoFileComp
	}))

	cmd.Flags().String("metrics", "", "Serve Prometheus metrics on this address while playing")
}

// playCmd opens a playback session in the terminal.
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open a playback session and zap through the channel list",
	Long: `Open a playback session on the channel list and drive it with TV-remote keys.
Arrows move through the side list, enter confirms, +/- zap, digits tune a channel number.`,
	Example: "  tvzap play --channels ./channels.json --start 5\n  tvzap play --search news --engine fake",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runPlay(cmd)
	},
}

func runPlay(cmd *cobra.Command) {
	// flags override config only when given
	if cmd.Flags().Changed("engine") {
		viper.Set(key.PlayerEngine, lo.Must(cmd.Flags().GetString("engine")))
	}
	if cmd.Flags().Changed("metrics") {
		viper.Set(key.MetricsAddress, lo.Must(cmd.Flags().GetString("metrics")))
	}

	if !util.IsTerminal() {
		handleErr(errors.New("play needs an interactive terminal"))
	}

	cat, err := loadCatalog()
	handleErr(err)

	position, err := startPosition(cmd, cat)
	handleErr(err)

	engine, err := newEngine(viper.GetString(key.PlayerEngine))
	handleErr(err)

	m := metrics.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if addr := viper.GetString(key.MetricsAddress); addr != "" {
		go func() {
			if err := m.Serve(ctx, addr); err != nil {
				log.Errorf("metrics: %v", err)
			}
		}()
	}

	log.Infof("starting session on %s with %s", lo.Must(cat.At(position).Get()), util.Quantify(cat.Len(), "channel", "channels"))

	last, err := tui.Run(&tui.Options{
		Catalog:  cat,
		Position: position,
		Engine:   engine,
		Surface:  player.Window{Title: constant.App},
		Metrics:  m,
		Session:  session.OptionsFromConfig(),
	})

	if ch, ok := last.Get(); ok {
		if err := resume.Save(catalogPath(), ch.ID); err != nil {
			log.Warnf("remember last channel: %v", err)
		}
	}

	handleErr(err)
}

// catalogPath resolves the channel file: flag, then config, then the config directory.
func catalogPath() string {
	if path := viper.GetString(key.CatalogPath); path != "" {
		return path
	}
	return where.Channels()
}

func loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(catalogPath())
}

// startPosition resolves --start, --category and --search to a catalog position.
// Without any of them the last watched channel is picked when it still exists.
func startPosition(cmd *cobra.Command, cat *catalog.Catalog) (int, error) {
	explicit := lo.SomeBy([]string{"start", "category", "search"}, cmd.Flags().Changed)
	if !explicit && viper.GetBool(key.PlayerResume) {
		if position, ok := resumePosition(cat).Get(); ok {
			return position, nil
		}
	}

	if category := lo.Must(cmd.Flags().GetString("category")); category != "" {
		view := cat.ByCategory(category)
		if position, ok := view.Global(0).Get(); ok {
			return position, nil
		}
		return 0, fmt.Errorf("no channel in category %q, known categories: %v", category, cat.Categories())
	}

	if query := lo.Must(cmd.Flags().GetString("search")); query != "" {
		if position, ok := cat.Search(query).Global(0).Get(); ok {
			return position, nil
		}
		return 0, fmt.Errorf("no channel matches %q", query)
	}

	number := lo.Must(cmd.Flags().GetInt("start"))
	if position, ok := cat.FindByNumber(number).Get(); ok {
		return position, nil
	}
	return 0, fmt.Errorf("channel %d does not exist, the list has %s", number, util.Quantify(cat.Len(), "channel", "channels"))
}

func resumePosition(cat *catalog.Catalog) mo.Option[int] {
	id, err := resume.Last(catalogPath())
	if err != nil {
		log.Warnf("read last channel: %v", err)
		return mo.None[int]()
	}

	if id, ok := id.Get(); ok {
		return cat.FindIndexByID(id)
	}
	return mo.None[int]()
}

func newEngine(name string) (player.Engine, error) {
	switch name {
	case "mpv":
		binary := viper.GetString(key.PlayerMPVPath)
		CheckDependencies(binary)
		engine := player.NewMPV(binary)
		if err := engine.Open(constant.App); err != nil {
			return nil, fmt.Errorf("start mpv: %w", err)
		}
		return engine, nil
	case "fake":
		engine := fake.New()
		engine.SetAutoPlay(true)
		return engine, nil
	default:
		return nil, fmt.Errorf("unknown engine %q, available: %v", name, engines)
	}
}
