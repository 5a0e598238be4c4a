// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/tvzap/tvzap/catalog"
	"github.com/tvzap/tvzap/log"
	"github.com/tvzap/tvzap/metrics"
	"github.com/tvzap/tvzap/player"
	"github.com/tvzap/tvzap/session"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Catalog  *catalog.Catalog
	Position int
	Engine   player.Engine
	Surface  player.Surface
	Metrics  *metrics.Metrics
	Session  session.Options
}

// Run starts a playback session and drives it from the terminal until the
// session closes or the user quits. The engine is released when Run returns,
// along with the channel that was on screen last.
func Run(options *Options) (mo.Option[catalog.Channel], error) {
	shell := &Shell{}
	s := session.New(session.Config{
		Engine:  options.Engine,
		Surface: options.Surface,
		Shell:   shell,
		Metrics: options.Metrics,
		Options: options.Session,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bubble := newBubble(s, shell)
	program := tea.NewProgram(bubble, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	shell.attach(program)

	if err := s.Start(options.Catalog, options.Position); err != nil {
		s.Close()
		return mo.None[catalog.Channel](), err
	}

	_, err := program.Run()

	s.Close()
	if teardown := s.Err(); teardown != nil {
		log.Warnf("engine teardown: %v", teardown)
	}

	last := shell.Latest()
	return last.Catalog.At(last.Position), err
}
