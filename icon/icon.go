// Package icon renders the small status symbols of the player screen in the
// variant chosen by icons.variant.
package icon

import (
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tvzap/tvzap/key"
)

type Icon int

const (
	Play Icon = iota
	Pause
	Fail
	Success
	Info
	Channel
	Number
)

// variants in the column order of the glyph table below.
var variants = []string{"emoji", "nerd", "plain", "kaomoji", "squares"}

const plain = 2

var glyphs = map[Icon][5]string{
	Play:    {"▶️", "", ">", "(>‿◠)", "▶"},
	Pause:   {"⏸️", "", "||", "(-_-) zzZ", "⏸"},
	Fail:    {"💀", "", "X", "(╯°□°)╯︵ ┻━┻", "🟥"},
	Success: {"🎉", "", "OK", "(ᵔ◡ᵔ)", "🟩"},
	Info:    {"ℹ️", "", "i", "(°ロ°)☝", "🟦"},
	Channel: {"📺", "", "#", "(⌐■_■)", "▣"},
	Number:  {"🔢", "", "No.", "(｀・ω・´)", "▦"},
}

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return lo.Map(variants, func(v string, _ int) string { return v })
}

// Get renders i. An unknown variant renders as plain.
func Get(i Icon) string {
	column := lo.IndexOf(variants, viper.GetString(key.IconsVariant))
	if column < 0 {
		column = plain
	}
	return glyphs[i][column]
}
