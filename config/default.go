package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tvzap/tvzap/color"
	"github.com/tvzap/tvzap/constant"
	"github.com/tvzap/tvzap/key"
	"github.com/tvzap/tvzap/style"
)

// Field is a registered setting and its default.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Type names the value kind. Strings that parse as a duration are "duration".
func (f *Field) Type() string {
	switch v := f.Value.(type) {
	case int:
		return "int"
	case bool:
		return "bool"
	case string:
		if _, err := time.ParseDuration(v); err == nil {
			return "duration"
		}
		return "string"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func (f *Field) Env() string {
	return strings.ToUpper(constant.App + "_" + EnvKeyReplacer.Replace(f.Key))
}

func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Type        string `json:"type"`
		Env         string `json:"env"`
		Description string `json:"description"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Type:        f.Type(),
		Env:         f.Env(),
		Description: f.Description,
	})
}

// fields in the order `config info` documents them.
var fields = []Field{
	{key.CatalogPath, "", "Path to the JSON channel file.\nDefaults to channels.json inside the config directory"},

	{key.PlayerEngine, "mpv", "Media engine to use.\nAvailable options are: mpv, fake"},
	{key.PlayerMPVPath, "mpv", "Path or name of the mpv executable"},
	{key.PlayerControlsTimeout, "5s", "Delay before the playback controls hide themselves"},
	{key.PlayerLoadTimeout, "10s", "Time a channel may spend loading before it is reported as failed"},
	{key.PlayerProgressInterval, "1s", "Interval between progress bar updates"},
	{key.PlayerNumberTimeout, "2s", "Quiet period after the last digit before a typed channel number is resolved"},
	{key.PlayerNumberMaxDigits, 4, "Maximum number of digits accepted for numeric channel entry"},
	{key.PlayerSeekStep, "5s", "Step used by fast-forward and rewind"},
	{key.PlayerAudioFirstTrack, true, "Select the first audio track whenever a stream starts playing"},
	{key.PlayerResume, true, "Start on the channel watched last time when no start channel is given"},

	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)"},
	{key.MetricsAddress, "", "Address to serve Prometheus metrics on, e.g. :9310.\nMetrics are not served when empty"},

	{key.LogsWrite, false, "Write logs"},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace"},
	{key.LogsJson, false, "Use json format for logs"},

	{key.CliColored, true, "Enable colored CLI output"},
}

// Default indexes fields by key.
var Default = lo.KeyBy(fields, func(f Field) string { return f.Key })

// EnvExposed lists the keys bound to TVZAP_* variables.
var EnvExposed = lo.Map(fields, func(f Field, _ int) string { return f.Key })

// Fields returns every setting in documentation order.
func Fields() []Field {
	return append([]Field(nil), fields...)
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"purple": style.Fg(color.Purple),
	"blue":   style.Fg(color.Blue),
	"cyan":   style.Fg(color.Cyan),
	"value":  viper.Get,
	"hl":     highlight,
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl .Value }}
{{ blue "Type:" }}    {{ cyan .Type }}`))

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		return style.Fg(lo.Ternary(value, color.Green, color.Red))(strconv.FormatBool(value))
	case string:
		return style.Fg(color.Yellow)(value)
	default:
		return fmt.Sprint(value)
	}
}
