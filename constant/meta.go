// Package constant holds the identity of the build.
package constant

import _ "embed"

const (
	App     = "tvzap"
	Version = "0.3.1"
)

// Build metadata, set at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

//go:embed ascii.txt
var AsciiArtLogo string

// runtime.GOOS values with an mpv install hint.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
