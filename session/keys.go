package session

import "strconv"

// Key is a remote-control key code.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyOK
	KeyBack
	KeyPlayPause
	KeyChannelUp
	KeyChannelDown
	KeyFastForward
	KeyRewind
	KeyListToggle
	KeyMenu
	KeyRed
	KeyGreen
	KeyYellow
	KeyBlue
	KeyDigit0
	KeyDigit1
	KeyDigit2
	KeyDigit3
	KeyDigit4
	KeyDigit5
	KeyDigit6
	KeyDigit7
	KeyDigit8
	KeyDigit9
)

var keyNames = map[Key]string{
	KeyUp:          "up",
	KeyDown:        "down",
	KeyLeft:        "left",
	KeyRight:       "right",
	KeyOK:          "ok",
	KeyBack:        "back",
	KeyPlayPause:   "play-pause",
	KeyChannelUp:   "channel-up",
	KeyChannelDown: "channel-down",
	KeyFastForward: "fast-forward",
	KeyRewind:      "rewind",
	KeyListToggle:  "list",
	KeyMenu:        "menu",
	KeyRed:         "red",
	KeyGreen:       "green",
	KeyYellow:      "yellow",
	KeyBlue:        "blue",
}

func (k Key) String() string {
	if d, ok := k.Digit(); ok {
		return strconv.Itoa(d)
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "key(" + strconv.Itoa(int(k)) + ")"
}

// DigitKey returns the key for digit d, which must be in 0..9.
func DigitKey(d int) Key {
	return KeyDigit0 + Key(d)
}

// Digit returns the digit a key stands for.
func (k Key) Digit() (int, bool) {
	if k < KeyDigit0 || k > KeyDigit9 {
		return 0, false
	}
	return int(k - KeyDigit0), true
}

// IsNavigation reports whether k is a directional or confirm key.
func (k Key) IsNavigation() bool {
	switch k {
	case KeyUp, KeyDown, KeyLeft, KeyRight, KeyOK:
		return true
	default:
		return false
	}
}
