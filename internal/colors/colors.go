// Package colors provides TTY-aware color output for the symbol listings.
//
// Colors are automatically disabled when stdout is not a terminal (piped or
// redirected to a file). This behavior is provided by the underlying fatih/color
// library and respected by default. Use Init() to override based on CLI flags.
package colors

import (
	"github.com/blacktop/pesyms/pkg/symbols"
	"github.com/fatih/color"
)

// Init allows overriding the auto-detected color setting.
//   - forceColor == nil: keep auto-detected value
//   - forceColor == true: force colors on (--color)
//   - forceColor == false: force colors off
func Init(forceColor *bool) {
	if forceColor != nil {
		color.NoColor = !*forceColor
	}
}

func Bold() *color.Color         { return color.New(color.Bold) }
func Faint() *color.Color        { return color.New(color.Faint) }
func FaintCyan() *color.Color    { return color.New(color.Faint, color.FgCyan) }
func FaintYellow() *color.Color  { return color.New(color.Faint, color.FgYellow) }
func FaintMagenta() *color.Color { return color.New(color.Faint, color.FgMagenta) }
func BoldGreen() *color.Color    { return color.New(color.Bold, color.FgGreen) }
func BoldBlue() *color.Color     { return color.New(color.Bold, color.FgBlue) }
func HiRed() *color.Color        { return color.New(color.FgHiRed) }

// Kind returns the color used for symbols of kind.
func Kind(kind symbols.Kind) *color.Color {
	if kind == symbols.KindFunction {
		return BoldGreen()
	}
	return BoldBlue()
}

// Flag returns the color used for a raw entry classification.
func Flag(flag symbols.Flag) *color.Color {
	switch {
	case flag&symbols.FlagWeakExternal != 0:
		return FaintYellow()
	case flag&(symbols.FlagFile|symbols.FlagSectionDefinition) != 0:
		return FaintMagenta()
	default:
		return FaintCyan()
	}
}
