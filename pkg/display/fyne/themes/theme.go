//go:build !test

// Package themes holds the fyne theme of the native window.
package themes

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Default is a dark theme with monospaced text, so that screen
// glyphs and state lines line up.
type Default struct{}

var _ fyne.Theme = Default{}

var (
	primary    = color.NRGBA{0xff, 0x88, 0x2e, 0xff}
	surface    = color.NRGBA{0x14, 0x12, 0x1c, 0xff}
	surfaceA20 = color.NRGBA{0x39, 0x34, 0x45, 0xff}
	surfaceA40 = color.NRGBA{0x4f, 0x4a, 0x5a, 0xff}
	surfaceA60 = color.NRGBA{0x66, 0x61, 0x66, 0xff}
	disabled   = color.NRGBA{35, 35, 35, 255}
)

var colorMap = map[fyne.ThemeColorName]color.Color{
	theme.ColorNamePrimary:         primary,
	theme.ColorNameBackground:      surface,
	theme.ColorNameMenuBackground:  surfaceA40,
	theme.ColorNameDisabled:        disabled,
	theme.ColorNameButton:          surfaceA40,
	theme.ColorNameInputBackground: surfaceA20,
	theme.ColorNameFocus:           surfaceA20,
	theme.ColorNameHover:           surfaceA60,
	theme.ColorNameForeground:      color.White,
}

func (d Default) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if c, ok := colorMap[name]; ok {
		return c
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (d Default) Font(style fyne.TextStyle) fyne.Resource {
	style.Monospace = true
	return theme.DefaultTheme().Font(style)
}

func (d Default) Icon(name fyne.ThemeIconName) fyne.Resource { return theme.DefaultTheme().Icon(name) }
func (d Default) Size(name fyne.ThemeSizeName) float32       { return theme.DefaultTheme().Size(name) }
