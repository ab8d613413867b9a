// Package theme activates the base Tk theme and configures the named ttk
// styles used by the camera and detection screens.
package theme

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette defines core semantic colors used across widgets.
const (
	ColorBg        = "#f4f7f2"
	ColorSurface   = "#ffffff"
	ColorBorder    = "#cfd8cc"
	ColorPrimary   = "#2f7d32" // capture, confirm
	ColorDanger    = "#c62828"
	ColorViewport  = "#101410" // preview background
	ColorText      = "#1b2a1c"
	ColorTextMuted = "#5f6f60"
)

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Viewport  string
	Text      string
	TextMuted string
}

var darkMode bool

// CurrentPalette returns colors for the current dark/light mode.
func CurrentPalette() PaletteSnapshot {
	if darkMode {
		return PaletteSnapshot{
			AppBg:     "#121812",
			Surface:   "#1c261d",
			Border:    "#324034",
			Primary:   "#4caf50",
			Danger:    "#ef5350",
			Viewport:  "#000000",
			Text:      "#edf5ee",
			TextMuted: "#98a89a",
		}
	}
	return PaletteSnapshot{
		AppBg:     ColorBg,
		Surface:   ColorSurface,
		Border:    ColorBorder,
		Primary:   ColorPrimary,
		Danger:    ColorDanger,
		Viewport:  ColorViewport,
		Text:      ColorText,
		TextMuted: ColorTextMuted,
	}
}

// Style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStateLabel    = "state.TLabel"
	StyleNoticeLabel   = "notice.TLabel"
	StyleStatusLabel   = "status.TLabel"
)

// InitStyles (re)applies styles for the current mode.
func InitStyles() { applyStyles(CurrentPalette()) }

// SetDark switches the palette and reapplies styles.
func SetDark(dark bool) bool {
	darkMode = dark
	applyStyles(CurrentPalette())
	return darkMode
}

// IsDark reports current mode.
func IsDark() bool { return darkMode }

func applyStyles(p PaletteSnapshot) {
	_ = ActivateTheme("azure light")
	App.Configure(Background(p.AppBg))

	StyleConfigure(StylePrimaryButton,
		Background(p.Primary),
		Foreground("white"),
		Padding("6p 4p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(p.Danger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleStateLabel,
		Foreground("white"),
		Background(p.Primary),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
	StyleConfigure(StyleNoticeLabel,
		Foreground(p.Danger),
		Background(p.Surface),
		Padding("4p 2p"),
	)
	StyleConfigure(StyleStatusLabel,
		Foreground(p.TextMuted),
		Padding("2p 1p"),
	)
}
