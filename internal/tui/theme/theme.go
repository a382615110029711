// Package theme defines color themes shared by the TUI and CLI renderers.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name          string
	Background    lipgloss.Color // Main app background
	Surface       lipgloss.Color // Card/panel backgrounds
	SurfaceHover  lipgloss.Color // Highlighted surface (active tab, selected row)
	SurfaceBright lipgloss.Color // Extra bright surface for emphasis
	Border        lipgloss.Color // Subtle borders
	BorderBright  lipgloss.Color // Prominent borders (cards, focus)
	BorderAccent  lipgloss.Color // Accent-colored borders for focus states
	TextDim       lipgloss.Color // Lowest contrast text (hints, disabled)
	TextMuted     lipgloss.Color // Secondary text (labels, metadata)
	TextPrimary   lipgloss.Color // Primary content text
	Accent        lipgloss.Color // Primary accent (links, active states)
	AccentBright  lipgloss.Color // Brighter accent for emphasis
	AccentDim     lipgloss.Color // Dimmed accent for backgrounds
	Green         lipgloss.Color
	GreenBright   lipgloss.Color
	Orange        lipgloss.Color
	Red           lipgloss.Color
	Blue          lipgloss.Color
	BlueBright    lipgloss.Color
	Yellow        lipgloss.Color
	Magenta       lipgloss.Color
	Cyan          lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    lipgloss.Color("#100F0F"),
	Surface:       lipgloss.Color("#1C1B1A"),
	SurfaceHover:  lipgloss.Color("#282726"),
	SurfaceBright: lipgloss.Color("#343331"),
	Border:        lipgloss.Color("#403E3C"),
	BorderBright:  lipgloss.Color("#575653"),
	BorderAccent:  lipgloss.Color("#3AA99F"),
	TextDim:       lipgloss.Color("#575653"),
	TextMuted:     lipgloss.Color("#878580"),
	TextPrimary:   lipgloss.Color("#FFFCF0"),
	Accent:        lipgloss.Color("#3AA99F"),
	AccentBright:  lipgloss.Color("#5BC8BE"),
	AccentDim:     lipgloss.Color("#1A3533"),
	Green:         lipgloss.Color("#879A39"),
	GreenBright:   lipgloss.Color("#A3B859"),
	Orange:        lipgloss.Color("#DA702C"),
	Red:           lipgloss.Color("#D14D41"),
	Blue:          lipgloss.Color("#4385BE"),
	BlueBright:    lipgloss.Color("#6BA3D6"),
	Yellow:        lipgloss.Color("#D0A215"),
	Magenta:       lipgloss.Color("#CE5D97"),
	Cyan:          lipgloss.Color("#24837B"),
}

// Cinnabar is a lacquer-red and gold dark theme.
var Cinnabar = Theme{
	Name:          "cinnabar",
	Background:    lipgloss.Color("#140C0B"),
	Surface:       lipgloss.Color("#221412"),
	SurfaceHover:  lipgloss.Color("#331D1A"),
	SurfaceBright: lipgloss.Color("#442723"),
	Border:        lipgloss.Color("#4F302B"),
	BorderBright:  lipgloss.Color("#6B433C"),
	BorderAccent:  lipgloss.Color("#E0A040"),
	TextDim:       lipgloss.Color("#6B5A55"),
	TextMuted:     lipgloss.Color("#A89490"),
	TextPrimary:   lipgloss.Color("#F5E9E2"),
	Accent:        lipgloss.Color("#E0A040"),
	AccentBright:  lipgloss.Color("#F4C26B"),
	AccentDim:     lipgloss.Color("#3D2A12"),
	Green:         lipgloss.Color("#8FB573"),
	GreenBright:   lipgloss.Color("#AED295"),
	Orange:        lipgloss.Color("#E07B39"),
	Red:           lipgloss.Color("#D9453B"),
	Blue:          lipgloss.Color("#6C9BC2"),
	BlueBright:    lipgloss.Color("#93B9DA"),
	Yellow:        lipgloss.Color("#E8C547"),
	Magenta:       lipgloss.Color("#C9609A"),
	Cyan:          lipgloss.Color("#5AA6A0"),
}

// InkWash is a light, paper-toned theme.
var InkWash = Theme{
	Name:          "ink-wash",
	Background:    lipgloss.Color("#F4F1EA"),
	Surface:       lipgloss.Color("#EAE5DA"),
	SurfaceHover:  lipgloss.Color("#DDD6C8"),
	SurfaceBright: lipgloss.Color("#D0C8B8"),
	Border:        lipgloss.Color("#BFB6A5"),
	BorderBright:  lipgloss.Color("#9C9381"),
	BorderAccent:  lipgloss.Color("#2F5D62"),
	TextDim:       lipgloss.Color("#9C9381"),
	TextMuted:     lipgloss.Color("#6B6457"),
	TextPrimary:   lipgloss.Color("#22201C"),
	Accent:        lipgloss.Color("#2F5D62"),
	AccentBright:  lipgloss.Color("#1F474B"),
	AccentDim:     lipgloss.Color("#D3DEDC"),
	Green:         lipgloss.Color("#4F7A28"),
	GreenBright:   lipgloss.Color("#3B6419"),
	Orange:        lipgloss.Color("#B45A1E"),
	Red:           lipgloss.Color("#A8322A"),
	Blue:          lipgloss.Color("#2D5F8F"),
	BlueBright:    lipgloss.Color("#1F4A73"),
	Yellow:        lipgloss.Color("#9A7A10"),
	Magenta:       lipgloss.Color("#8E3B6B"),
	Cyan:          lipgloss.Color("#2A7069"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:          "terminal",
	Background:    lipgloss.Color("0"),
	Surface:       lipgloss.Color("0"),
	SurfaceHover:  lipgloss.Color("8"),
	SurfaceBright: lipgloss.Color("8"),
	Border:        lipgloss.Color("8"),
	BorderBright:  lipgloss.Color("7"),
	BorderAccent:  lipgloss.Color("6"),
	TextDim:       lipgloss.Color("8"),
	TextMuted:     lipgloss.Color("7"),
	TextPrimary:   lipgloss.Color("15"),
	Accent:        lipgloss.Color("6"),
	AccentBright:  lipgloss.Color("14"),
	AccentDim:     lipgloss.Color("0"),
	Green:         lipgloss.Color("2"),
	GreenBright:   lipgloss.Color("10"),
	Orange:        lipgloss.Color("3"),
	Red:           lipgloss.Color("1"),
	Blue:          lipgloss.Color("4"),
	BlueBright:    lipgloss.Color("12"),
	Yellow:        lipgloss.Color("3"),
	Magenta:       lipgloss.Color("5"),
	Cyan:          lipgloss.Color("6"),
}

// All available themes.
var All = []Theme{FlexokiDark, Cinnabar, InkWash, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Names returns the names of All, in order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}
