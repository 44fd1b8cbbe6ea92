package style

import "github.com/charmbracelet/lipgloss"

// Theme defines a complete color palette for the client.
type Theme struct {
	Name                                        string
	Primary, Secondary, Success, Warning, Error lipgloss.TerminalColor
	Muted, Dim, Border                          lipgloss.TerminalColor
	MsgBorderUser, MsgBorderAgent               lipgloss.TerminalColor
	SidebarActiveBg, CodeHeaderBg               lipgloss.TerminalColor

	// Markdown selects glamour's prose palette: "dark" or "light".
	Markdown string
	// Chroma names the syntax highlighting style for code blocks.
	Chroma string
}

// Built-in themes.
var (
	darkTheme = Theme{
		Name:            "dark",
		Primary:         lipgloss.Color("#7C3AED"), // violet-600
		Secondary:       lipgloss.Color("#06B6D4"), // cyan-500
		Success:         lipgloss.Color("#22C55E"), // green-500
		Warning:         lipgloss.Color("#F59E0B"), // amber-500
		Error:           lipgloss.Color("#EF4444"), // red-500
		Muted:           lipgloss.Color("#6B7280"), // gray-500
		Dim:             lipgloss.Color("#374151"), // gray-700
		Border:          lipgloss.Color("#4B5563"), // gray-600
		MsgBorderUser:   lipgloss.Color("#06B6D4"),
		MsgBorderAgent:  lipgloss.Color("#7C3AED"),
		SidebarActiveBg: lipgloss.Color("#1F2937"), // gray-800
		CodeHeaderBg:    lipgloss.Color("#1F2937"),
		Markdown:        "dark",
		Chroma:          "monokai",
	}

	lightTheme = Theme{
		Name:            "light",
		Primary:         lipgloss.Color("#6D28D9"), // violet-700
		Secondary:       lipgloss.Color("#0891B2"), // cyan-600
		Success:         lipgloss.Color("#16A34A"), // green-600
		Warning:         lipgloss.Color("#D97706"), // amber-600
		Error:           lipgloss.Color("#DC2626"), // red-600
		Muted:           lipgloss.Color("#9CA3AF"), // gray-400
		Dim:             lipgloss.Color("#D1D5DB"), // gray-300
		Border:          lipgloss.Color("#9CA3AF"), // gray-400
		MsgBorderUser:   lipgloss.Color("#0891B2"),
		MsgBorderAgent:  lipgloss.Color("#6D28D9"),
		SidebarActiveBg: lipgloss.Color("#E5E7EB"), // gray-200
		CodeHeaderBg:    lipgloss.Color("#E5E7EB"),
		Markdown:        "light",
		Chroma:          "github",
	}

	catppuccinTheme = Theme{
		Name:            "catppuccin",
		Primary:         lipgloss.Color("#CBA6F7"), // mauve
		Secondary:       lipgloss.Color("#89DCEB"), // sky
		Success:         lipgloss.Color("#A6E3A1"), // green
		Warning:         lipgloss.Color("#F9E2AF"), // yellow
		Error:           lipgloss.Color("#F38BA8"), // red
		Muted:           lipgloss.Color("#6C7086"), // overlay0
		Dim:             lipgloss.Color("#45475A"), // surface1
		Border:          lipgloss.Color("#585B70"), // surface2
		MsgBorderUser:   lipgloss.Color("#89DCEB"),
		MsgBorderAgent:  lipgloss.Color("#CBA6F7"),
		SidebarActiveBg: lipgloss.Color("#313244"), // surface0
		CodeHeaderBg:    lipgloss.Color("#313244"),
		Markdown:        "dark",
		Chroma:          "catppuccin-mocha",
	}
)

// Themes maps theme names to their definitions.
var Themes = map[string]Theme{
	"dark":       darkTheme,
	"light":      lightTheme,
	"catppuccin": catppuccinTheme,
}

// ThemeNames lists available themes in display order.
var ThemeNames = []string{"dark", "light", "catppuccin"}

// CurrentThemeName tracks the active theme name.
var CurrentThemeName = "dark"

// Current returns the active theme.
func Current() Theme {
	return Themes[CurrentThemeName]
}
