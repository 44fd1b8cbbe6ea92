package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors, initialized to dark theme defaults. Updated via SetTheme().
var (
	Primary   lipgloss.TerminalColor = darkTheme.Primary
	Secondary lipgloss.TerminalColor = darkTheme.Secondary
	Success   lipgloss.TerminalColor = darkTheme.Success
	Warning   lipgloss.TerminalColor = darkTheme.Warning
	Error     lipgloss.TerminalColor = darkTheme.Error
	Muted     lipgloss.TerminalColor = darkTheme.Muted
	Dim       lipgloss.TerminalColor = darkTheme.Dim
	Border    lipgloss.TerminalColor = darkTheme.Border

	MsgBorderUser   lipgloss.TerminalColor = darkTheme.MsgBorderUser
	MsgBorderAgent  lipgloss.TerminalColor = darkTheme.MsgBorderAgent
	SidebarActiveBg lipgloss.TerminalColor = darkTheme.SidebarActiveBg
	CodeHeaderBg    lipgloss.TerminalColor = darkTheme.CodeHeaderBg
)

// Styles, rebuilt whenever the theme changes.
var (
	Bold      lipgloss.Style
	Faint     lipgloss.Style
	ErrorText lipgloss.Style

	// Header
	BannerTitle  lipgloss.Style
	BannerDetail lipgloss.Style

	PromptChar lipgloss.Style

	// Chat
	UserLabel      lipgloss.Style
	AgentLabel     lipgloss.Style
	UserBubble     lipgloss.Style
	AgentBubble    lipgloss.Style
	FailureMessage lipgloss.Style

	SpinnerStyle   lipgloss.Style
	PrefixThinking lipgloss.Style

	// Sidebar
	SidebarFrame     lipgloss.Style
	SidebarTitle     lipgloss.Style
	SidebarItem      lipgloss.Style
	SidebarActive    lipgloss.Style
	SidebarCursor    lipgloss.Style
	SidebarTimestamp lipgloss.Style
	SidebarButton    lipgloss.Style

	// Confirmation dialog
	DialogBorder     lipgloss.Style
	DialogTitle      lipgloss.Style
	DialogSelected   lipgloss.Style
	DialogUnselected lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	StatusSignal lipgloss.Style

	// Code blocks
	CodeHeader lipgloss.Style
	CodeCopy   lipgloss.Style
	CodeFrame  lipgloss.Style

	Hint lipgloss.Style

	// Intro screen
	WelcomeTitle lipgloss.Style
	WelcomeCard  lipgloss.Style
	WelcomeTip   lipgloss.Style

	// Toasts
	ToastInfo  lipgloss.Style
	ToastError lipgloss.Style
)

func init() {
	rebuildStyles()
}

// SetTheme applies a named theme, updating all color vars and rebuilding styles.
func SetTheme(name string) bool {
	t, ok := Themes[name]
	if !ok {
		return false
	}
	CurrentThemeName = name
	Primary = t.Primary
	Secondary = t.Secondary
	Success = t.Success
	Warning = t.Warning
	Error = t.Error
	Muted = t.Muted
	Dim = t.Dim
	Border = t.Border
	MsgBorderUser = t.MsgBorderUser
	MsgBorderAgent = t.MsgBorderAgent
	SidebarActiveBg = t.SidebarActiveBg
	CodeHeaderBg = t.CodeHeaderBg
	rebuildStyles()
	return true
}

// IsDark returns whether the current theme is dark.
func IsDark() bool {
	return Current().Markdown != "light"
}

func rebuildStyles() {
	Bold = lipgloss.NewStyle().Bold(true)
	Faint = lipgloss.NewStyle().Foreground(Muted)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)

	BannerTitle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	BannerDetail = lipgloss.NewStyle().Foreground(Muted)

	PromptChar = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	UserLabel = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	AgentLabel = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	UserBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(MsgBorderUser).
		PaddingLeft(1)
	AgentBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(MsgBorderAgent).
		PaddingLeft(1)
	FailureMessage = lipgloss.NewStyle().Foreground(Error)

	SpinnerStyle = lipgloss.NewStyle().Foreground(Primary)
	PrefixThinking = lipgloss.NewStyle().Foreground(Warning).Bold(true)

	SidebarFrame = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Border).
		PaddingRight(1)
	SidebarTitle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	SidebarItem = lipgloss.NewStyle().PaddingLeft(2)
	SidebarActive = lipgloss.NewStyle().
		Background(SidebarActiveBg).
		Foreground(Secondary).
		Bold(true).
		PaddingLeft(2)
	SidebarCursor = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	SidebarTimestamp = lipgloss.NewStyle().Foreground(Muted)
	SidebarButton = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Foreground(Primary).
		Padding(0, 1)

	DialogBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
	DialogTitle = lipgloss.NewStyle().Bold(true)
	DialogSelected = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	DialogUnselected = lipgloss.NewStyle().Foreground(Muted)

	StatusBar = lipgloss.NewStyle().Foreground(Muted).PaddingLeft(1)
	StatusSignal = lipgloss.NewStyle().Foreground(Secondary)

	CodeHeader = lipgloss.NewStyle().
		Background(CodeHeaderBg).
		Foreground(Muted).
		Padding(0, 1)
	CodeCopy = lipgloss.NewStyle().
		Background(CodeHeaderBg).
		Foreground(Secondary).
		Padding(0, 1)
	CodeFrame = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Dim).
		PaddingLeft(1)

	Hint = lipgloss.NewStyle().Foreground(Dim)

	WelcomeTitle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	WelcomeCard = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1).
		MarginRight(1)
	WelcomeTip = lipgloss.NewStyle().Foreground(Muted)

	ToastInfo = lipgloss.NewStyle().Foreground(Success)
	ToastError = lipgloss.NewStyle().Foreground(Error)
}

// Truncate shortens s to at most n cells, ending with an ellipsis when cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return strings.TrimRight(string(r), " ") + "…"
}
