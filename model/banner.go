package model

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/osa-chat/style"
)

// BannerModel renders the one-line header:
//
//	◈ AI Assistant · localhost:8000                     ctrl+n new · tab list
type BannerModel struct {
	endpoint string
	version  string
	width    int
}

// NewBanner returns a BannerModel for the given backend address.
func NewBanner(endpoint, version string) BannerModel {
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "http://"), "https://")
	return BannerModel{endpoint: endpoint, version: version}
}

// SetWidth sets the available width.
func (m *BannerModel) SetWidth(w int) {
	m.width = w
}

// Init satisfies tea.Model.
func (m BannerModel) Init() tea.Cmd {
	return nil
}

// Update satisfies tea.Model. The banner is static.
func (m BannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the banner line.
func (m BannerModel) View() string {
	left := style.BannerTitle.Render("◈ AI Assistant")
	if m.version != "" {
		left += style.BannerDetail.Render(" " + m.version)
	}
	left += style.BannerDetail.Render(" · " + m.endpoint)

	right := style.Hint.Render("ctrl+n new · tab list · ctrl+b collapse")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}
