package model

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/osa-chat/style"
)

// ToastLevel classifies toast severity.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastError
)

const (
	maxToasts = 3
	toastTTL  = 4 * time.Second
)

type toast struct {
	text   string
	level  ToastLevel
	expiry time.Time
}

// ToastsModel shows short-lived notices above the input. Adding a notice
// that is already showing only extends its lifetime.
type ToastsModel struct {
	queue []toast
	now   func() time.Time
}

// NewToasts creates an empty ToastsModel.
func NewToasts() ToastsModel {
	return ToastsModel{now: time.Now}
}

// Add shows text at level. The oldest notice is dropped past maxToasts.
func (m *ToastsModel) Add(text string, level ToastLevel) {
	expiry := m.now().Add(toastTTL)
	for i := range m.queue {
		if m.queue[i].text == text && m.queue[i].level == level {
			m.queue[i].expiry = expiry
			return
		}
	}
	m.queue = append(m.queue, toast{text: text, level: level, expiry: expiry})
	if len(m.queue) > maxToasts {
		m.queue = m.queue[len(m.queue)-maxToasts:]
	}
}

// Tick drops expired notices. Call on every msg.TickMsg.
func (m *ToastsModel) Tick() {
	now := m.now()
	alive := m.queue[:0]
	for _, t := range m.queue {
		if now.Before(t.expiry) {
			alive = append(alive, t)
		}
	}
	m.queue = alive
}

// HasToasts reports whether any notices are visible.
func (m ToastsModel) HasToasts() bool {
	return len(m.queue) > 0
}

// View renders the notices right-aligned within width.
func (m ToastsModel) View(width int) string {
	if len(m.queue) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.queue))
	for _, t := range m.queue {
		icon, st := "✓", style.ToastInfo
		if t.level == ToastError {
			icon, st = "✘", style.ToastError
		}
		rendered := st.Render(" " + icon + " " + style.Truncate(t.text, width-4) + " ")
		pad := max(width-lipgloss.Width(rendered), 0)
		lines = append(lines, strings.Repeat(" ", pad)+rendered)
	}
	return strings.Join(lines, "\n")
}
