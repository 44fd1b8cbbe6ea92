package app

// Focus is the component that receives keyboard input.
type Focus int

const (
	FocusInput   Focus = iota // Typing a message
	FocusSidebar              // Moving through the conversation list
	FocusDialog               // New-chat confirmation is open
)

func (f Focus) String() string {
	switch f {
	case FocusInput:
		return "input"
	case FocusSidebar:
		return "sidebar"
	case FocusDialog:
		return "dialog"
	default:
		return "unknown"
	}
}
