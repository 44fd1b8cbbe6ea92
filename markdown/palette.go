package markdown

import (
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// palette is the prose styling taken from one of glamour's style configs.
type palette struct {
	headings    [6]lipgloss.Style
	headingPfx  [6]string
	headingSfx  [6]string
	emph        lipgloss.Style
	strong      lipgloss.Style
	code        lipgloss.Style
	codePfx     string
	codeSfx     string
	link        lipgloss.Style
	linkText    lipgloss.Style
	imageText   lipgloss.Style
	quote       lipgloss.Style
	quoteToken  string
	rule        lipgloss.Style
	html        lipgloss.Style
	bullet      string
	enumeration string
}

func newPalette(name string) palette {
	cfg := styles.DarkStyleConfig
	if name == "light" {
		cfg = styles.LightStyleConfig
	}

	p := palette{
		emph:        primitive(cfg.Emph),
		strong:      primitive(cfg.Strong),
		code:        primitive(cfg.Code.StylePrimitive),
		codePfx:     cfg.Code.Prefix,
		codeSfx:     cfg.Code.Suffix,
		link:        primitive(cfg.Link),
		linkText:    primitive(cfg.LinkText),
		imageText:   primitive(cfg.ImageText),
		quote:       primitive(cfg.BlockQuote.StylePrimitive),
		quoteToken:  "│ ",
		rule:        primitive(cfg.HorizontalRule),
		html:        lipgloss.NewStyle().Faint(true),
		bullet:      cfg.Item.BlockPrefix,
		enumeration: cfg.Enumeration.BlockPrefix,
	}
	if cfg.BlockQuote.IndentToken != nil {
		p.quoteToken = *cfg.BlockQuote.IndentToken
	}
	if p.bullet == "" {
		p.bullet = "• "
	}
	if p.enumeration == "" {
		p.enumeration = ". "
	}

	base := primitive(cfg.Heading.StylePrimitive)
	levels := [6]ansi.StyleBlock{cfg.H1, cfg.H2, cfg.H3, cfg.H4, cfg.H5, cfg.H6}
	for i, h := range levels {
		p.headings[i] = primitive(h.StylePrimitive).Inherit(base)
		p.headingPfx[i] = h.Prefix
		p.headingSfx[i] = h.Suffix
	}
	return p
}

// primitive maps a glamour style primitive onto a lipgloss style.
func primitive(sp ansi.StylePrimitive) lipgloss.Style {
	s := lipgloss.NewStyle()
	if sp.Color != nil {
		s = s.Foreground(lipgloss.Color(*sp.Color))
	}
	if sp.BackgroundColor != nil {
		s = s.Background(lipgloss.Color(*sp.BackgroundColor))
	}
	if sp.Bold != nil {
		s = s.Bold(*sp.Bold)
	}
	if sp.Italic != nil {
		s = s.Italic(*sp.Italic)
	}
	if sp.Underline != nil {
		s = s.Underline(*sp.Underline)
	}
	if sp.CrossedOut != nil {
		s = s.Strikethrough(*sp.CrossedOut)
	}
	if sp.Faint != nil {
		s = s.Faint(*sp.Faint)
	}
	return s
}
