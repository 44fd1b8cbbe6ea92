package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/miosa/osa-chat/style"
)

const (
	defaultWidth = 100
	minWidth     = 20
)

// Renderer draws a Node tree as ANSI text.
type Renderer struct {
	width  int
	prose  palette
	chroma string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the wrap width for prose.
func WithWidth(w int) Option {
	return func(r *Renderer) {
		if w < minWidth {
			w = minWidth
		}
		r.width = w
	}
}

// WithTheme picks the glamour prose palette ("dark" or "light") and the
// chroma style used for code blocks.
func WithTheme(prose, chroma string) Option {
	return func(r *Renderer) {
		r.prose = newPalette(prose)
		r.chroma = chroma
	}
}

// NewRenderer returns a Renderer styled after the active theme.
func NewRenderer(opts ...Option) *Renderer {
	t := style.Current()
	r := &Renderer{
		width:  defaultWidth,
		prose:  newPalette(t.Markdown),
		chroma: t.Chroma,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Width returns the wrap width.
func (r *Renderer) Width() int { return r.width }

// Render draws doc. Code block copy labels are numbered from firstIndex+1
// so several messages can share one numbering.
func (r *Renderer) Render(doc *Node, firstIndex int) string {
	if doc == nil {
		return ""
	}
	if doc.Kind == KindPending {
		return PendingIndicator()
	}
	return strings.TrimRight(r.block(doc, r.width, firstIndex), "\n")
}

// RenderWidth parses and renders md in one step.
func RenderWidth(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return md
	}
	return NewRenderer(WithWidth(width)).Render(Parse(md), 0)
}

// PendingIndicator is the fixed rendering of the in-flight placeholder.
func PendingIndicator() string {
	return style.PrefixThinking.Render("◌ ") + style.Faint.Italic(true).Render("Thinking...")
}

// CopyLabel is the affordance shown on code block n (1-based).
func CopyLabel(n int) string {
	return fmt.Sprintf("⧉ /copy %d", n)
}

func (r *Renderer) block(n *Node, width, first int) string {
	switch n.Kind {
	case KindDocument, KindListItem:
		return r.children(n.Children, width, first, false)

	case KindPending:
		return PendingIndicator()

	case KindParagraph:
		return wordwrap.String(r.inlines(n.Children), width)

	case KindHeading:
		lvl := clamp(n.Level, 1, 6) - 1
		text := r.prose.headingPfx[lvl] + n.PlainText() + r.prose.headingSfx[lvl]
		return r.prose.headings[lvl].Render(wordwrap.String(text, width))

	case KindThematicBreak:
		return r.prose.rule.Render(strings.Repeat("─", min(width, 40)))

	case KindCodeBlock:
		return r.codeBlock(n, first)

	case KindBlockquote:
		token := r.prose.quoteToken
		inner := r.children(n.Children, width-lipgloss.Width(token), first, false)
		lines := strings.Split(inner, "\n")
		for i, l := range lines {
			lines[i] = r.prose.quote.Render(token) + l
		}
		return strings.Join(lines, "\n")

	case KindList:
		return r.list(n, width, first)

	case KindHTMLBlock:
		return r.prose.html.Render(n.Text)

	default:
		return wordwrap.String(r.inline(n), width)
	}
}

func (r *Renderer) children(nodes []*Node, width, first int, tight bool) string {
	sep := "\n\n"
	if tight {
		sep = "\n"
	}
	parts := make([]string, 0, len(nodes))
	for _, c := range nodes {
		parts = append(parts, r.block(c, width, first))
	}
	return strings.Join(parts, sep)
}

func (r *Renderer) list(n *Node, width, first int) string {
	items := make([]string, 0, len(n.Children))
	for i, item := range n.Children {
		marker := r.prose.bullet
		if n.Ordered {
			marker = fmt.Sprintf("%d%s", n.Start+i, r.prose.enumeration)
		}
		indent := strings.Repeat(" ", lipgloss.Width(marker))
		body := r.children(item.Children, width-len(indent), first, n.Tight)
		lines := strings.Split(body, "\n")
		for j := range lines {
			if j == 0 {
				lines[j] = marker + lines[j]
			} else if lines[j] != "" {
				lines[j] = indent + lines[j]
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	sep := "\n\n"
	if n.Tight {
		sep = "\n"
	}
	return strings.Join(items, sep)
}

func (r *Renderer) codeBlock(n *Node, first int) string {
	label := languageLabel(n.Language, n.Text)
	header := style.CodeHeader.Render(label) + style.CodeCopy.Render(CopyLabel(first+n.Index+1))
	body := highlight(n.Text, n.Language, r.chroma)
	return header + "\n" + style.CodeFrame.Render(body)
}

func (r *Renderer) inlines(nodes []*Node) string {
	var b strings.Builder
	for _, c := range nodes {
		b.WriteString(r.inline(c))
	}
	return b.String()
}

func (r *Renderer) inline(n *Node) string {
	switch n.Kind {
	case KindText:
		return n.Text
	case KindLineBreak:
		if n.Hard {
			return "\n"
		}
		return " "
	case KindEmphasis:
		return r.prose.emph.Render(n.PlainText())
	case KindStrong:
		return r.prose.strong.Render(n.PlainText())
	case KindCodeSpan:
		return r.prose.code.Render(r.prose.codePfx + n.Text + r.prose.codeSfx)
	case KindLink:
		label := n.PlainText()
		if label == "" || label == n.URL {
			return r.prose.link.Render(n.URL)
		}
		return r.prose.linkText.Render(label) + " " + r.prose.link.Render(n.URL)
	case KindImage:
		alt := n.PlainText()
		if alt == "" {
			alt = "image"
		}
		return r.prose.imageText.Render("["+alt+"]") + " " + r.prose.link.Render(n.URL)
	default:
		return r.inlines(n.Children)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
