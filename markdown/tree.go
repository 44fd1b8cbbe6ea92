package markdown

// Kind tags a Node. Renderers switch on Kind; the parser is the only code
// that looks at goldmark types.
type Kind int

const (
	KindDocument Kind = iota
	// KindPending stands in for the whole message while a reply is in flight.
	KindPending

	// Blocks
	KindParagraph
	KindHeading
	KindThematicBreak
	KindCodeBlock
	KindBlockquote
	KindList
	KindListItem
	KindHTMLBlock

	// Inlines
	KindText
	KindEmphasis
	KindStrong
	KindCodeSpan
	KindLink
	KindImage
	KindLineBreak
)

var kindNames = [...]string{
	KindDocument:      "document",
	KindPending:       "pending",
	KindParagraph:     "paragraph",
	KindHeading:       "heading",
	KindThematicBreak: "thematic_break",
	KindCodeBlock:     "code_block",
	KindBlockquote:    "blockquote",
	KindList:          "list",
	KindListItem:      "list_item",
	KindHTMLBlock:     "html_block",
	KindText:          "text",
	KindEmphasis:      "emphasis",
	KindStrong:        "strong",
	KindCodeSpan:      "code_span",
	KindLink:          "link",
	KindImage:         "image",
	KindLineBreak:     "line_break",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is one element of a parsed message. Which fields are meaningful
// depends on Kind.
type Node struct {
	Kind     Kind
	Children []*Node

	// Text is the literal content of KindText, KindCodeSpan, KindCodeBlock
	// and KindHTMLBlock.
	Text string

	// Level is the heading level, 1-6.
	Level int

	// List fields.
	Ordered bool
	Start   int
	Tight   bool

	// Code block fields. Index numbers code blocks from 0 in document order.
	Language string
	Index    int

	// Link and image fields.
	URL   string
	Title string

	// Hard marks a hard line break; soft breaks render as a space.
	Hard bool
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// PlainText concatenates the literal text under n.
func (n *Node) PlainText() string {
	var out []byte
	n.Walk(func(c *Node) bool {
		switch c.Kind {
		case KindText, KindCodeSpan:
			out = append(out, c.Text...)
		case KindLineBreak:
			out = append(out, ' ')
		}
		return true
	})
	return string(out)
}

// CodeBlock is a copyable code block.
type CodeBlock struct {
	Index    int
	Language string
	// Code is trimmed of surrounding whitespace, ready for the clipboard.
	Code string
}

// CodeBlocks lists the code blocks of doc in document order.
func CodeBlocks(doc *Node) []CodeBlock {
	var out []CodeBlock
	doc.Walk(func(n *Node) bool {
		if n.Kind == KindCodeBlock {
			out = append(out, CodeBlock{Index: n.Index, Language: n.Language, Code: trimCode(n.Text)})
			return false
		}
		return true
	})
	return out
}
