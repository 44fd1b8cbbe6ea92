package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/miosa/osa-chat/client"
)

var md = goldmark.New()

// Parse turns message content into a Node tree. The in-flight placeholder
// is never parsed: it yields a single KindPending node.
func Parse(content string) *Node {
	if content == client.PendingContent {
		return &Node{Kind: KindPending}
	}
	src := []byte(content)
	root := md.Parser().Parse(text.NewReader(src))
	c := converter{src: src}
	return c.block(root)
}

type converter struct {
	src       []byte
	codeIndex int
}

func (c *converter) block(n ast.Node) *Node {
	switch n := n.(type) {
	case *ast.Document:
		return &Node{Kind: KindDocument, Children: c.blocks(n)}
	case *ast.Paragraph:
		return &Node{Kind: KindParagraph, Children: c.inlines(n)}
	case *ast.TextBlock:
		return &Node{Kind: KindParagraph, Children: c.inlines(n)}
	case *ast.Heading:
		return &Node{Kind: KindHeading, Level: n.Level, Children: c.inlines(n)}
	case *ast.ThematicBreak:
		return &Node{Kind: KindThematicBreak}
	case *ast.FencedCodeBlock:
		node := &Node{Kind: KindCodeBlock, Text: c.lines(n), Language: string(n.Language(c.src)), Index: c.codeIndex}
		c.codeIndex++
		return node
	case *ast.CodeBlock:
		node := &Node{Kind: KindCodeBlock, Text: c.lines(n), Index: c.codeIndex}
		c.codeIndex++
		return node
	case *ast.Blockquote:
		return &Node{Kind: KindBlockquote, Children: c.blocks(n)}
	case *ast.List:
		return &Node{Kind: KindList, Ordered: n.IsOrdered(), Start: n.Start, Tight: n.IsTight, Children: c.blocks(n)}
	case *ast.ListItem:
		return &Node{Kind: KindListItem, Children: c.blocks(n)}
	case *ast.HTMLBlock:
		return &Node{Kind: KindHTMLBlock, Text: c.lines(n)}
	default:
		if n.Type() == ast.TypeInline {
			return &Node{Kind: KindParagraph, Children: c.inline(n)}
		}
		return &Node{Kind: KindParagraph, Children: c.inlines(n)}
	}
}

func (c *converter) blocks(n ast.Node) []*Node {
	var out []*Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.block(child))
	}
	return out
}

func (c *converter) inlines(n ast.Node) []*Node {
	var out []*Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.inline(child)...)
	}
	return out
}

func (c *converter) inline(n ast.Node) []*Node {
	switch n := n.(type) {
	case *ast.Text:
		out := []*Node{{Kind: KindText, Text: string(n.Segment.Value(c.src))}}
		if n.HardLineBreak() {
			out = append(out, &Node{Kind: KindLineBreak, Hard: true})
		} else if n.SoftLineBreak() {
			out = append(out, &Node{Kind: KindLineBreak})
		}
		return out
	case *ast.String:
		return []*Node{{Kind: KindText, Text: string(n.Value)}}
	case *ast.CodeSpan:
		var b strings.Builder
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch t := child.(type) {
			case *ast.Text:
				b.Write(t.Segment.Value(c.src))
			case *ast.String:
				b.Write(t.Value)
			}
		}
		return []*Node{{Kind: KindCodeSpan, Text: b.String()}}
	case *ast.Emphasis:
		kind := KindEmphasis
		if n.Level >= 2 {
			kind = KindStrong
		}
		return []*Node{{Kind: kind, Children: c.inlines(n)}}
	case *ast.Link:
		return []*Node{{Kind: KindLink, URL: string(n.Destination), Title: string(n.Title), Children: c.inlines(n)}}
	case *ast.Image:
		return []*Node{{Kind: KindImage, URL: string(n.Destination), Title: string(n.Title), Children: c.inlines(n)}}
	case *ast.AutoLink:
		return []*Node{{
			Kind:     KindLink,
			URL:      string(n.URL(c.src)),
			Children: []*Node{{Kind: KindText, Text: string(n.Label(c.src))}},
		}}
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(c.src))
		}
		return []*Node{{Kind: KindText, Text: b.String()}}
	default:
		return c.inlines(n)
	}
}

func (c *converter) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	return strings.TrimRight(b.String(), "\n")
}

func trimCode(s string) string {
	return strings.TrimSpace(s)
}
