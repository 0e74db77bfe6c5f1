package ingest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseError reports a document that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse document: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Node is an element (Name set) or a text node (Name empty).
type Node struct {
	Name     string
	Attrs    []xml.Attr
	Text     string
	Children []*Node
}

// Parse builds a node tree from an XML stream without recursion.
// An empty stream yields an empty root.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Entity = xml.HTMLEntity

	root := &Node{}
	open := []*Node{root}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		parent := open[len(open)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local, Attrs: append([]xml.Attr(nil), t.Attr...)}
			parent.Children = append(parent.Children, n)
			open = append(open, n)
		case xml.EndElement:
			if len(open) > 1 {
				open = open[:len(open)-1]
			}
		case xml.CharData:
			// Whitespace-only runs are kept inside DOCX <w:t> text elements.
			if text := string(t); strings.TrimSpace(text) != "" || (parent.Name == "t" && text != "") {
				parent.Children = append(parent.Children, &Node{Text: text})
			}
		}
	}
	if len(open) > 1 {
		return nil, &ParseError{Err: fmt.Errorf("unclosed element <%s>", open[len(open)-1].Name)}
	}
	return root, nil
}

var (
	spaceRun        = regexp.MustCompile(`\s+`)
	spaceBeforePunc = regexp.MustCompile(`\s+([.,;:)])`)
	spaceAfterParen = regexp.MustCompile(`\(\s+`)
)

type Normalizer struct {
	// IncludeAttributes collects attribute values alongside text nodes.
	IncludeAttributes bool
}

func NewNormalizer() *Normalizer {
	return &Normalizer{IncludeAttributes: true}
}

// Normalize flattens the tree into one string in document order.
func (n *Normalizer) Normalize(root *Node) string {
	if root == nil {
		return ""
	}
	parts := make([]string, 0, 64)
	stack := []*Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.Name == "" && node.Text != "" {
			if s := strings.TrimSpace(node.Text); s != "" {
				parts = append(parts, s)
			}
			continue
		}
		if n.IncludeAttributes {
			for _, a := range node.Attrs {
				if s := strings.TrimSpace(a.Value); s != "" {
					parts = append(parts, s)
				}
			}
		}
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
	return CleanText(strings.Join(parts, " "))
}

// ExtractText parses raw XML and normalizes it.
func (n *Normalizer) ExtractText(raw string) (string, error) {
	root, err := Parse(bytes.NewReader([]byte(raw)))
	if err != nil {
		return "", err
	}
	return n.Normalize(root), nil
}

// CleanText applies the whitespace and punctuation repairs. It is idempotent.
func CleanText(text string) string {
	text = spaceRun.ReplaceAllString(text, " ")
	text = spaceBeforePunc.ReplaceAllString(text, "$1")
	text = spaceAfterParen.ReplaceAllString(text, "(")
	return strings.TrimSpace(text)
}
