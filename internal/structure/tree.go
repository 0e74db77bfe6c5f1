// Package structure walks eCFR table-of-contents trees without recursion.
package structure

import "ecfr_analytics/internal/ecfr"

const (
	TypeTitle   = "title"
	TypeChapter = "chapter"
	TypePart    = "part"
	TypeSection = "section"
)

// Walk visits every node under root in pre-order until visit returns false.
func Walk(root *ecfr.StructureNode, visit func(*ecfr.StructureNode) bool) {
	if root == nil {
		return
	}
	stack := []*ecfr.StructureNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		if !visit(n) {
			return
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// CountSections counts nodes of type section, root included.
func CountSections(root *ecfr.StructureNode) int {
	n := 0
	Walk(root, func(node *ecfr.StructureNode) bool {
		if node.Type == TypeSection {
			n++
		}
		return true
	})
	return n
}

// FindChapter returns the first chapter node with the given identifier.
func FindChapter(root *ecfr.StructureNode, chapter string) (*ecfr.StructureNode, bool) {
	var found *ecfr.StructureNode
	Walk(root, func(node *ecfr.StructureNode) bool {
		if node.Type == TypeChapter && node.Identifier == chapter {
			found = node
			return false
		}
		return true
	})
	return found, found != nil
}

// SectionsFor counts the sections an agency reference covers: the chapter
// subtree when chapter names one, the whole tree otherwise.
func SectionsFor(root *ecfr.StructureNode, chapter string) int {
	if chapter != "" {
		if node, ok := FindChapter(root, chapter); ok {
			return CountSections(node)
		}
	}
	return CountSections(root)
}
