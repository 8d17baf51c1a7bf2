// Package source correlates analysis results with Python source code. It
// uses tree-sitter to locate a callable's definition span in its source
// file so reports can carry the lines the complexity numbers refer to.
package source

import (
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Span is the location of one callable definition in a source file.
type Span struct {
	Name      string `json:"name"`
	StartLine int    `json:"start_line"` // 1-based, inclusive
	EndLine   int    `json:"end_line"`   // 1-based, inclusive
}

// Locator finds callable definition spans in Python source files.
type Locator struct {
	parser *sitter.Parser
}

// NewLocator creates a locator with a Python grammar.
func NewLocator() *Locator {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Locator{parser: parser}
}

// Locate returns the definition span of the named function or method in
// the given file. Nested and method definitions are found by their bare
// name; the first match in document order wins.
func (l *Locator) Locate(filePath, name string) (*Span, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", filePath, err)
	}

	tree := l.parser.Parse(nil, content)
	if tree == nil {
		return nil, fmt.Errorf("parsing file %s failed", filePath)
	}
	defer tree.Close()

	span := findDefinition(tree.RootNode(), content, name)
	if span == nil {
		return nil, fmt.Errorf("callable %q not found in %s", name, filePath)
	}
	return span, nil
}

// findDefinition walks the AST for a function_definition whose name matches.
func findDefinition(node *sitter.Node, content []byte, name string) *Span {
	if node == nil {
		return nil
	}

	if node.Type() == "function_definition" {
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			if nameNode.Content(content) == name {
				return &Span{
					Name:      name,
					StartLine: int(node.StartPoint().Row) + 1,
					EndLine:   int(node.EndPoint().Row) + 1,
				}
			}
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if span := findDefinition(node.Child(i), content, name); span != nil {
			return span
		}
	}
	return nil
}

// Snippet returns the source lines of a span, 1-based and inclusive.
func Snippet(filePath string, startLine, endLine int) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", filePath, err)
	}

	lines := strings.Split(string(content), "\n")
	if startLine < 1 || startLine > endLine || startLine > len(lines) {
		return nil, fmt.Errorf("invalid line range %d-%d for %s", startLine, endLine, filePath)
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	return lines[startLine-1 : endLine], nil
}
