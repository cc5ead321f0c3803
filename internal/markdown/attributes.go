package markdown

import (
	"bytes"
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// inlineAttributeTransformer applies attribute lists written directly after
// an image or link, e.g. ![chart](chart.png){: .wide width="600" }.
// Both the "{: ...}" and "{...}" spellings are accepted.
type inlineAttributeTransformer struct{}

var _ parser.ASTTransformer = inlineAttributeTransformer{}

func (inlineAttributeTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var targets []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindImage, ast.KindLink:
			if _, ok := n.NextSibling().(*ast.Text); ok {
				targets = append(targets, n)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, node := range targets {
		applyTrailingAttributes(node, source)
	}
}

func applyTrailingAttributes(node ast.Node, source []byte) {
	var (
		buf      []byte
		consumed []*ast.Text
	)
	for sibling := node.NextSibling(); sibling != nil; sibling = sibling.NextSibling() {
		textNode, ok := sibling.(*ast.Text)
		if !ok {
			break
		}
		buf = append(buf, textNode.Segment.Value(source)...)
		consumed = append(consumed, textNode)
		if bytes.IndexByte(buf, '}') >= 0 || textNode.SoftLineBreak() || textNode.HardLineBreak() {
			break
		}
	}
	if len(buf) == 0 || buf[0] != '{' {
		return
	}
	end := bytes.IndexByte(buf, '}')
	if end < 0 {
		return
	}

	list := append([]byte{}, buf[:end+1]...)
	if bytes.HasPrefix(list, []byte("{:")) {
		list = append([]byte{'{'}, list[2:]...)
	}
	attrs, ok := parser.ParseAttributes(text.NewReader(list))
	if !ok {
		return
	}
	for _, attr := range attrs {
		if value, ok := attributeBytes(attr.Value); ok {
			node.SetAttribute(attr.Name, value)
		}
	}

	// Drop the consumed text, keeping whatever follows the closing brace in
	// the last node so line breaks survive.
	used := end + 1
	parent := node.Parent()
	for i, textNode := range consumed {
		length := textNode.Segment.Len()
		if i == len(consumed)-1 {
			textNode.Segment = textNode.Segment.WithStart(textNode.Segment.Start + used)
			if textNode.Segment.Len() == 0 && !textNode.SoftLineBreak() && !textNode.HardLineBreak() {
				parent.RemoveChild(parent, textNode)
			}
			break
		}
		used -= length
		parent.RemoveChild(parent, textNode)
	}
}

func attributeBytes(value any) ([]byte, bool) {
	switch typed := value.(type) {
	case []byte:
		return typed, true
	case string:
		return []byte(typed), true
	case float64:
		return []byte(strconv.FormatFloat(typed, 'f', -1, 64)), true
	case bool:
		return []byte(strconv.FormatBool(typed)), true
	default:
		return nil, false
	}
}
