package extractor

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonExtractor walks a tree-sitter syntax tree, so its results are exact:
// every class, method, and self-attribute assignment is seen as declared.
type PythonExtractor struct {
	parser *sitter.Parser
}

func NewPythonExtractor() *PythonExtractor {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &PythonExtractor{parser: parser}
}

func (p *PythonExtractor) Language() string { return "python" }

func (p *PythonExtractor) Extract(path string, source []byte) (*SourceUnit, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer tree.Close()

	unit := &SourceUnit{Language: "python", Path: path}
	p.collectClasses(tree.RootNode(), source, unit)
	return unit, nil
}

func (p *PythonExtractor) collectClasses(node *sitter.Node, source []byte, unit *SourceUnit) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "class_definition":
			if decl := p.parseClass(child, source); decl != nil {
				unit.Types = append(unit.Types, *decl)
			}
		case "decorated_definition":
			// Decorators wrap the class node one level down.
			for j := 0; j < int(child.NamedChildCount()); j++ {
				inner := child.NamedChild(j)
				if inner.Type() == "class_definition" {
					if decl := p.parseClass(inner, source); decl != nil {
						unit.Types = append(unit.Types, *decl)
					}
				}
			}
		}
	}
}

func (p *PythonExtractor) parseClass(node *sitter.Node, source []byte) *TypeDecl {
	nameNode := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if nameNode == nil || body == nil {
		return nil
	}

	decl := &TypeDecl{Name: nameNode.Content(source)}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		fn := child
		if child.Type() == "decorated_definition" {
			fn = nil
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if inner := child.NamedChild(j); inner.Type() == "function_definition" {
					fn = inner
					break
				}
			}
		}
		if fn == nil || fn.Type() != "function_definition" {
			continue
		}

		method := p.parseFunction(fn, source)
		decl.addMethod(method)

		if method.Name == "__init__" {
			p.collectSelfFields(fn, source, decl)
		}
	}

	return decl
}

func (p *PythonExtractor) parseFunction(fn *sitter.Node, source []byte) MethodDecl {
	method := MethodDecl{Params: []string{}}
	if nameNode := fn.ChildByFieldName("name"); nameNode != nil {
		method.Name = nameNode.Content(source)
	}
	if ret := fn.ChildByFieldName("return_type"); ret != nil {
		method.Returns = ret.Content(source)
	}

	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return method
	}

	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		var name, ptype string
		switch param.Type() {
		case "identifier":
			name = param.Content(source)
		case "typed_parameter", "typed_default_parameter":
			if id := firstChildOfType(param, "identifier"); id != nil {
				name = id.Content(source)
			}
			if t := param.ChildByFieldName("type"); t != nil {
				ptype = t.Content(source)
			}
		case "default_parameter":
			if n := param.ChildByFieldName("name"); n != nil {
				name = n.Content(source)
			}
		default:
			continue
		}
		if name == "self" || name == "cls" {
			continue
		}
		method.Params = append(method.Params, ptype)
	}

	return method
}

// collectSelfFields records every `self.<name> = ...` inside __init__ as a
// declared field, with a literal-based type guess where the initializer
// makes it obvious.
func (p *PythonExtractor) collectSelfFields(fn *sitter.Node, source []byte, decl *TypeDecl) {
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.Type() == "assignment" {
			left := n.ChildByFieldName("left")
			if left != nil && left.Type() == "attribute" {
				obj := left.ChildByFieldName("object")
				attr := left.ChildByFieldName("attribute")
				if obj != nil && attr != nil && obj.Type() == "identifier" && obj.Content(source) == "self" {
					decl.addField(FieldDecl{
						Name: attr.Content(source),
						Type: guessPythonType(n.ChildByFieldName("right"), source),
					})
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	if body := fn.ChildByFieldName("body"); body != nil {
		visit(body)
	}
}

func guessPythonType(value *sitter.Node, source []byte) string {
	if value == nil {
		return ""
	}
	switch value.Type() {
	case "float":
		return "float"
	case "integer":
		return "int"
	case "string":
		return "str"
	case "true", "false":
		return "bool"
	case "call":
		// Constructor-style calls (Color.white(), uuid.uuid4()) name the
		// producing module or class.
		if callee := value.ChildByFieldName("function"); callee != nil {
			if callee.Type() == "attribute" {
				if obj := callee.ChildByFieldName("object"); obj != nil && obj.Type() == "identifier" {
					return obj.Content(source)
				}
			}
			if callee.Type() == "identifier" {
				return callee.Content(source)
			}
		}
	}
	return ""
}

func firstChildOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == nodeType {
			return child
		}
	}
	return nil
}
