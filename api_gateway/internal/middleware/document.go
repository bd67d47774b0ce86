package middleware

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// OperationInfo describes the operation a request will execute.
type OperationInfo struct {
	Name  string
	Type  ast.Operation
	Depth int
}

// InspectOperation parses query and returns the selected operation's name,
// type and selection depth. Fragment spreads count toward depth.
func InspectOperation(query, operationName string) (*OperationInfo, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return nil, err
	}
	op := selectOperation(doc, operationName)
	if op == nil {
		return nil, fmt.Errorf("operation %q not found in document", operationName)
	}

	fragments := make(map[string]*ast.FragmentDefinition, len(doc.Fragments))
	for _, f := range doc.Fragments {
		fragments[f.Name] = f
	}

	name := op.Name
	if name == "" {
		name = operationName
	}
	return &OperationInfo{
		Name:  name,
		Type:  op.Operation,
		Depth: selectionSetDepth(op.SelectionSet, fragments, map[string]bool{}),
	}, nil
}

func selectOperation(doc *ast.QueryDocument, operationName string) *ast.OperationDefinition {
	if len(doc.Operations) == 0 {
		return nil
	}
	if operationName != "" {
		for _, op := range doc.Operations {
			if op.Name == operationName {
				return op
			}
		}
		return nil
	}
	if len(doc.Operations) == 1 {
		return doc.Operations[0]
	}
	return nil
}

func selectionSetDepth(set ast.SelectionSet, fragments map[string]*ast.FragmentDefinition, visiting map[string]bool) int {
	maxDepth := 0
	for _, sel := range set {
		var childDepth int
		switch s := sel.(type) {
		case *ast.Field:
			childDepth = 1
			if s.SelectionSet != nil {
				childDepth += selectionSetDepth(s.SelectionSet, fragments, visiting)
			}
		case *ast.InlineFragment:
			childDepth = selectionSetDepth(s.SelectionSet, fragments, visiting)
		case *ast.FragmentSpread:
			f, ok := fragments[s.Name]
			if !ok || visiting[s.Name] {
				continue
			}
			visiting[s.Name] = true
			childDepth = selectionSetDepth(f.SelectionSet, fragments, visiting)
			delete(visiting, s.Name)
		}
		if childDepth > maxDepth {
			maxDepth = childDepth
		}
	}
	return maxDepth
}
