package main

import (
	"strings"

	"github.com/expr-lang/expr/ast"

	"sheetEngine/contracts"
)

// findCellRefsVisitor walks a parsed expression collecting cell
// references. Identifiers are rewritten in place to canonical form,
// references uppercased and function names lowercased, so the
// re-rendered tree is the canonical expression.
type findCellRefsVisitor struct {
	refs       map[contracts.Position]struct{}
	invalidRef string
}

func newFindCellRefsVisitor() *findCellRefsVisitor {
	return &findCellRefsVisitor{refs: map[contracts.Position]struct{}{}}
}

func (v *findCellRefsVisitor) Visit(node *ast.Node) {
	identifier, ok := (*node).(*ast.IdentifierNode)
	if !ok {
		return
	}

	lower := strings.ToLower(identifier.Value)
	if _, isFunction := formulaFunctions[lower]; isFunction {
		identifier.Value = lower
		return
	}

	pos, err := contracts.ParsePosition(identifier.Value)
	if err != nil {
		if v.invalidRef == "" {
			v.invalidRef = identifier.Value
		}
		return
	}

	identifier.Value = pos.String()
	v.refs[pos] = struct{}{}
}

func (v *findCellRefsVisitor) sortedRefs() []contracts.Position {
	refs := make([]contracts.Position, 0, len(v.refs))
	for pos := range v.refs {
		refs = append(refs, pos)
	}
	contracts.SortPositions(refs)
	return refs
}
