package main

import (
	"fmt"

	"sheetEngine/contracts"
)

type bodyKind uint8

const (
	bodyEmpty bodyKind = iota
	bodyText
	bodyFormula
)

// cellBody is the tagged variant behind a cell: empty, a literal text, or
// a parsed formula. The memoized evaluation result lives only in the
// formula variant; Value is the single logically-read-only operation that
// writes it.
type cellBody struct {
	kind    bodyKind
	text    string
	formula contracts.Formula
	cache   *contracts.Value
}

func makeEmptyBody() cellBody {
	return cellBody{kind: bodyEmpty}
}

func makeTextBody(text string) cellBody {
	if text == "" {
		panic("text body requires a non-empty string")
	}
	return cellBody{kind: bodyText, text: text}
}

func makeFormulaBody(text string, parser contracts.FormulaParser) (cellBody, error) {
	if len(text) < 2 || text[0] != contracts.FormulaSign {
		panic("formula body requires a formula-sign prefix and an expression")
	}

	formula, err := parser.Parse(text[1:])
	if err != nil {
		return cellBody{}, err
	}

	return cellBody{kind: bodyFormula, formula: formula}, nil
}

func (b *cellBody) Value(view contracts.SheetView) contracts.Value {
	switch b.kind {
	case bodyText:
		if b.text[0] == contracts.EscapeSign {
			return contracts.TextValue(b.text[1:])
		}
		return contracts.TextValue(b.text)

	case bodyFormula:
		if b.cache == nil {
			value := b.formula.Evaluate(view)
			b.cache = &value
		}
		return *b.cache

	default:
		return contracts.TextValue("")
	}
}

func (b *cellBody) Text() string {
	switch b.kind {
	case bodyText:
		return b.text
	case bodyFormula:
		return fmt.Sprintf("%c%s", contracts.FormulaSign, b.formula.Expression())
	default:
		return ""
	}
}

func (b *cellBody) ReferencedPositions() []contracts.Position {
	if b.kind != bodyFormula {
		return nil
	}
	return b.formula.ReferencedCells()
}

func (b *cellBody) InvalidateCache() {
	b.cache = nil
}

// HasCache reports whether the body needs no re-evaluation: always true
// for non-formula bodies, true for formulas with a populated cache.
func (b *cellBody) HasCache() bool {
	return b.kind != bodyFormula || b.cache != nil
}
