package contracts

import "errors"

var FormulaSyntaxError = errors.New("formula syntax error")

var CircularDependencyError = errors.New("circular dependency detected")

// SheetView is the read interface a formula evaluates against. An absent
// or empty cell reads as the empty text value.
type SheetView interface {
	CellValue(pos Position) Value
}

// Formula is a parsed formula handle. Evaluate is a pure function of the
// sheet state at call time; the core caches its result and invalidates
// the cache when any referenced cell changes.
type Formula interface {
	Evaluate(view SheetView) Value

	// Expression returns the canonical textual form without the leading
	// FormulaSign.
	Expression() string

	// ReferencedCells returns the valid positions the formula mentions,
	// deduplicated and sorted row-major.
	ReferencedCells() []Position
}

type FormulaParser interface {
	// Parse parses an expression without the leading FormulaSign.
	// Failures wrap FormulaSyntaxError.
	Parse(expression string) (Formula, error)
}
