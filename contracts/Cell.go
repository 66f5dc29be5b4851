package contracts

import "errors"

// FormulaSign opens a formula when followed by at least one more character.
const FormulaSign = '='

// EscapeSign at the start of a text cell is stripped by the computed value
// and kept by the raw text.
const EscapeSign = '\''

var CellNotFoundError = errors.New("cell not found")

// Cell is the API representation of one cell: the raw text as written and
// the rendered computed result.
type Cell struct {
	CellId string `json:"cell_id"`
	Value  string `json:"value"`
	Result string `json:"result"`
}

type CellList map[string]*Cell
