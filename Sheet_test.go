package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetEngine/contracts"
)

func _pos(ref string) contracts.Position {
	pos, err := contracts.ParsePosition(ref)
	if err != nil {
		panic(err)
	}
	return pos
}

func _newTestSheet() *Sheet {
	return NewSheet(NewExpressionFormulaParser())
}

func TestSheet_SetCell(t *testing.T) {
	t.Run("text_cell", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("A1"), "hello"))

		cell, err := sheet.GetCell(_pos("A1"))
		assert.NoError(t, err)
		assert.NotNil(t, cell)
		assert.Equal(t, contracts.TextValue("hello"), cell.Value())
		assert.Equal(t, "hello", cell.Text())
	})

	t.Run("escaped_text", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("A1"), "'123"))

		cell, _ := sheet.GetCell(_pos("A1"))
		assert.Equal(t, contracts.TextValue("123"), cell.Value())
		assert.Equal(t, "'123", cell.Text())
	})

	t.Run("formula", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("A1"), "=1+2"))

		cell, _ := sheet.GetCell(_pos("A1"))
		assert.Equal(t, contracts.NumberValue(3), cell.Value())
		assert.Equal(t, "=1 + 2", cell.Text())
	})

	t.Run("equals_sign_alone_is_text", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("A1"), "="))

		cell, _ := sheet.GetCell(_pos("A1"))
		assert.Equal(t, contracts.TextValue("="), cell.Value())
		assert.Equal(t, "=", cell.Text())
	})

	t.Run("empty_text_occupies_cell", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("B2"), ""))

		cell, _ := sheet.GetCell(_pos("B2"))
		assert.NotNil(t, cell)
		assert.Equal(t, contracts.TextValue(""), cell.Value())
		assert.Equal(t, contracts.Size{Rows: 2, Cols: 2}, sheet.PrintableSize())
	})

	t.Run("invalid_position", func(t *testing.T) {
		sheet := _newTestSheet()

		err := sheet.SetCell(contracts.Position{Row: -1, Col: 0}, "x")
		assert.ErrorIs(t, err, contracts.InvalidPositionError)

		err = sheet.SetCell(contracts.Position{Row: 0, Col: contracts.MaxCols}, "x")
		assert.ErrorIs(t, err, contracts.InvalidPositionError)
	})

	t.Run("idempotent_write", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("A1"), "=B1+1"))
		assert.NoError(t, sheet.SetCell(_pos("A1"), "=B1 + 1"))

		cell, _ := sheet.GetCell(_pos("A1"))
		assert.Equal(t, "=B1 + 1", cell.Text())
		assert.Len(t, sheet.cells[_pos("B1")].dependents, 1)
	})

	t.Run("auto_materialize_referent", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("A1"), "=Z9+1"))

		referent, err := sheet.GetCell(contracts.Position{Row: 8, Col: 25})
		assert.NoError(t, err)
		assert.NotNil(t, referent)
		assert.Equal(t, "", referent.Text())

		_, hasDependent := referent.dependents[sheet.cells[_pos("A1")]]
		assert.True(t, hasDependent)
	})

	t.Run("replacing_formula_rewires_edges", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("A1"), "=B1"))
		assert.NoError(t, sheet.SetCell(_pos("A1"), "=C1"))

		assert.Empty(t, sheet.cells[_pos("B1")].dependents)
		assert.Len(t, sheet.cells[_pos("C1")].dependents, 1)
	})

	t.Run("formula_syntax_error_leaves_sheet_unchanged", func(t *testing.T) {
		sheet := _newTestSheet()
		assert.NoError(t, sheet.SetCell(_pos("A1"), "keep"))

		err := sheet.SetCell(_pos("A1"), "=1+")
		assert.ErrorIs(t, err, contracts.FormulaSyntaxError)

		cell, _ := sheet.GetCell(_pos("A1"))
		assert.Equal(t, "keep", cell.Text())

		err = sheet.SetCell(_pos("B7"), "=oops")
		assert.ErrorIs(t, err, contracts.FormulaSyntaxError)

		missing, _ := sheet.GetCell(_pos("B7"))
		assert.Nil(t, missing)
		assert.Equal(t, contracts.Size{Rows: 1, Cols: 1}, sheet.PrintableSize())
	})
}

func TestSheet_CircularDependency(t *testing.T) {
	t.Run("direct_cycle", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("A1"), "=B1"))

		sizeBefore := sheet.PrintableSize()
		err := sheet.SetCell(_pos("B1"), "=A1")
		assert.ErrorIs(t, err, contracts.CircularDependencyError)

		// the failed write changed nothing
		cell, _ := sheet.GetCell(_pos("B1"))
		assert.Equal(t, "", cell.Text())
		assert.Equal(t, sizeBefore, sheet.PrintableSize())
	})

	t.Run("self_reference", func(t *testing.T) {
		sheet := _newTestSheet()

		err := sheet.SetCell(_pos("A1"), "=A1")
		assert.ErrorIs(t, err, contracts.CircularDependencyError)

		cell, _ := sheet.GetCell(_pos("A1"))
		assert.Nil(t, cell)
	})

	t.Run("transitive_cycle", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("A1"), "=B1"))
		assert.NoError(t, sheet.SetCell(_pos("B1"), "=C1"))

		err := sheet.SetCell(_pos("C1"), "=A1")
		assert.ErrorIs(t, err, contracts.CircularDependencyError)

		cell, _ := sheet.GetCell(_pos("C1"))
		assert.Equal(t, "", cell.Text())
	})

	t.Run("replacing_own_formula_is_not_a_cycle", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("A1"), "=B1+1"))
		assert.NoError(t, sheet.SetCell(_pos("A1"), "=B1+2"))

		cell, _ := sheet.GetCell(_pos("A1"))
		assert.Equal(t, "=B1 + 2", cell.Text())
	})

	t.Run("diamond_is_not_a_cycle", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("B1"), "=D1"))
		assert.NoError(t, sheet.SetCell(_pos("C1"), "=D1"))
		assert.NoError(t, sheet.SetCell(_pos("A1"), "=B1+C1"))

		assert.NoError(t, sheet.SetCell(_pos("D1"), "4"))

		cell, _ := sheet.GetCell(_pos("A1"))
		assert.Equal(t, contracts.NumberValue(8), cell.Value())
	})
}

func TestSheet_ChainInvalidation(t *testing.T) {
	sheet := _newTestSheet()

	assert.NoError(t, sheet.SetCell(_pos("A1"), "=B1+1"))
	assert.NoError(t, sheet.SetCell(_pos("B1"), "=C1+1"))
	assert.NoError(t, sheet.SetCell(_pos("C1"), "5"))

	a1, _ := sheet.GetCell(_pos("A1"))
	assert.Equal(t, contracts.NumberValue(7), a1.Value())

	assert.NoError(t, sheet.SetCell(_pos("C1"), "10"))
	assert.Equal(t, contracts.NumberValue(12), a1.Value())
}

func TestSheet_CacheSoundness(t *testing.T) {
	sheet := _newTestSheet()

	assert.NoError(t, sheet.SetCell(_pos("A1"), "=B1*2"))
	assert.NoError(t, sheet.SetCell(_pos("B1"), "=C1+1"))
	assert.NoError(t, sheet.SetCell(_pos("C1"), "3"))

	// populate caches, then verify each cached value matches a fresh evaluation
	for _, ref := range []string{"A1", "B1"} {
		cell := sheet.cells[_pos(ref)]
		cached := cell.Value()
		assert.Equal(t, cached, cell.body.formula.Evaluate(sheet), ref)
	}

	assert.NoError(t, sheet.SetCell(_pos("C1"), "4"))
	for _, ref := range []string{"A1", "B1"} {
		cell := sheet.cells[_pos(ref)]
		assert.False(t, cell.body.HasCache(), ref)
	}
}

func TestSheet_ClearCell(t *testing.T) {
	t.Run("shrinks_printable_region", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("A1"), "one"))
		assert.NoError(t, sheet.SetCell(_pos("F6"), "two"))
		assert.Equal(t, contracts.Size{Rows: 6, Cols: 6}, sheet.PrintableSize())

		assert.NoError(t, sheet.ClearCell(_pos("F6")))
		assert.Equal(t, contracts.Size{Rows: 1, Cols: 1}, sheet.PrintableSize())

		cell, _ := sheet.GetCell(_pos("F6"))
		assert.Nil(t, cell)
	})

	t.Run("preserves_used_cell", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("B1"), "41"))
		assert.NoError(t, sheet.SetCell(_pos("A1"), "=B1"))
		assert.NoError(t, sheet.ClearCell(_pos("B1")))

		b1, _ := sheet.GetCell(_pos("B1"))
		assert.NotNil(t, b1)
		assert.Equal(t, "", b1.Text())

		a1, _ := sheet.GetCell(_pos("A1"))
		assert.Equal(t, contracts.TextValue(""), a1.Value())
	})

	t.Run("invalidates_dependents", func(t *testing.T) {
		sheet := _newTestSheet()

		assert.NoError(t, sheet.SetCell(_pos("B1"), "5"))
		assert.NoError(t, sheet.SetCell(_pos("A1"), "=B1+1"))

		a1, _ := sheet.GetCell(_pos("A1"))
		assert.Equal(t, contracts.NumberValue(6), a1.Value())

		assert.NoError(t, sheet.ClearCell(_pos("B1")))
		assert.Equal(t, contracts.NumberValue(1), a1.Value())
	})

	t.Run("absent_cell_is_a_noop", func(t *testing.T) {
		sheet := _newTestSheet()
		assert.NoError(t, sheet.ClearCell(_pos("J10")))
		assert.Equal(t, contracts.Size{}, sheet.PrintableSize())
	})

	t.Run("invalid_position", func(t *testing.T) {
		sheet := _newTestSheet()
		err := sheet.ClearCell(contracts.Position{Row: contracts.MaxRows, Col: 0})
		assert.ErrorIs(t, err, contracts.InvalidPositionError)
	})
}

func TestSheet_GetCell(t *testing.T) {
	sheet := _newTestSheet()

	t.Run("invalid_position", func(t *testing.T) {
		_, err := sheet.GetCell(contracts.Position{Row: 0, Col: -2})
		assert.ErrorIs(t, err, contracts.InvalidPositionError)
	})

	t.Run("absent_cell_is_nil", func(t *testing.T) {
		cell, err := sheet.GetCell(_pos("H8"))
		assert.NoError(t, err)
		assert.Nil(t, cell)
	})
}

func TestSheet_BidirectionalEdges(t *testing.T) {
	sheet := _newTestSheet()

	assert.NoError(t, sheet.SetCell(_pos("A1"), "=B1+C2"))
	assert.NoError(t, sheet.SetCell(_pos("B1"), "=C2"))

	for _, tc := range []struct{ from, to string }{
		{"A1", "B1"},
		{"A1", "C2"},
		{"B1", "C2"},
	} {
		from := sheet.cells[_pos(tc.from)]
		to := sheet.cells[_pos(tc.to)]

		assert.Contains(t, from.ReferencedPositions(), _pos(tc.to))
		_, linked := to.dependents[from]
		assert.True(t, linked, "%s -> %s", tc.from, tc.to)
	}

	assert.Equal(t,
		[]contracts.Position{_pos("A1"), _pos("B1")},
		sheet.TransitiveDependents(_pos("C2")),
	)
}

func TestSheet_Print(t *testing.T) {
	sheet := _newTestSheet()

	assert.NoError(t, sheet.SetCell(_pos("A1"), "'=text"))
	assert.NoError(t, sheet.SetCell(_pos("C1"), "=1/2"))
	assert.NoError(t, sheet.SetCell(_pos("B2"), "plain"))

	t.Run("values", func(t *testing.T) {
		var out bytes.Buffer
		assert.NoError(t, sheet.PrintValues(&out))
		assert.Equal(t, "=text\t\t0.5\n\tplain\t\n", out.String())
	})

	t.Run("texts", func(t *testing.T) {
		var out bytes.Buffer
		assert.NoError(t, sheet.PrintTexts(&out))
		assert.Equal(t, "'=text\t\t=1 / 2\n\tplain\t\n", out.String())
	})

	t.Run("empty_sheet", func(t *testing.T) {
		var out bytes.Buffer
		assert.NoError(t, _newTestSheet().PrintValues(&out))
		assert.Equal(t, "", out.String())
	})
}

func TestSheet_PrintableRegionTightness(t *testing.T) {
	sheet := _newTestSheet()
	assert.Equal(t, contracts.Size{}, sheet.PrintableSize())

	assert.NoError(t, sheet.SetCell(_pos("C3"), "x"))
	assert.Equal(t, contracts.Size{Rows: 3, Cols: 3}, sheet.PrintableSize())

	// the materialized referent extends the region, an explicit empty
	// write would do the same
	assert.NoError(t, sheet.SetCell(_pos("A1"), "=E5"))
	assert.Equal(t, contracts.Size{Rows: 5, Cols: 5}, sheet.PrintableSize())

	assert.NoError(t, sheet.SetCell(_pos("A1"), "1"))
	assert.NoError(t, sheet.ClearCell(_pos("E5")))
	assert.Equal(t, contracts.Size{Rows: 3, Cols: 3}, sheet.PrintableSize())
}
