package main

import (
	"fmt"
	"io"

	"sheetEngine/contracts"
)

// Sheet owns a sparse map of cells and the printable-region size. It is a
// single-writer structure; reads may populate formula caches but perform
// no other mutation.
type Sheet struct {
	parser contracts.FormulaParser
	cells  map[contracts.Position]*Cell
	size   contracts.Size
}

func NewSheet(parser contracts.FormulaParser) *Sheet {
	return &Sheet{
		parser: parser,
		cells:  map[contracts.Position]*Cell{},
	}
}

// SetCell writes text into the cell at pos, materializing it if absent.
// On any error the sheet is left exactly as it was.
func (s *Sheet) SetCell(pos contracts.Position, text string) error {
	if !pos.IsValid() {
		return fmt.Errorf("%v: %w", pos, contracts.InvalidPositionError)
	}

	cell, existed := s.cells[pos]
	if !existed {
		cell = newCell(s, pos)
		s.cells[pos] = cell
	}

	if err := cell.Set(text); err != nil {
		if !existed {
			delete(s.cells, pos)
		}
		return err
	}

	s.coverSize(pos)
	return nil
}

// GetCell returns the cell at pos, or nil if the position was never
// touched.
func (s *Sheet) GetCell(pos contracts.Position) (*Cell, error) {
	if !pos.IsValid() {
		return nil, fmt.Errorf("%v: %w", pos, contracts.InvalidPositionError)
	}
	return s.cells[pos], nil
}

// ClearCell empties the cell at pos and removes it from the map unless
// some formula still references it. The printable region may shrink.
func (s *Sheet) ClearCell(pos contracts.Position) error {
	if !pos.IsValid() {
		return fmt.Errorf("%v: %w", pos, contracts.InvalidPositionError)
	}

	cell, ok := s.cells[pos]
	if !ok {
		return nil
	}

	cell.Clear()
	if !cell.isUsed() {
		delete(s.cells, pos)
	}
	s.recomputeSize()

	return nil
}

func (s *Sheet) PrintableSize() contracts.Size {
	return s.size
}

func (s *Sheet) PrintValues(out io.Writer) error {
	return s.print(out, func(cell *Cell) string { return cell.Value().String() })
}

func (s *Sheet) PrintTexts(out io.Writer) error {
	return s.print(out, func(cell *Cell) string { return cell.Text() })
}

// CellValue implements contracts.SheetView for formula evaluation; absent
// cells read as the empty text value.
func (s *Sheet) CellValue(pos contracts.Position) contracts.Value {
	if cell, ok := s.cells[pos]; ok {
		return cell.Value()
	}
	return contracts.TextValue("")
}

// OccupiedPositions returns every position present in the map, sorted
// row-major.
func (s *Sheet) OccupiedPositions() []contracts.Position {
	positions := make([]contracts.Position, 0, len(s.cells))
	for pos := range s.cells {
		positions = append(positions, pos)
	}
	contracts.SortPositions(positions)
	return positions
}

// TransitiveDependents returns the positions of every cell that directly
// or indirectly references pos, sorted row-major.
func (s *Sheet) TransitiveDependents(pos contracts.Position) []contracts.Position {
	cell, ok := s.cells[pos]
	if !ok {
		return nil
	}

	visited := map[*Cell]struct{}{cell: {}}
	toVisit := []*Cell{cell}
	positions := make([]contracts.Position, 0)

	for len(toVisit) > 0 {
		current := toVisit[len(toVisit)-1]
		toVisit = toVisit[:len(toVisit)-1]

		for dependent := range current.dependents {
			if _, seen := visited[dependent]; !seen {
				visited[dependent] = struct{}{}
				positions = append(positions, dependent.pos)
				toVisit = append(toVisit, dependent)
			}
		}
	}

	contracts.SortPositions(positions)
	return positions
}

// materializeCell ensures a cell exists at pos so a formula referent can
// hold back-references. Positions arriving here were validated by the
// formula parser. The printable region grows to cover the referent, the
// same as an explicit empty write would.
func (s *Sheet) materializeCell(pos contracts.Position) *Cell {
	cell, ok := s.cells[pos]
	if !ok {
		cell = newCell(s, pos)
		s.cells[pos] = cell
		s.coverSize(pos)
	}
	return cell
}

func (s *Sheet) coverSize(pos contracts.Position) {
	if pos.Row >= s.size.Rows {
		s.size.Rows = pos.Row + 1
	}
	if pos.Col >= s.size.Cols {
		s.size.Cols = pos.Col + 1
	}
}

func (s *Sheet) recomputeSize() {
	size := contracts.Size{}
	for pos := range s.cells {
		if pos.Row >= size.Rows {
			size.Rows = pos.Row + 1
		}
		if pos.Col >= size.Cols {
			size.Cols = pos.Col + 1
		}
	}
	s.size = size
}

func (s *Sheet) print(out io.Writer, render func(cell *Cell) string) error {
	for row := 0; row < s.size.Rows; row++ {
		for col := 0; col < s.size.Cols; col++ {
			if col > 0 {
				if _, err := io.WriteString(out, "\t"); err != nil {
					return err
				}
			}
			if cell, ok := s.cells[contracts.Position{Row: row, Col: col}]; ok {
				if _, err := io.WriteString(out, render(cell)); err != nil {
					return err
				}
			}
		}
		if _, err := io.WriteString(out, "\n"); err != nil {
			return err
		}
	}
	return nil
}
