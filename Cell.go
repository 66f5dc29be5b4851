package main

import (
	"fmt"

	"sheetEngine/contracts"
)

// Cell is one node of the sheet: a body plus the set of cells whose
// formulas directly reference this one. The dependents entries are
// non-owning back-references; the Sheet owns every Cell.
type Cell struct {
	sheet      *Sheet
	pos        contracts.Position
	body       cellBody
	dependents map[*Cell]struct{}
}

func newCell(sheet *Sheet, pos contracts.Position) *Cell {
	return &Cell{
		sheet:      sheet,
		pos:        pos,
		body:       makeEmptyBody(),
		dependents: map[*Cell]struct{}{},
	}
}

// Set replaces the cell body. A formula that fails to parse or would
// close a reference cycle leaves the cell, and the sheet, unchanged.
func (c *Cell) Set(text string) error {
	if text == c.Text() {
		return nil
	}

	var body cellBody
	switch {
	case text == "":
		body = makeEmptyBody()

	case len(text) >= 2 && text[0] == contracts.FormulaSign:
		var err error
		body, err = makeFormulaBody(text, c.sheet.parser)
		if err != nil {
			return err
		}
		if err = c.checkCircularDependency(body.ReferencedPositions()); err != nil {
			return err
		}

	default:
		body = makeTextBody(text)
	}

	c.unwireReferences()
	c.body = body
	c.wireReferences()
	c.invalidate(true)

	return nil
}

// Clear drops outgoing edges and empties the body. The cell object stays
// alive while other cells still reference it; the Sheet decides removal.
func (c *Cell) Clear() {
	c.unwireReferences()
	c.invalidate(true)
	c.body = makeEmptyBody()
}

func (c *Cell) Value() contracts.Value {
	return c.body.Value(c.sheet)
}

func (c *Cell) Text() string {
	return c.body.Text()
}

func (c *Cell) ReferencedPositions() []contracts.Position {
	return c.body.ReferencedPositions()
}

func (c *Cell) Position() contracts.Position {
	return c.pos
}

func (c *Cell) isUsed() bool {
	return len(c.dependents) > 0
}

// unwireReferences removes this cell from the dependents set of every
// referent of the current body. Referents are always present in the map,
// they were materialized when the body was installed.
func (c *Cell) unwireReferences() {
	for _, pos := range c.body.ReferencedPositions() {
		delete(c.sheet.cells[pos].dependents, c)
	}
}

func (c *Cell) wireReferences() {
	for _, pos := range c.body.ReferencedPositions() {
		referent := c.sheet.materializeCell(pos)
		referent.dependents[c] = struct{}{}
	}
}

// checkCircularDependency rejects a candidate formula whose references
// include any cell that can already reach this one. The walk follows the
// reverse dependency graph from this cell over dependents edges; meeting
// a referent there means the new edges would close a cycle.
func (c *Cell) checkCircularDependency(refs []contracts.Position) error {
	referents := make(map[*Cell]struct{}, len(refs))
	for _, pos := range refs {
		if referent, ok := c.sheet.cells[pos]; ok {
			referents[referent] = struct{}{}
		}
	}
	if len(referents) == 0 {
		return nil
	}

	visited := map[*Cell]struct{}{}
	toVisit := []*Cell{c}

	for len(toVisit) > 0 {
		current := toVisit[len(toVisit)-1]
		toVisit = toVisit[:len(toVisit)-1]

		if _, isReferent := referents[current]; isReferent {
			return fmt.Errorf("via %s: %w", current.pos, contracts.CircularDependencyError)
		}
		visited[current] = struct{}{}

		for dependent := range current.dependents {
			if _, seen := visited[dependent]; !seen {
				toVisit = append(toVisit, dependent)
			}
		}
	}

	return nil
}

// invalidate clears the cached value here and in every transitive
// dependent. A formula without a cache prunes the walk: its own
// dependents were already invalidated when it lost the cache. force
// pushes through the edited cell itself, whose body may have no cache
// at all (Empty -> Formula transitions).
func (c *Cell) invalidate(force bool) {
	if !force && !c.body.HasCache() {
		return
	}

	c.body.InvalidateCache()
	for dependent := range c.dependents {
		dependent.invalidate(false)
	}
}
