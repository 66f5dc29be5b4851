package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"go.etcd.io/bbolt"

	"sheetEngine/contracts"
)

// SheetRepository serves the public API over live in-memory sheets and
// mirrors every raw cell text to bbolt, one bucket per sheet id. The
// in-memory dependency graph is authoritative; the store is replayed
// through Sheet.SetCell on startup to rebuild it.
//
// Formula caches are populated by reads, so every operation takes the
// repository mutex, not only mutations.
type SheetRepository struct {
	db                *bbolt.DB
	parser            contracts.FormulaParser
	serializer        contracts.PositionSerializer
	webhookDispatcher contracts.WebhookDispatcher

	mutex  sync.Mutex
	sheets map[string]*Sheet
}

func NewSheetRepository(
	db *bbolt.DB, parser contracts.FormulaParser,
	serializer contracts.PositionSerializer, webhookDispatcher contracts.WebhookDispatcher,
) (*SheetRepository, error) {
	repository := &SheetRepository{
		db:                db,
		parser:            parser,
		serializer:        serializer,
		webhookDispatcher: webhookDispatcher,
		sheets:            map[string]*Sheet{},
	}

	if err := repository.loadSheets(); err != nil {
		return nil, err
	}

	return repository, nil
}

func (s *SheetRepository) SetCell(sheetId string, cellId string, value string) (*contracts.Cell, error) {
	sheetId = strings.ToLower(sheetId)

	pos, err := contracts.ParsePosition(cellId)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, existed := s.sheets[sheetId]
	if !existed {
		sheet = NewSheet(s.parser)
	}

	prevText, occupied := "", false
	if cell := sheet.cells[pos]; cell != nil {
		prevText, occupied = cell.Text(), true
	}

	if err = sheet.SetCell(pos, value); err != nil {
		return nil, err
	}
	if !existed {
		s.sheets[sheetId] = sheet
	}

	err = s.db.Batch(func(tx *bbolt.Tx) error {
		bucket, bucketErr := tx.CreateBucketIfNotExists([]byte(sheetId))
		if bucketErr != nil {
			return bucketErr
		}
		return bucket.Put(s.serializer.Marshal(pos), []byte(value))
	})
	if err != nil {
		// the store write failed: undo the in-memory edit so the live
		// graph never holds cells the store does not
		if !existed {
			delete(s.sheets, sheetId)
		} else if occupied {
			_ = sheet.SetCell(pos, prevText)
		} else {
			_ = sheet.ClearCell(pos)
		}
		return nil, err
	}

	changed := append([]contracts.Position{pos}, sheet.TransitiveDependents(pos)...)
	s.notify(sheetId, sheet, changed)

	return s.makeCell(sheet, pos), nil
}

func (s *SheetRepository) GetCell(sheetId string, cellId string) (*contracts.Cell, error) {
	sheetId = strings.ToLower(sheetId)

	pos, err := contracts.ParsePosition(cellId)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, ok := s.sheets[sheetId]
	if !ok {
		return nil, fmt.Errorf("%s: %w", sheetId, contracts.SheetNotFoundError)
	}

	cell, err := sheet.GetCell(pos)
	if err != nil {
		return nil, err
	}
	if cell == nil {
		return nil, fmt.Errorf("%s: %w", cellId, contracts.CellNotFoundError)
	}

	return s.makeCell(sheet, pos), nil
}

func (s *SheetRepository) ClearCell(sheetId string, cellId string) error {
	sheetId = strings.ToLower(sheetId)

	pos, err := contracts.ParsePosition(cellId)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, ok := s.sheets[sheetId]
	if !ok {
		return fmt.Errorf("%s: %w", sheetId, contracts.SheetNotFoundError)
	}

	// dependents survive the clear and see the empty referent
	changed := sheet.TransitiveDependents(pos)

	prevText, occupied := "", false
	if cell := sheet.cells[pos]; cell != nil {
		prevText, occupied = cell.Text(), true
	}

	if err = sheet.ClearCell(pos); err != nil {
		return err
	}

	err = s.db.Batch(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sheetId))
		if bucket == nil {
			return nil
		}
		return bucket.Delete(s.serializer.Marshal(pos))
	})
	if err != nil {
		if occupied {
			_ = sheet.SetCell(pos, prevText)
		}
		return err
	}

	s.notify(sheetId, sheet, changed)
	return nil
}

func (s *SheetRepository) GetCellList(sheetId string) (*contracts.CellList, error) {
	sheetId = strings.ToLower(sheetId)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, ok := s.sheets[sheetId]
	if !ok {
		return nil, fmt.Errorf("%s: %w", sheetId, contracts.SheetNotFoundError)
	}

	cellList := contracts.CellList{}
	for _, pos := range sheet.OccupiedPositions() {
		cellList[pos.String()] = s.makeCell(sheet, pos)
	}

	return &cellList, nil
}

func (s *SheetRepository) PrintableSize(sheetId string) (contracts.Size, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, ok := s.sheets[strings.ToLower(sheetId)]
	if !ok {
		return contracts.Size{}, fmt.Errorf("%s: %w", sheetId, contracts.SheetNotFoundError)
	}
	return sheet.PrintableSize(), nil
}

func (s *SheetRepository) PrintValues(sheetId string, out io.Writer) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, ok := s.sheets[strings.ToLower(sheetId)]
	if !ok {
		return fmt.Errorf("%s: %w", sheetId, contracts.SheetNotFoundError)
	}
	return sheet.PrintValues(out)
}

func (s *SheetRepository) PrintTexts(sheetId string, out io.Writer) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, ok := s.sheets[strings.ToLower(sheetId)]
	if !ok {
		return fmt.Errorf("%s: %w", sheetId, contracts.SheetNotFoundError)
	}
	return sheet.PrintTexts(out)
}

func (s *SheetRepository) makeCell(sheet *Sheet, pos contracts.Position) *contracts.Cell {
	cell := sheet.cells[pos]
	return &contracts.Cell{
		CellId: pos.String(),
		Value:  cell.Text(),
		Result: cell.Value().String(),
	}
}

func (s *SheetRepository) notify(sheetId string, sheet *Sheet, changed []contracts.Position) {
	if s.webhookDispatcher == nil || len(changed) == 0 {
		return
	}

	cells := make([]*contracts.Cell, 0, len(changed))
	for _, pos := range changed {
		cells = append(cells, s.makeCell(sheet, pos))
	}
	s.webhookDispatcher.Notify(sheetId, cells)
}

// loadSheets replays every bucket through Sheet.SetCell. A consistent
// store cannot produce cycle or syntax errors; anything that still fails
// is logged and skipped rather than aborting startup.
func (s *SheetRepository) loadSheets() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, bucket *bbolt.Bucket) error {
			sheetId := string(name)
			sheet := NewSheet(s.parser)

			cursor := bucket.Cursor()
			for key, value := cursor.First(); key != nil; key, value = cursor.Next() {
				pos, err := s.serializer.Unmarshal(key)
				if err != nil {
					slog.Warn("skipping unreadable cell key", "sheet", sheetId, "error", err)
					continue
				}
				if err = sheet.SetCell(pos, string(value)); err != nil {
					slog.Warn("skipping stored cell", "sheet", sheetId, "cell", pos.String(), "error", err)
				}
			}

			s.sheets[sheetId] = sheet
			return nil
		})
	})
}
