package contracts

import (
	"errors"
	"io"
)

var SheetNotFoundError = errors.New("sheet not found")

type SheetRepository interface {
	SetCell(sheetId string, cellId string, value string) (*Cell, error)
	GetCell(sheetId string, cellId string) (*Cell, error)
	ClearCell(sheetId string, cellId string) error
	GetCellList(sheetId string) (*CellList, error)
	PrintableSize(sheetId string) (Size, error)
	PrintValues(sheetId string, out io.Writer) error
	PrintTexts(sheetId string, out io.Writer) error
}
