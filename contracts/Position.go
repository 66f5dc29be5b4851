package contracts

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// MaxRows and MaxCols bound the addressable grid. Positions outside
// [0, MaxRows) x [0, MaxCols) are rejected at the API boundary and are
// never stored.
const MaxRows = 16384
const MaxCols = 16384

var InvalidPositionError = errors.New("invalid position")

// Position is a zero-based grid coordinate.
type Position struct {
	Row int
	Col int
}

type Size struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

func (p Position) IsValid() bool {
	return p.Row >= 0 && p.Row < MaxRows && p.Col >= 0 && p.Col < MaxCols
}

// String renders the position in A1 notation: (8, 25) => "Z9".
func (p Position) String() string {
	if !p.IsValid() {
		return ""
	}

	letters := make([]byte, 0, 3)
	col := p.Col + 1
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}

	return string(letters) + strconv.Itoa(p.Row+1)
}

// SortPositions orders positions row-major in place.
func SortPositions(positions []Position) {
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Row != positions[j].Row {
			return positions[i].Row < positions[j].Row
		}
		return positions[i].Col < positions[j].Col
	})
}

// ParsePosition parses A1 notation, case-insensitive: "Z9" => (8, 25).
func ParsePosition(ref string) (Position, error) {
	col := 0
	index := 0
	for ; index < len(ref); index++ {
		char := ref[index]
		if char >= 'a' && char <= 'z' {
			char -= 'a' - 'A'
		}
		if char < 'A' || char > 'Z' {
			break
		}
		col = col*26 + int(char-'A') + 1
		if col > MaxCols {
			return Position{}, fmt.Errorf("%s: %w", ref, InvalidPositionError)
		}
	}

	if index == 0 || index == len(ref) || ref[index] == '0' {
		return Position{}, fmt.Errorf("%s: %w", ref, InvalidPositionError)
	}

	row, err := strconv.Atoi(ref[index:])
	if err != nil || row < 1 || row > MaxRows {
		return Position{}, fmt.Errorf("%s: %w", ref, InvalidPositionError)
	}

	return Position{Row: row - 1, Col: col - 1}, nil
}
