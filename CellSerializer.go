package main

import (
	"encoding/binary"
	"errors"
	"fmt"

	"sheetEngine/contracts"
)

var SerializerError = errors.New("invalid serialized position")

// PositionBinarySerializer packs a position into a 4-byte big-endian key
// (row then column), so a bucket cursor walks cells in row-major order.
type PositionBinarySerializer struct {
}

func NewPositionBinarySerializer() *PositionBinarySerializer {
	return &PositionBinarySerializer{}
}

func (s *PositionBinarySerializer) Marshal(pos contracts.Position) []byte {
	key := make([]byte, 0, 4)
	key = binary.BigEndian.AppendUint16(key, uint16(pos.Row))
	key = binary.BigEndian.AppendUint16(key, uint16(pos.Col))
	return key
}

func (s *PositionBinarySerializer) Unmarshal(data []byte) (contracts.Position, error) {
	if len(data) != 4 {
		return contracts.Position{}, fmt.Errorf("%w: expected 4 bytes, got %d", SerializerError, len(data))
	}

	pos := contracts.Position{
		Row: int(binary.BigEndian.Uint16(data)),
		Col: int(binary.BigEndian.Uint16(data[2:])),
	}
	if !pos.IsValid() {
		return contracts.Position{}, fmt.Errorf("%w: out of range (data: %v)", SerializerError, data)
	}
	return pos, nil
}
