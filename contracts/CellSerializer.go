package contracts

// PositionSerializer converts positions to and from fixed-size storage
// keys, preserving row-major ordering.
type PositionSerializer interface {
	Marshal(pos Position) []byte
	Unmarshal(data []byte) (Position, error)
}
