package contracts

import "strconv"

type ValueKind uint8

const (
	ValueText ValueKind = iota
	ValueNumber
	ValueError
)

// ErrorCode enumerates in-band evaluation failures, Excel conventions.
type ErrorCode uint8

const (
	ErrorCodeDiv0  ErrorCode = 1 // #DIV/0! - division by zero or non-finite result
	ErrorCodeValue ErrorCode = 2 // #VALUE! - wrong type of operand
	ErrorCodeRef   ErrorCode = 3 // #REF! - invalid cell reference
)

var ErrorMnemonics = map[ErrorCode]string{
	ErrorCodeDiv0:  "#DIV/0!",
	ErrorCodeValue: "#VALUE!",
	ErrorCodeRef:   "#REF!",
}

// Value is a computed cell result: a text, a number, or an in-band
// evaluation error. The zero Value is the empty text.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Code   ErrorCode
}

func TextValue(text string) Value {
	return Value{Kind: ValueText, Text: text}
}

func NumberValue(number float64) Value {
	return Value{Kind: ValueNumber, Number: number}
}

func ErrorValue(code ErrorCode) Value {
	return Value{Kind: ValueError, Code: code}
}

func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueError:
		return ErrorMnemonics[v.Code]
	default:
		return v.Text
	}
}
