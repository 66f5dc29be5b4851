package main

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm/runtime"
)

var calculateSum = func(args ...any) (any, error) {
	sum := any(int64(0))
	for _, arg := range args {
		sum = runtime.Add(sum, arg)
	}
	return sum, nil
}

var calculateAvg = func(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("avg requires at least one argument")
	}
	sum, err := calculateSum(args...)
	if err != nil {
		return nil, err
	}
	return runtime.Divide(sum, len(args)), nil
}

var calculateMin = func(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("min requires at least one argument")
	}
	minValue := args[0]
	for _, arg := range args[1:] {
		if runtime.Less(arg, minValue) {
			minValue = arg
		}
	}
	return minValue, nil
}

var calculateMax = func(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("max requires at least one argument")
	}
	maxValue := args[0]
	for _, arg := range args[1:] {
		if runtime.More(arg, maxValue) {
			maxValue = arg
		}
	}
	return maxValue, nil
}

// formulaFunctions keys are the canonical (lowercase) callable names
// inside formulas.
var formulaFunctions = map[string]expr.Option{
	"sum": expr.Function("sum", calculateSum),
	"avg": expr.Function("avg", calculateAvg),
	"min": expr.Function("min", calculateMin),
	"max": expr.Function("max", calculateMax),
}
