package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"

	"sheetEngine/contracts"
)

// ExpressionFormulaParser builds formula handles on top of the expr
// language: references are plain identifiers in A1 notation, resolved
// against the sheet at evaluation time.
type ExpressionFormulaParser struct {
	compilerOptions []expr.Option
	vmPool          sync.Pool
}

func NewExpressionFormulaParser() *ExpressionFormulaParser {
	compilerOptions := []expr.Option{
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.Optimize(false),
		expr.DisableAllBuiltins(),
	}
	for _, function := range formulaFunctions {
		compilerOptions = append(compilerOptions, function)
	}

	return &ExpressionFormulaParser{
		compilerOptions: compilerOptions,

		vmPool: sync.Pool{
			New: func() any {
				return new(vm.VM)
			},
		},
	}
}

func (p *ExpressionFormulaParser) Parse(expression string) (contracts.Formula, error) {
	tree, err := parser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", contracts.FormulaSyntaxError, err)
	}

	visitor := newFindCellRefsVisitor()
	ast.Walk(&tree.Node, visitor)
	if visitor.invalidRef != "" {
		return nil, fmt.Errorf("%w: unknown reference %s", contracts.FormulaSyntaxError, visitor.invalidRef)
	}

	// the visitor rewrote identifiers to canonical form, so the
	// re-rendered tree is the canonical expression
	canonical := tree.Node.String()

	program, err := expr.Compile(canonical, p.compilerOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", contracts.FormulaSyntaxError, err)
	}

	formula := &expressionFormula{
		parser:     p,
		program:    program,
		expression: canonical,
		refs:       visitor.sortedRefs(),
	}

	// a bare reference propagates the referent's value verbatim: "=B1"
	// on an empty B1 reads as the empty text, not as zero
	if _, isIdentity := tree.Node.(*ast.IdentifierNode); isIdentity && len(formula.refs) == 1 {
		formula.identity = &formula.refs[0]
	}

	return formula, nil
}

type expressionFormula struct {
	parser     *ExpressionFormulaParser
	program    *vm.Program
	expression string
	refs       []contracts.Position
	identity   *contracts.Position
}

func (f *expressionFormula) Expression() string {
	return f.expression
}

func (f *expressionFormula) ReferencedCells() []contracts.Position {
	return f.refs
}

// Evaluate resolves every referenced cell through the sheet view, runs
// the compiled program, and reduces the output to a numeric value.
// Referent errors propagate; non-numeric referents and results surface
// as #VALUE!.
func (f *expressionFormula) Evaluate(view contracts.SheetView) contracts.Value {
	if f.identity != nil {
		return view.CellValue(*f.identity)
	}

	vars := make(map[string]any, len(f.refs))

	for _, pos := range f.refs {
		value := view.CellValue(pos)
		switch value.Kind {
		case contracts.ValueError:
			return value
		case contracts.ValueNumber:
			vars[pos.String()] = value.Number
		default:
			operand, ok := textToOperand(value.Text)
			if !ok {
				return contracts.ErrorValue(contracts.ErrorCodeValue)
			}
			vars[pos.String()] = operand
		}
	}

	machine := f.parser.vmPool.Get().(*vm.VM)
	output, err := machine.Run(f.program, vars)
	f.parser.vmPool.Put(machine)

	if err != nil {
		if strings.Contains(err.Error(), "divide by zero") {
			return contracts.ErrorValue(contracts.ErrorCodeDiv0)
		}
		return contracts.ErrorValue(contracts.ErrorCodeValue)
	}

	return outputToValue(output)
}

// textToOperand coerces a referent's text for arithmetic: empty reads as
// zero, numeric text as its number.
func textToOperand(text string) (any, bool) {
	if text == "" {
		return int64(0), true
	}
	if intValue, err := strconv.ParseInt(text, 10, 64); err == nil {
		return intValue, true
	}
	if floatValue, err := strconv.ParseFloat(text, 64); err == nil {
		return floatValue, true
	}
	return nil, false
}

func outputToValue(output any) contracts.Value {
	var number float64

	switch typed := output.(type) {
	case int:
		number = float64(typed)
	case int64:
		number = float64(typed)
	case float64:
		number = typed
	default:
		return contracts.ErrorValue(contracts.ErrorCodeValue)
	}

	// float division by zero yields an infinity instead of a run error
	if math.IsInf(number, 0) || math.IsNaN(number) {
		return contracts.ErrorValue(contracts.ErrorCodeDiv0)
	}

	return contracts.NumberValue(number)
}
