package parser

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sandrolain/mathex/pkg/functions"
	"github.com/sandrolain/mathex/pkg/operators"
	"github.com/sandrolain/mathex/pkg/types"
)

func testConfig() *Config {
	def := types.DefaultMathDefinition()
	return &Config{
		Definition: def,
		Functions:  functions.Builtins(),
		Extractors: DefaultExtractors(def.StringIndicator, def.EscapeCharacter),
		PassThrough: []PassThroughExtractor{
			&StringPassThrough{Indicator: def.StringIndicator, Escape: def.EscapeCharacter},
		},
	}
}

func parse(t *testing.T, expression string) *Result {
	t.Helper()
	result, err := Parse(context.Background(), expression, testConfig())
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", expression, err)
	}
	return result
}

func parseOK(t *testing.T, expression string) *Result {
	t.Helper()
	result := parse(t, expression)
	if !result.Success {
		t.Fatalf("Parse(%q) failed: %v", expression, result.Diag)
	}
	return result
}

func TestConstantExpressions(t *testing.T) {
	tests := []struct {
		expr string
		want any
	}{
		{"42", int64(42)},
		{"4.5", 4.5},
		{".5", 0.5},
		{"2e3", 2000.0},
		{"true", true},
		{"FALSE", false},
		{"2 + 3 * 4", int64(14)},
		{"(2 + 3) * 4", int64(20)},
		{"10 - 3 - 2", int64(5)},
		{"2 ^ 3 ^ 2", int64(64)},
		{`"hello"`, "hello"},
		{`"a" + "b"`, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			result := parseOK(t, tt.expr)
			if !result.Root.IsConstant() {
				t.Fatalf("Parse(%q) did not fold, got %s node", tt.expr, result.Root.Kind)
			}
			if result.Root.Value != tt.want {
				t.Errorf("Parse(%q) = %v (%T), want %v (%T)",
					tt.expr, result.Root.Value, result.Root.Value, tt.want, tt.want)
			}
		})
	}
}

func TestFoldingComparisonContext(t *testing.T) {
	cfg := testConfig()
	cfg.Comparison = &operators.Comparison{
		Collator: collate.New(language.English, collate.IgnoreCase),
	}
	result, err := Parse(context.Background(), `"Hello" = "hello"`, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || !result.Root.IsConstant() {
		t.Fatalf("comparison did not fold: %v", result.Diag)
	}
	if result.Root.Value != true {
		t.Errorf("case-insensitive fold = %v, want true", result.Root.Value)
	}
}

func TestParameterDeclaration(t *testing.T) {
	result := parseOK(t, "width * height + width")
	if got := result.Params.Names(); !reflect.DeepEqual(got, []string{"width", "height"}) {
		t.Errorf("Params.Names() = %v, want [width height]", got)
	}

	root := result.Root
	if root.Kind != types.KindBinary || root.Name != "add" {
		t.Fatalf("root = %s %q, want binary add", root.Kind, root.Name)
	}
	right := root.Operands[1]
	if right.Kind != types.KindParameter || right.Name != "width" || right.Index != 0 {
		t.Errorf("rightmost operand = %s %q slot %d, want parameter width slot 0",
			right.Kind, right.Name, right.Index)
	}
}

func TestIdentifierWithDigits(t *testing.T) {
	// x1e5 is an identifier, not the number 1e5 glued to x.
	result := parseOK(t, "x1e5 + 1")
	if got := result.Params.Names(); !reflect.DeepEqual(got, []string{"x1e5"}) {
		t.Errorf("Params.Names() = %v, want [x1e5]", got)
	}
}

func TestParseFailureCodes(t *testing.T) {
	tests := []struct {
		expr string
		code types.ErrorCode
	}{
		{"2 +", types.ErrEmptyOperand},
		{"* 2", types.ErrUnknownSymbol},
		{"(1 + 2", types.ErrUnmatchedParen},
		{"1 + 2)", types.ErrUnmatchedParen},
		{"2 @ 3", types.ErrUnknownSymbol},
		{"1.2.3", types.ErrUnknownSymbol},
		{"0xF + 1", types.ErrUnknownSymbol},
		{"nope(1)", types.ErrUnknownFunction},
		{"sqrt(1, 2)", types.ErrArityMismatch},
		{"sqrt(1)(2)", types.ErrUnknownFunction},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			result := parse(t, tt.expr)
			if result.Success {
				t.Fatalf("Parse(%q) unexpectedly succeeded", tt.expr)
			}
			var me *types.Error
			if !errors.As(result.Diag, &me) {
				t.Fatalf("Diag %v is not a *types.Error", result.Diag)
			}
			if me.Code != tt.code {
				t.Errorf("Parse(%q) code = %s, want %s (%v)", tt.expr, me.Code, tt.code, me)
			}
		})
	}
}

func TestUnaryBinaryDisambiguation(t *testing.T) {
	tests := []struct {
		expr string
		want any
	}{
		{"-2", int64(-2)},
		{"-2 + 3", int64(1)},
		{"3 * -2", int64(-6)},
		{"2 - -3", int64(5)},
		{"-(1 + 2)", int64(-3)},
		{"!false", true},
		{"1 != 2", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			result := parseOK(t, tt.expr)
			if !result.Root.IsConstant() || result.Root.Value != tt.want {
				t.Errorf("Parse(%q) = %+v, want constant %v", tt.expr, result.Root, tt.want)
			}
		})
	}
}

func TestColludingOperatorSymbols(t *testing.T) {
	// <, <=, << and > , >=, >> share prefixes; the rewrite must keep each
	// spelling intact.
	tests := []struct {
		expr string
		want any
	}{
		{"1 << 3", int64(8)},
		{"1 < 3", true},
		{"3 <= 3", true},
		{"16 >> 3", int64(2)},
		{"1 > 3", false},
		{"3 >= 4", false},
		{"1 = 1", true},
		{"1 != 1", false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			result := parseOK(t, tt.expr)
			if !result.Root.IsConstant() || result.Root.Value != tt.want {
				t.Errorf("Parse(%q) = %+v, want constant %v", tt.expr, result.Root, tt.want)
			}
		})
	}
}

func TestCustomSymbols(t *testing.T) {
	cfg := testConfig()
	cfg.Definition.Add = "plus"
	cfg.Definition.Multiply = "times"

	result, err := Parse(context.Background(), "2 times 3 plus 4", cfg)
	if err != nil || !result.Success {
		t.Fatalf("parse: %v, %v", err, result.Diag)
	}
	if result.Root.Value != int64(10) {
		t.Errorf("2 times 3 plus 4 = %v, want 10", result.Root.Value)
	}
}

func TestStringLiteralShielding(t *testing.T) {
	// Operator and separator characters inside a string literal are content.
	result := parseOK(t, `"a + b, c" + name`)
	if got := result.Params.Names(); !reflect.DeepEqual(got, []string{"name"}) {
		t.Fatalf("Params.Names() = %v, want [name]", got)
	}
	left := result.Root.Operands[0]
	if left.Value != "a + b, c" {
		t.Errorf("left operand = %v, want the literal content", left.Value)
	}
}

func TestEscapedDelimiter(t *testing.T) {
	result := parseOK(t, `"say \"hi\""`)
	if result.Root.Value != `say "hi"` {
		t.Errorf("value = %q, want %q", result.Root.Value, `say "hi"`)
	}
}

func TestPassThroughShortCircuit(t *testing.T) {
	result := parseOK(t, `"2 + 2"`)
	if !result.Root.IsConstant() || result.Root.Value != "2 + 2" {
		t.Errorf("whole-string expression = %v, want the raw literal", result.Root.Value)
	}
}

func TestRepeatedLiteralReuse(t *testing.T) {
	// The same literal twice resolves through one constants entry but two
	// distinct nodes, keeping the tree strict.
	result := parseOK(t, `"a" + x + "a"`)
	root := result.Root
	leftConst := root.Operands[0].Operands[0]
	rightConst := root.Operands[1]
	if leftConst.Value != "a" || rightConst.Value != "a" {
		t.Fatalf("literal nodes = %v, %v", leftConst.Value, rightConst.Value)
	}
	if leftConst == rightConst {
		t.Error("literal nodes are shared between tree positions")
	}
}

func TestMaxDepth(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDepth = 2

	result, err := Parse(context.Background(), "1 + 1 + 1 + 1 + 1", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success {
		t.Fatal("deeply nested expression parsed under MaxDepth 2")
	}
	var me *types.Error
	if !errors.As(result.Diag, &me) || me.Code != types.ErrDepthExceeded {
		t.Errorf("Diag = %v, want %s", result.Diag, types.ErrDepthExceeded)
	}
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, "1 + 1", testConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Parse with cancelled context = %v, want context.Canceled", err)
	}
}

func TestNestedCalls(t *testing.T) {
	result := parseOK(t, "max(min(x, 2), abs(-3))")
	root := result.Root
	if root.Kind != types.KindFunctionCall || root.Name != "max" {
		t.Fatalf("root = %s %q, want call to max", root.Kind, root.Name)
	}
	inner := root.Operands[0]
	if inner.Kind != types.KindFunctionCall || inner.Name != "min" {
		t.Fatalf("first operand = %s %q, want call to min", inner.Kind, inner.Name)
	}
	if folded := root.Operands[1]; !folded.IsConstant() || folded.Value != 3.0 {
		t.Errorf("abs(-3) operand = %+v, want folded 3", folded)
	}
}

func TestConditionalLowering(t *testing.T) {
	result := parseOK(t, "if(flag, 1, 2)")
	if result.Root.Kind != types.KindTernary {
		t.Fatalf("root = %s, want ternary", result.Root.Kind)
	}

	folded := parseOK(t, "if(true, 1, 2)")
	if !folded.Root.IsConstant() || folded.Root.Value != int64(1) {
		t.Errorf("if(true, 1, 2) = %+v, want folded 1", folded.Root)
	}
}
