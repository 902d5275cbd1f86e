package evaluator

import (
	"context"
	"errors"
	"testing"

	"github.com/sandrolain/mathex/pkg/functions"
	"github.com/sandrolain/mathex/pkg/types"
)

func param(name string, index int) *types.Node {
	return &types.Node{Kind: types.KindParameter, Name: name, Index: index}
}

func binary(op string, left, right *types.Node) *types.Node {
	return &types.Node{Kind: types.KindBinary, Name: op, Operands: []*types.Node{left, right}}
}

func run(t *testing.T, e *Evaluator, root *types.Node, env ...any) any {
	t.Helper()
	program, err := e.Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	v, err := program(context.Background(), env)
	if err != nil {
		t.Fatalf("program: %v", err)
	}
	return v
}

func TestCompileConstant(t *testing.T) {
	e := New()
	if got := run(t, e, types.NewConstant(int64(42), "42")); got != int64(42) {
		t.Errorf("constant = %v", got)
	}
}

func TestCompileBinary(t *testing.T) {
	e := New()
	root := binary("add", param("x", 0), types.NewConstant(int64(1), "1"))
	if got := run(t, e, root, int64(5)); got != int64(6) {
		t.Errorf("x + 1 with x=5 = %v", got)
	}
}

func TestCompileUnary(t *testing.T) {
	e := New()
	root := &types.Node{Kind: types.KindUnary, Name: "negate",
		Operands: []*types.Node{param("x", 0)}}
	if got := run(t, e, root, int64(3)); got != int64(-3) {
		t.Errorf("-x with x=3 = %v", got)
	}
}

func TestUnboundParameter(t *testing.T) {
	e := New()
	program, err := e.Compile(param("x", 2))
	if err != nil {
		t.Fatal(err)
	}
	_, err = program(context.Background(), []any{int64(1)})
	var me *types.Error
	if !errors.As(err, &me) || me.Code != types.ErrUnboundArgument {
		t.Errorf("error = %v, want %s", err, types.ErrUnboundArgument)
	}
}

func TestCompileNil(t *testing.T) {
	if _, err := New().Compile(nil); err == nil {
		t.Error("compiling a nil tree succeeded")
	}
}

func TestTernaryShortCircuit(t *testing.T) {
	calls := 0
	reg := functions.NewRegistry()
	if err := reg.Register(functions.Definition{
		Name: "probe",
		Fn: func(...any) (any, error) {
			calls++
			return int64(1), nil
		},
	}); err != nil {
		t.Fatal(err)
	}

	root := &types.Node{
		Kind: types.KindTernary,
		Name: "if",
		Operands: []*types.Node{
			param("flag", 0),
			{Kind: types.KindFunctionCall, Name: "probe"},
			types.NewConstant(int64(0), "0"),
		},
	}
	e := New(WithFunctions(reg))

	if got := run(t, e, root, false); got != int64(0) {
		t.Errorf("alternative branch = %v", got)
	}
	if calls != 0 {
		t.Errorf("unselected branch ran %d times", calls)
	}

	if got := run(t, e, root, true); got != int64(1) {
		t.Errorf("selected branch = %v", got)
	}
	if calls != 1 {
		t.Errorf("selected branch ran %d times, want 1", calls)
	}
}

func TestTernaryNonTruthyCondition(t *testing.T) {
	root := &types.Node{
		Kind: types.KindTernary,
		Name: "if",
		Operands: []*types.Node{
			param("flag", 0),
			types.NewConstant(int64(1), "1"),
			types.NewConstant(int64(2), "2"),
		},
	}
	program, err := New().Compile(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := program(context.Background(), []any{"nope"}); err == nil {
		t.Error("string condition evaluated")
	}
}

func TestFunctionCallNormalizesResult(t *testing.T) {
	reg := functions.NewRegistry()
	if err := reg.Register(functions.Definition{
		Name:   "answer",
		Params: nil,
		Fn:     func(...any) (any, error) { return 42, nil },
	}); err != nil {
		t.Fatal(err)
	}

	root := &types.Node{Kind: types.KindFunctionCall, Name: "answer"}
	got := run(t, New(WithFunctions(reg)), root)
	if got != int64(42) {
		t.Errorf("result = %v (%T), want normalized int64", got, got)
	}
}

func TestUnknownFunctionFailsCompile(t *testing.T) {
	root := &types.Node{Kind: types.KindFunctionCall, Name: "ghost"}

	if _, err := New(WithFunctions(functions.NewRegistry())).Compile(root); err == nil {
		t.Error("compiling a call to an unregistered function succeeded")
	}
	if _, err := New().Compile(root); err == nil {
		t.Error("compiling a call without a registry succeeded")
	}
}

func TestProgramHonorsCancellation(t *testing.T) {
	program, err := New().Compile(types.NewConstant(int64(1), "1"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := program(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled program = %v, want context.Canceled", err)
	}
}

func TestToleranceOption(t *testing.T) {
	two := int64(2)
	root := binary("lessThanOrEqual", param("x", 0), param("y", 1))

	exact := run(t, New(), root, int64(5), int64(4))
	if exact != false {
		t.Errorf("exact 5 <= 4 = %v", exact)
	}

	relaxed := run(t, New(WithTolerance(&types.Tolerance{IntegerRange: &two})), root, int64(5), int64(4))
	if relaxed != true {
		t.Errorf("tolerant 5 <= 4 = %v", relaxed)
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		args []any
		want string
	}{
		{nil, ""},
		{[]any{int64(1), 2.5}, "nf"},
		{[]any{"s", true, []byte{1}}, "sby"},
		{[]any{struct{}{}}, "x"},
	}
	for _, tt := range tests {
		if got := Signature(tt.args); got != tt.want {
			t.Errorf("Signature(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestValueTypes(t *testing.T) {
	got := ValueTypes([]any{int64(1), "s"})
	if len(got) != 2 || got[0] != types.ValueNumeric || got[1] != types.ValueString {
		t.Errorf("ValueTypes = %v", got)
	}
}
