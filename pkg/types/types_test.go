package types

import (
	"errors"
	"reflect"
	"testing"
)

func TestToleranceEpsilon(t *testing.T) {
	two := int64(2)
	negTwo := int64(-2)
	half := 0.5
	ratio := 1.25
	pct := 0.1
	badRatio := 0.9

	tests := []struct {
		name      string
		tol       *Tolerance
		reference float64
		want      float64
	}{
		{"nil tolerance", nil, 100, 0},
		{"empty tolerance", &Tolerance{}, 100, 0},
		{"integer range", &Tolerance{IntegerRange: &two}, 100, 2},
		{"negative range is absolute", &Tolerance{IntegerRange: &negTwo}, 100, 2},
		{"float range", &Tolerance{FloatRange: &half}, 100, 0.5},
		{"proportional", &Tolerance{Proportional: &ratio}, 100, 25},
		{"percentage", &Tolerance{Percentage: &pct}, 200, 20},
		{"percentage of negative reference", &Tolerance{Percentage: &pct}, -200, 20},
		{"proportional below one ignored", &Tolerance{Proportional: &badRatio}, 100, 0},
		{"integer range wins over percentage", &Tolerance{IntegerRange: &two, Percentage: &pct}, 100, 2},
		{"float range wins over proportional", &Tolerance{FloatRange: &half, Proportional: &ratio}, 100, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tol.Epsilon(tt.reference); got != tt.want {
				t.Errorf("Epsilon(%v) = %v, want %v", tt.reference, got, tt.want)
			}
		})
	}
}

func TestToleranceKey(t *testing.T) {
	two := int64(2)
	pct := 0.1

	var nilTol *Tolerance
	if nilTol.Key() != "" {
		t.Error("nil tolerance key not empty")
	}
	if (&Tolerance{}).Key() != "" {
		t.Error("empty tolerance key not empty")
	}

	a := (&Tolerance{IntegerRange: &two}).Key()
	b := (&Tolerance{Percentage: &pct}).Key()
	c := (&Tolerance{IntegerRange: &two, Percentage: &pct}).Key()
	if a == b || a == c || b == c {
		t.Errorf("keys collide: %q %q %q", a, b, c)
	}
}

func TestTypeOfAndNormalize(t *testing.T) {
	tests := []struct {
		in   any
		vt   ValueType
		norm any
	}{
		{int(3), ValueNumeric, int64(3)},
		{int32(3), ValueNumeric, int64(3)},
		{uint8(3), ValueNumeric, int64(3)},
		{int64(3), ValueNumeric, int64(3)},
		{float32(1.5), ValueNumeric, float64(1.5)},
		{2.5, ValueNumeric, 2.5},
		{"s", ValueString, "s"},
		{true, ValueBoolean, true},
		{struct{}{}, ValueUnknown, struct{}{}},
	}
	for _, tt := range tests {
		if got := TypeOf(tt.in); got != tt.vt {
			t.Errorf("TypeOf(%T) = %s, want %s", tt.in, got, tt.vt)
		}
		if got := Normalize(tt.in); got != tt.norm {
			t.Errorf("Normalize(%T) = %v (%T), want %v", tt.in, got, got, tt.norm)
		}
	}
	if TypeOf([]byte{1}) != ValueBytes {
		t.Error("TypeOf([]byte) != ValueBytes")
	}
}

func TestParameterRegistry(t *testing.T) {
	r := NewParameterRegistry()

	a := r.Declare("a")
	b := r.Declare("b")
	again := r.Declare("a")

	if a.Index != 0 || b.Index != 1 {
		t.Errorf("indices = %d, %d", a.Index, b.Index)
	}
	if again != a {
		t.Error("re-declaring returned a new parameter")
	}
	if got := r.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v", got)
	}
	if r.At(1) != b {
		t.Error("At(1) != b")
	}

	clone := r.Clone()
	cp, _ := clone.Get("a")
	cp.Type = ValueNumeric
	if a.Type != ValueUnknown {
		t.Error("re-typing the clone mutated the original")
	}
	if cp.Index != 0 {
		t.Errorf("clone index = %d", cp.Index)
	}
}

func TestDeepClone(t *testing.T) {
	params := NewParameterRegistry()
	x := params.Declare("x")

	tree := &Node{
		Kind: KindBinary,
		Name: "add",
		Operands: []*Node{
			NewParameter(x),
			NewConstant(int64(1), "1"),
		},
	}

	fresh := NewParameterRegistry()
	fresh.Declare("x").Type = ValueNumeric
	clone := tree.DeepClone(&CloneContext{Params: fresh})

	if clone == tree || clone.Operands[0] == tree.Operands[0] {
		t.Fatal("clone shares nodes with the original")
	}
	if clone.Operands[0].Type != ValueNumeric {
		t.Error("cloned parameter did not pick up the registry's type")
	}
	if tree.Operands[0].Type != ValueUnknown {
		t.Error("original parameter was re-typed")
	}
}

func TestDeepCloneCopiesBytes(t *testing.T) {
	original := NewConstant([]byte{1, 2}, "0x0102")
	clone := original.DeepClone(nil)

	clone.Value.([]byte)[0] = 9
	if original.Value.([]byte)[0] != 1 {
		t.Error("byte payload is shared between clones")
	}
}

func TestErrorFormatting(t *testing.T) {
	err := NewError(ErrUnknownSymbol, "bad token", 4).WithToken("@")
	if err.Error() != "M0202 at position 4: bad token" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Token != "@" {
		t.Errorf("Token = %q", err.Token)
	}

	plain := NewError(ErrNotComputable, "no tree", -1)
	if plain.Error() != "M0301: no tree" {
		t.Errorf("Error() = %q", plain.Error())
	}

	cause := NewError(ErrEmptyOperand, "missing operand", -1)
	wrapped := NewError(ErrNotComputable, "did not parse", -1).WithCause(cause)
	if !errors.Is(wrapped, cause) {
		t.Error("WithCause is not unwrappable")
	}
}
