package parser

import (
	"bytes"
	"testing"
)

func TestStringExtractor(t *testing.T) {
	ex := &StringExtractor{Indicator: `"`, Escape: `\`}

	tests := []struct {
		name  string
		text  string
		start int
		end   int
		value string
		ok    bool
	}{
		{"simple", `x + "ab" + y`, 4, 8, "ab", true},
		{"empty literal", `""`, 0, 2, "", true},
		{"escaped delimiter", `"a\"b"`, 0, 6, `a"b`, true},
		{"no literal", `x + y`, 0, 0, "", false},
		{"unterminated", `x + "ab`, 0, 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, value, ok := ex.Extract(tt.text)
			if ok != tt.ok {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if !ok {
				return
			}
			if start != tt.start || end != tt.end || value != tt.value {
				t.Errorf("Extract(%q) = (%d, %d, %q), want (%d, %d, %q)",
					tt.text, start, end, value, tt.start, tt.end, tt.value)
			}
		})
	}
}

func TestScientificExtractor(t *testing.T) {
	ex := &ScientificExtractor{}

	start, end, value, ok := ex.Extract("1+2.5e3")
	if !ok || start != 2 || end != 7 || value != 2500.0 {
		t.Errorf("Extract(1+2.5e3) = (%d, %d, %v, %v)", start, end, value, ok)
	}

	// Identifier-adjacent matches are names, not numbers.
	if _, _, _, ok := ex.Extract("x1e5"); ok {
		t.Error("Extract(x1e5) matched inside an identifier")
	}
	if _, _, _, ok := ex.Extract("1e5x"); ok {
		t.Error("Extract(1e5x) matched against a trailing identifier")
	}
	if _, _, _, ok := ex.Extract("1 + 2"); ok {
		t.Error("Extract(1 + 2) matched a plain number")
	}
}

func TestBytesExtractor(t *testing.T) {
	ex := &BytesExtractor{}

	start, end, value, ok := ex.Extract("0xFF01+x")
	if !ok || start != 0 || end != 6 {
		t.Fatalf("Extract(0xFF01+x) = (%d, %d, %v)", start, end, ok)
	}
	if b, _ := value.([]byte); !bytes.Equal(b, []byte{0xff, 0x01}) {
		t.Errorf("value = %v, want [0xff 0x01]", value)
	}

	// Odd digit counts are not byte arrays.
	if _, _, _, ok := ex.Extract("0xF+1"); ok {
		t.Error("Extract(0xF+1) matched an odd-length literal")
	}
}

func TestStringPassThrough(t *testing.T) {
	pt := &StringPassThrough{Indicator: `"`, Escape: `\`}

	if v, ok := pt.Evaluate(`"whole"`); !ok || v != "whole" {
		t.Errorf("Evaluate(whole literal) = (%v, %v)", v, ok)
	}
	if _, ok := pt.Evaluate(`"a" + "b"`); ok {
		t.Error("Evaluate matched an expression that merely starts with a literal")
	}
	if _, ok := pt.Evaluate(`1 + 2`); ok {
		t.Error("Evaluate matched a non-string expression")
	}
}
