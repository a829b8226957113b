package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dalbom/arithmetic/internal/arithmetic"
	"github.com/rs/zerolog"
)

func TestParseArgs(t *testing.T) {
	o, err := parseArgs([]string{"-op", "division", "-operands", "3", "-easy", "-seed", "42", "2", "4", "7"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs() error = %v", err)
	}

	if o.spec.NumberOfPages != 4 || o.spec.PageOffset != 7 {
		t.Errorf("pages/offset = %d/%d, want 4/7", o.spec.NumberOfPages, o.spec.PageOffset)
	}
	p := o.spec.Problems[0]
	if p.Operation != arithmetic.Division || !p.EasyMode {
		t.Errorf("problem spec = %+v", p)
	}
	if len(p.OperandDigits) != 3 || p.OperandDigits[2] != 2 {
		t.Errorf("OperandDigits = %v, want [2 2 2]", p.OperandDigits)
	}
	if !o.hasSeed || o.seed != 42 {
		t.Errorf("seed = %d (set %t), want 42", o.seed, o.hasSeed)
	}
}

func TestParseArgs_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing positional", []string{"2", "3"}, "3 positional"},
		{"zero digits", []string{"0", "1", "1"}, "n_digit must be at least 1"},
		{"zero pages", []string{"1", "0", "1"}, "n_page must be at least 1"},
		{"zero offset", []string{"1", "1", "0"}, "page_offset must be at least 1"},
		{"not a number", []string{"x", "1", "1"}, "n_digit must be an integer"},
		{"bad format", []string{"-format", "docx", "1", "1", "1"}, "format must be"},
		{"bad seed", []string{"-seed", "-3", "1", "1", "1"}, "seed must be"},
		{"one operand", []string{"-operands", "1", "1", "1", "1"}, "operands must be at least"},
		{"too many digits", []string{"6", "1", "1"}, "digit"},
		{"bad operation", []string{"-op", "modulo", "1", "1", "1"}, "operation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(tt.args, io.Discard)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestRun_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "sheet")

	var stdout bytes.Buffer
	args := []string{"-seed", "9", "-answer-key", "-format", "tex", "-o", out, "1", "2", "3"}
	if err := run(t.Context(), args, &stdout, zerolog.Nop()); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	sheet, err := os.ReadFile(out + ".tex")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(sheet), `\setcounter{page}{3}`) {
		t.Error("worksheet does not start at page 3")
	}
	if _, err := os.Stat(out + "-answers.tex"); err != nil {
		t.Errorf("answer key not written: %v", err)
	}
	if !strings.Contains(stdout.String(), "seed 9") {
		t.Errorf("stdout = %q, want seed", stdout.String())
	}

	// Same seed, same worksheet.
	again := filepath.Join(dir, "again")
	args = []string{"-seed", "9", "-format", "tex", "-o", again, "1", "2", "3"}
	if err := run(t.Context(), args, io.Discard, zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(again + ".tex")
	if !bytes.Equal(sheet, second) {
		t.Error("same seed produced a different worksheet")
	}
}
