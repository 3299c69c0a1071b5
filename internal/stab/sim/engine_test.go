package sim

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	f()
}

// run samples a program built by build for the given shots on a fixed seed
func run(t *testing.T, numQubits, shots int, build func(*Program)) [][]bool {
	t.Helper()
	prog := NewProgram(numQubits)
	build(prog)
	out, err := NewEngineSeeded(7).Sample(prog, shots)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	if len(out) != shots {
		t.Fatalf("expected %d rows, got %d", shots, len(out))
	}
	return out
}

func TestDeterministicSingleQubitOutcomes(t *testing.T) {
	tests := []struct {
		name  string
		gates []string
		want  bool
	}{
		{"ground state", nil, false},
		{"identity", []string{"I"}, false},
		{"X flips", []string{"X"}, true},
		{"Y flips", []string{"Y"}, true},
		{"Z preserves", []string{"Z"}, false},
		{"double Hadamard", []string{"H", "H"}, false},
		{"HZH is X", []string{"H", "Z", "H"}, true},
		{"HSSH is X", []string{"H", "S", "S", "H"}, true},
		{"sqrt X squared", []string{"SQRT_X", "SQRT_X"}, true},
		{"sqrt X cancels inverse", []string{"SQRT_X", "SQRT_X_DAG"}, false},
		{"four S is identity", []string{"S", "S", "S", "S"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, 1, 50, func(p *Program) {
				for _, g := range tt.gates {
					p.Append(g, 0)
				}
				p.Append("M", 0)
			})
			for s, row := range out {
				if len(row) != 1 || row[0] != tt.want {
					t.Fatalf("shot %d: got %v, want [%v]", s, row, tt.want)
				}
			}
		})
	}
}

func TestDeterministicTwoQubitOutcomes(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Program)
		want  []bool
	}{
		{
			"CX copies excitation",
			func(p *Program) { p.Append("X", 0); p.Append("CX", 0, 1) },
			[]bool{true, true},
		},
		{
			"CX idle control",
			func(p *Program) { p.Append("CX", 0, 1) },
			[]bool{false, false},
		},
		{
			"CY flips target",
			func(p *Program) { p.Append("X", 0); p.Append("CY", 0, 1) },
			[]bool{true, true},
		},
		{
			"CZ phases X basis target",
			func(p *Program) {
				p.Append("X", 0)
				p.Append("H", 1)
				p.Append("CZ", 0, 1)
				p.Append("H", 1)
			},
			[]bool{true, true},
		},
		{
			"CZ idle control leaves target",
			func(p *Program) {
				p.Append("H", 1)
				p.Append("CZ", 0, 1)
				p.Append("H", 1)
			},
			[]bool{false, false},
		},
		{
			"SWAP moves excitation",
			func(p *Program) { p.Append("X", 0); p.Append("SWAP", 0, 1) },
			[]bool{false, true},
		},
		{
			"ISWAP moves excitation",
			func(p *Program) { p.Append("X", 0); p.Append("ISWAP", 0, 1) },
			[]bool{false, true},
		},
		{
			"ISWAP both excited",
			func(p *Program) { p.Append("X", 0); p.Append("X", 1); p.Append("ISWAP", 0, 1) },
			[]bool{true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, 2, 50, func(p *Program) {
				tt.build(p)
				p.Append("M", 0)
				p.Append("M", 1)
			})
			for s, row := range out {
				if len(row) != len(tt.want) {
					t.Fatalf("shot %d: got %d outcomes, want %d", s, len(row), len(tt.want))
				}
				for i := range tt.want {
					if row[i] != tt.want[i] {
						t.Fatalf("shot %d: got %v, want %v", s, row, tt.want)
					}
				}
			}
		})
	}
}

func TestSuperpositionYieldsBothOutcomes(t *testing.T) {
	out := run(t, 1, 500, func(p *Program) {
		p.Append("H", 0)
		p.Append("M", 0)
	})

	ones := 0
	for _, row := range out {
		if row[0] {
			ones++
		}
	}
	if ones == 0 || ones == len(out) {
		t.Errorf("expected a mix of outcomes over %d shots, got %d ones", len(out), ones)
	}
	// A fair coin 500 times stays comfortably inside [150, 350]
	if ones < 150 || ones > 350 {
		t.Errorf("outcome counts badly skewed: %d ones of %d shots", ones, len(out))
	}
}

func TestBellPairCorrelated(t *testing.T) {
	out := run(t, 2, 300, func(p *Program) {
		p.Append("H", 0)
		p.Append("CX", 0, 1)
		p.Append("M", 0)
		p.Append("M", 1)
	})

	both := map[bool]int{}
	for s, row := range out {
		if row[0] != row[1] {
			t.Fatalf("shot %d: Bell pair outcomes disagree: %v", s, row)
		}
		both[row[0]]++
	}
	if both[false] == 0 || both[true] == 0 {
		t.Errorf("expected both correlated outcomes, got %v", both)
	}
}

func TestGHZAllAgree(t *testing.T) {
	out := run(t, 3, 200, func(p *Program) {
		p.Append("H", 0)
		p.Append("CX", 0, 1)
		p.Append("CX", 1, 2)
		p.Append("M", 0)
		p.Append("M", 1)
		p.Append("M", 2)
	})

	for s, row := range out {
		if row[0] != row[1] || row[1] != row[2] {
			t.Fatalf("shot %d: GHZ outcomes split: %v", s, row)
		}
	}
}

func TestResetClearsState(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Program)
	}{
		{"reset excited qubit", func(p *Program) { p.Append("X", 0); p.Append("R", 0) }},
		{"reset superposition", func(p *Program) { p.Append("H", 0); p.Append("R", 0) }},
		{"reset entangled half", func(p *Program) {
			p.Append("H", 0)
			p.Append("CX", 0, 1)
			p.Append("R", 0)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, 2, 100, func(p *Program) {
				tt.build(p)
				p.Append("M", 0)
			})
			for s, row := range out {
				if row[0] {
					t.Fatalf("shot %d: qubit measured 1 after reset", s)
				}
			}
		})
	}
}

func TestMeasurementCollapses(t *testing.T) {
	// Measuring the same qubit twice in a row must agree within each shot
	out := run(t, 1, 200, func(p *Program) {
		p.Append("H", 0)
		p.Append("M", 0)
		p.Append("M", 0)
	})
	for s, row := range out {
		if row[0] != row[1] {
			t.Fatalf("shot %d: repeated measurement changed outcome: %v", s, row)
		}
	}
}

func TestSeededEnginesReproduce(t *testing.T) {
	prog := NewProgram(2)
	prog.Append("H", 0)
	prog.Append("CX", 0, 1)
	prog.Append("M", 0)
	prog.Append("M", 1)

	a, err := NewEngineSeeded(99).Sample(prog, 200)
	if err != nil {
		t.Fatalf("first sample failed: %v", err)
	}
	b, err := NewEngineSeeded(99).Sample(prog, 200)
	if err != nil {
		t.Fatalf("second sample failed: %v", err)
	}

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different outcomes (-first +second):\n%s", diff)
	}
}

func TestSampleRejectsBadShotCounts(t *testing.T) {
	prog := NewProgram(1)
	prog.Append("M", 0)

	for _, shots := range []int{0, -1, -100} {
		if _, err := NewEngineSeeded(1).Sample(prog, shots); err == nil {
			t.Errorf("expected error for %d shots", shots)
		}
	}
}

func TestCompilePanicsOnMalformedPrograms(t *testing.T) {
	eng := NewEngineSeeded(1)

	tests := []struct {
		name  string
		build func(*Program)
	}{
		{"unknown instruction", func(p *Program) { p.Append("T", 0) }},
		{"target out of range", func(p *Program) { p.Append("H", 5) }},
		{"negative target", func(p *Program) { p.Append("M", -1) }},
		{"missing second target", func(p *Program) { p.Append("CX", 0) }},
		{"repeated target", func(p *Program) { p.Append("SWAP", 1, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := NewProgram(2)
			tt.build(prog)
			mustPanic(t, func() { _, _ = eng.Sample(prog, 1) })
		})
	}
}

func TestProgramAccessors(t *testing.T) {
	prog := NewProgram(3)
	prog.Append("H", 0)
	prog.Append("CX", 0, 1)
	prog.Append("M", 0)
	prog.Append("M", 2)

	if prog.NumQubits() != 3 {
		t.Errorf("expected 3 qubits, got %d", prog.NumQubits())
	}
	if prog.Len() != 4 {
		t.Errorf("expected 4 instructions, got %d", prog.Len())
	}
	if prog.NumMeasurements() != 2 {
		t.Errorf("expected 2 measurements, got %d", prog.NumMeasurements())
	}

	instrs := prog.Instructions()
	if instrs[1].String() != "CX 0 1" {
		t.Errorf("unexpected instruction string: %q", instrs[1].String())
	}

	// Returned slices must not alias internal state
	instrs[0].Name = "Z"
	if prog.Instructions()[0].Name != "H" {
		t.Error("Instructions exposes internal state")
	}
}

func BenchmarkSampleBellPair(b *testing.B) {
	prog := NewProgram(2)
	prog.Append("H", 0)
	prog.Append("CX", 0, 1)
	prog.Append("M", 0)
	prog.Append("M", 1)
	eng := NewEngineSeeded(42)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.Sample(prog, 100); err != nil {
			b.Fatal(err)
		}
	}
}
