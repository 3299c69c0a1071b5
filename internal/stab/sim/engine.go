package sim

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"
)

// Executor runs a compiled stabilizer program for a number of independent
// shots and returns a shots × measurements outcome matrix. Column order is
// the order measurement instructions appear in the program; row order is
// trial order.
type Executor interface {
	Sample(prog *Program, shots int) ([][]bool, error)
}

// Engine is an in-process stabilizer simulator implementing Executor. It
// tracks circuit state as a tableau of Pauli generators, so each gate costs
// O(n) and each measurement O(n²) in the qubit count, never exponential.
type Engine struct {
	rng *mrand.Rand
}

// NewEngine creates an engine seeded from the operating system's entropy
// source
func NewEngine() *Engine {
	var buf [16]byte
	if _, err := crand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("failed to seed engine: %v", err))
	}
	return &Engine{
		rng: mrand.New(mrand.NewPCG(
			binary.LittleEndian.Uint64(buf[:8]),
			binary.LittleEndian.Uint64(buf[8:]),
		)),
	}
}

// NewEngineSeeded creates an engine with a fixed seed for reproducible
// sampling
func NewEngineSeeded(seed uint64) *Engine {
	return &Engine{rng: mrand.New(mrand.NewPCG(seed, seed))}
}

// Sample compiles prog and runs it shots times, returning one boolean row
// of measurement outcomes per shot
func (e *Engine) Sample(prog *Program, shots int) ([][]bool, error) {
	if prog == nil {
		panic("sample called with nil program")
	}
	if shots < 1 {
		return nil, fmt.Errorf("cannot sample %d shots, need at least 1", shots)
	}

	steps := compile(prog)
	width := prog.NumMeasurements()

	out := make([][]bool, shots)
	for s := 0; s < shots; s++ {
		tab := newTableau(prog.NumQubits())
		row := make([]bool, 0, width)
		for _, st := range steps {
			switch st.kind {
			case stepH:
				tab.hadamard(st.a)
			case stepS:
				tab.phase(st.a)
			case stepCX:
				tab.cnot(st.a, st.b)
			case stepX:
				tab.flipX(st.a)
			case stepY:
				tab.flipY(st.a)
			case stepZ:
				tab.flipZ(st.a)
			case stepMeasure:
				row = append(row, tab.measure(st.a, e.rng))
			case stepReset:
				if tab.measure(st.a, e.rng) {
					tab.flipX(st.a)
				}
			}
		}
		out[s] = row
	}
	return out, nil
}

type stepKind int

const (
	stepH stepKind = iota
	stepS
	stepCX
	stepX
	stepY
	stepZ
	stepMeasure
	stepReset
)

// step is one tableau update; a and b are qubit indices (b only for stepCX)
type step struct {
	kind stepKind
	a    int
	b    int
}

// compile lowers the instruction stream into tableau update steps, expanding
// derived gates into the H/S/CX/Pauli base set. A malformed program is a
// translator bug, so validation failures panic rather than return an error.
func compile(prog *Program) []step {
	n := prog.NumQubits()
	steps := make([]step, 0, prog.Len())

	one := func(ins Instruction) int {
		if len(ins.Targets) != 1 {
			panic(fmt.Sprintf("instruction %q targets %d qubits, expected 1", ins.Name, len(ins.Targets)))
		}
		q := ins.Targets[0]
		if q < 0 || q >= n {
			panic(fmt.Sprintf("instruction %q targets qubit %d, program has %d", ins.Name, q, n))
		}
		return q
	}
	two := func(ins Instruction) (int, int) {
		if len(ins.Targets) != 2 {
			panic(fmt.Sprintf("instruction %q targets %d qubits, expected 2", ins.Name, len(ins.Targets)))
		}
		a, b := ins.Targets[0], ins.Targets[1]
		if a < 0 || a >= n || b < 0 || b >= n {
			panic(fmt.Sprintf("instruction %q targets qubits %d,%d, program has %d", ins.Name, a, b, n))
		}
		if a == b {
			panic(fmt.Sprintf("instruction %q targets qubit %d twice", ins.Name, a))
		}
		return a, b
	}

	for _, ins := range prog.Instructions() {
		switch ins.Name {
		case "I":
			one(ins)
		case "X":
			steps = append(steps, step{kind: stepX, a: one(ins)})
		case "Y":
			steps = append(steps, step{kind: stepY, a: one(ins)})
		case "Z":
			steps = append(steps, step{kind: stepZ, a: one(ins)})
		case "H":
			steps = append(steps, step{kind: stepH, a: one(ins)})
		case "S":
			steps = append(steps, step{kind: stepS, a: one(ins)})
		case "SQRT_X":
			// H·S·H equals √X up to global phase
			q := one(ins)
			steps = append(steps,
				step{kind: stepH, a: q},
				step{kind: stepS, a: q},
				step{kind: stepH, a: q})
		case "SQRT_X_DAG":
			// S† is three applications of S
			q := one(ins)
			steps = append(steps,
				step{kind: stepH, a: q},
				step{kind: stepS, a: q},
				step{kind: stepS, a: q},
				step{kind: stepS, a: q},
				step{kind: stepH, a: q})
		case "CX":
			a, b := two(ins)
			steps = append(steps, step{kind: stepCX, a: a, b: b})
		case "CY":
			// CY = S_t · CX · S_t†
			a, b := two(ins)
			steps = append(steps,
				step{kind: stepS, a: b},
				step{kind: stepS, a: b},
				step{kind: stepS, a: b},
				step{kind: stepCX, a: a, b: b},
				step{kind: stepS, a: b})
		case "CZ":
			// CZ = H_t · CX · H_t
			a, b := two(ins)
			steps = append(steps,
				step{kind: stepH, a: b},
				step{kind: stepCX, a: a, b: b},
				step{kind: stepH, a: b})
		case "SWAP":
			a, b := two(ins)
			steps = append(steps,
				step{kind: stepCX, a: a, b: b},
				step{kind: stepCX, a: b, b: a},
				step{kind: stepCX, a: a, b: b})
		case "ISWAP":
			// ISWAP = SWAP · CZ · (S ⊗ S)
			a, b := two(ins)
			steps = append(steps,
				step{kind: stepS, a: a},
				step{kind: stepS, a: b},
				step{kind: stepH, a: b},
				step{kind: stepCX, a: a, b: b},
				step{kind: stepH, a: b},
				step{kind: stepCX, a: a, b: b},
				step{kind: stepCX, a: b, b: a},
				step{kind: stepCX, a: a, b: b})
		case "M":
			steps = append(steps, step{kind: stepMeasure, a: one(ins)})
		case "R":
			steps = append(steps, step{kind: stepReset, a: one(ins)})
		default:
			panic(fmt.Sprintf("unknown stabilizer instruction %q", ins.Name))
		}
	}
	return steps
}

// tableau holds 2n+1 Pauli generator rows over n qubits: rows [0,n) are
// destabilizers, rows [n,2n) stabilizers, row 2n is measurement scratch.
// Row i encodes the Pauli with X-part x[i], Z-part z[i] and sign (-1)^r[i].
type tableau struct {
	n int
	x [][]bool
	z [][]bool
	r []bool
}

// newTableau returns the |0…0⟩ state: destabilizer i is X_i, stabilizer i
// is Z_i, all signs positive
func newTableau(n int) *tableau {
	rows := 2*n + 1
	tab := &tableau{
		n: n,
		x: make([][]bool, rows),
		z: make([][]bool, rows),
		r: make([]bool, rows),
	}
	for i := range tab.x {
		tab.x[i] = make([]bool, n)
		tab.z[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		tab.x[i][i] = true
		tab.z[n+i][i] = true
	}
	return tab
}

func (tab *tableau) hadamard(q int) {
	for i := 0; i < 2*tab.n; i++ {
		if tab.x[i][q] && tab.z[i][q] {
			tab.r[i] = !tab.r[i]
		}
		tab.x[i][q], tab.z[i][q] = tab.z[i][q], tab.x[i][q]
	}
}

func (tab *tableau) phase(q int) {
	for i := 0; i < 2*tab.n; i++ {
		if tab.x[i][q] && tab.z[i][q] {
			tab.r[i] = !tab.r[i]
		}
		tab.z[i][q] = tab.z[i][q] != tab.x[i][q]
	}
}

func (tab *tableau) cnot(ctl, tgt int) {
	for i := 0; i < 2*tab.n; i++ {
		if tab.x[i][ctl] && tab.z[i][tgt] && (tab.x[i][tgt] == tab.z[i][ctl]) {
			tab.r[i] = !tab.r[i]
		}
		tab.x[i][tgt] = tab.x[i][tgt] != tab.x[i][ctl]
		tab.z[i][ctl] = tab.z[i][ctl] != tab.z[i][tgt]
	}
}

// flipX conjugates by X: rows anticommuting with X_q (those with a Z
// component on q) flip sign
func (tab *tableau) flipX(q int) {
	for i := 0; i < 2*tab.n; i++ {
		if tab.z[i][q] {
			tab.r[i] = !tab.r[i]
		}
	}
}

func (tab *tableau) flipY(q int) {
	for i := 0; i < 2*tab.n; i++ {
		if tab.x[i][q] != tab.z[i][q] {
			tab.r[i] = !tab.r[i]
		}
	}
}

func (tab *tableau) flipZ(q int) {
	for i := 0; i < 2*tab.n; i++ {
		if tab.x[i][q] {
			tab.r[i] = !tab.r[i]
		}
	}
}

// phaseExp returns the power of i picked up when the Pauli (x1,z1) is
// multiplied by (x2,z2) on one qubit, in {-1, 0, 1}
func phaseExp(x1, z1, x2, z2 bool) int {
	switch {
	case !x1 && !z1:
		return 0
	case x1 && z1: // Y
		switch {
		case z2 && !x2:
			return 1
		case x2 && !z2:
			return -1
		}
		return 0
	case x1: // X
		switch {
		case z2 && x2:
			return 1
		case z2:
			return -1
		}
		return 0
	default: // Z
		switch {
		case x2 && !z2:
			return 1
		case x2 && z2:
			return -1
		}
		return 0
	}
}

// rowmul multiplies row src into row dst, tracking the resulting sign. The
// product of two commuting generator rows always has a real sign, so the
// accumulated i-exponent is 0 or 2 mod 4.
func (tab *tableau) rowmul(dst, src int) {
	sum := 0
	if tab.r[dst] {
		sum += 2
	}
	if tab.r[src] {
		sum += 2
	}
	for q := 0; q < tab.n; q++ {
		sum += phaseExp(tab.x[src][q], tab.z[src][q], tab.x[dst][q], tab.z[dst][q])
	}
	tab.r[dst] = ((sum%4)+4)%4 == 2
	for q := 0; q < tab.n; q++ {
		tab.x[dst][q] = tab.x[dst][q] != tab.x[src][q]
		tab.z[dst][q] = tab.z[dst][q] != tab.z[src][q]
	}
}

// measure performs a Z-basis measurement of qubit q, collapsing the state
// and returning the outcome
func (tab *tableau) measure(q int, rng *mrand.Rand) bool {
	// A stabilizer anticommuting with Z_q means the outcome is random
	p := -1
	for i := tab.n; i < 2*tab.n; i++ {
		if tab.x[i][q] {
			p = i
			break
		}
	}

	if p >= 0 {
		for i := 0; i < 2*tab.n; i++ {
			if i != p && tab.x[i][q] {
				tab.rowmul(i, p)
			}
		}
		// The old stabilizer row becomes the destabilizer of the new Z_q
		copy(tab.x[p-tab.n], tab.x[p])
		copy(tab.z[p-tab.n], tab.z[p])
		tab.r[p-tab.n] = tab.r[p]

		for j := 0; j < tab.n; j++ {
			tab.x[p][j] = false
			tab.z[p][j] = false
		}
		tab.z[p][q] = true
		tab.r[p] = rng.IntN(2) == 1
		return tab.r[p]
	}

	// Deterministic outcome: reconstruct ±Z_q in the scratch row from the
	// stabilizers whose destabilizer partners anticommute with Z_q
	s := 2 * tab.n
	for j := 0; j < tab.n; j++ {
		tab.x[s][j] = false
		tab.z[s][j] = false
	}
	tab.r[s] = false
	for i := 0; i < tab.n; i++ {
		if tab.x[i][q] {
			tab.rowmul(s, i+tab.n)
		}
	}
	return tab.r[s]
}
