package circuit

import (
	"fmt"
	"math"

	"github.com/jaskrrish/Go-QStab/internal/models/stab"
)

// Register names used by New
const (
	DefaultQubitRegister = "q"
	DefaultBitRegister   = "c"
)

// Qubit identifies a single qubit by register name and index
type Qubit struct {
	Register string
	Index    int
}

func (q Qubit) String() string {
	return fmt.Sprintf("%s[%d]", q.Register, q.Index)
}

// Bit identifies a single classical bit by register name and index
type Bit struct {
	Register string
	Index    int
}

func (b Bit) String() string {
	return fmt.Sprintf("%s[%d]", b.Register, b.Index)
}

// Operation is a single gate application or non-unitary step in a circuit
type Operation struct {
	Type   OpType
	Params []float64
	Qubits []Qubit
	Bits   []Bit
}

// Circuit is an ordered sequence of operations over declared qubit and
// classical bit registers, plus a global phase in half-turns. Operations
// enter a circuit only through Append and the gate methods, so a circuit
// never holds an operation with a malformed operand list.
type Circuit struct {
	name     string
	qubits   []Qubit
	bits     []Bit
	qubitPos map[Qubit]int
	bitPos   map[Bit]int
	ops      []Operation
	phase    float64
}

// New creates a circuit with numQubits qubits in register "q" and numBits
// classical bits in register "c"
func New(numQubits, numBits int) *Circuit {
	circ := &Circuit{
		qubitPos: make(map[Qubit]int),
		bitPos:   make(map[Bit]int),
	}
	if numQubits > 0 {
		circ.AddQubitRegister(DefaultQubitRegister, numQubits)
	}
	if numBits > 0 {
		circ.AddBitRegister(DefaultBitRegister, numBits)
	}
	return circ
}

// SetName sets a human-readable name for the circuit
func (circ *Circuit) SetName(name string) *Circuit {
	circ.name = name
	return circ
}

// Name returns the circuit's name
func (circ *Circuit) Name() string {
	return circ.name
}

// AddQubitRegister declares size qubits reg[0] .. reg[size-1], appended to
// the circuit's qubit order. Panics if the register already exists.
func (circ *Circuit) AddQubitRegister(reg string, size int) *Circuit {
	if size < 0 {
		panic(fmt.Sprintf("qubit register %q has negative size %d", reg, size))
	}
	if _, exists := circ.qubitPos[Qubit{Register: reg, Index: 0}]; exists {
		panic(fmt.Sprintf("qubit register %q already declared", reg))
	}
	for i := 0; i < size; i++ {
		q := Qubit{Register: reg, Index: i}
		circ.qubitPos[q] = len(circ.qubits)
		circ.qubits = append(circ.qubits, q)
	}
	return circ
}

// AddBitRegister declares size classical bits reg[0] .. reg[size-1], appended
// to the circuit's bit order. Panics if the register already exists.
func (circ *Circuit) AddBitRegister(reg string, size int) *Circuit {
	if size < 0 {
		panic(fmt.Sprintf("bit register %q has negative size %d", reg, size))
	}
	if _, exists := circ.bitPos[Bit{Register: reg, Index: 0}]; exists {
		panic(fmt.Sprintf("bit register %q already declared", reg))
	}
	for i := 0; i < size; i++ {
		b := Bit{Register: reg, Index: i}
		circ.bitPos[b] = len(circ.bits)
		circ.bits = append(circ.bits, b)
	}
	return circ
}

// NumQubits returns the number of declared qubits
func (circ *Circuit) NumQubits() int {
	return len(circ.qubits)
}

// NumBits returns the number of declared classical bits
func (circ *Circuit) NumBits() int {
	return len(circ.bits)
}

// Qubits returns the declared qubits in declaration order
func (circ *Circuit) Qubits() []Qubit {
	out := make([]Qubit, len(circ.qubits))
	copy(out, circ.qubits)
	return out
}

// Bits returns the declared classical bits in declaration order
func (circ *Circuit) Bits() []Bit {
	out := make([]Bit, len(circ.bits))
	copy(out, circ.bits)
	return out
}

// QubitIndex returns the declaration position of q
func (circ *Circuit) QubitIndex(q Qubit) (int, bool) {
	pos, ok := circ.qubitPos[q]
	return pos, ok
}

// BitIndex returns the declaration position of b
func (circ *Circuit) BitIndex(b Bit) (int, bool) {
	pos, ok := circ.bitPos[b]
	return pos, ok
}

// Operations returns the operation sequence in append order
func (circ *Circuit) Operations() []Operation {
	out := make([]Operation, len(circ.ops))
	copy(out, circ.ops)
	return out
}

// NumOperations returns the number of appended operations
func (circ *Circuit) NumOperations() int {
	return len(circ.ops)
}

// Phase returns the global phase in half-turns, in [0, 2)
func (circ *Circuit) Phase() float64 {
	return circ.phase
}

// AddPhase adds halfTurns to the global phase, wrapping into [0, 2)
func (circ *Circuit) AddPhase(halfTurns float64) *Circuit {
	circ.phase = math.Mod(circ.phase+halfTurns, 2)
	if circ.phase < 0 {
		circ.phase += 2
	}
	return circ
}

// EmptyCopy returns a circuit with the same name, declarations and global
// phase but no operations
func (circ *Circuit) EmptyCopy() *Circuit {
	out := &Circuit{
		name:     circ.name,
		qubits:   make([]Qubit, len(circ.qubits)),
		bits:     make([]Bit, len(circ.bits)),
		qubitPos: make(map[Qubit]int, len(circ.qubitPos)),
		bitPos:   make(map[Bit]int, len(circ.bitPos)),
		phase:    circ.phase,
	}
	copy(out.qubits, circ.qubits)
	copy(out.bits, circ.bits)
	for q, pos := range circ.qubitPos {
		out.qubitPos[q] = pos
	}
	for b, pos := range circ.bitPos {
		out.bitPos[b] = pos
	}
	return out
}

// Append validates operands against t's signature and appends the operation.
// All qubit and bit operands must be declared in the circuit, and qubit
// operands must be distinct.
func (circ *Circuit) Append(t OpType, params []float64, qubits []Qubit, bits []Bit) error {
	if !t.valid() {
		return fmt.Errorf("unknown operation type %d", int(t))
	}
	if len(qubits) != t.NumQubits() {
		return fmt.Errorf("%s expects %d qubit operands, got %d: %w",
			t, t.NumQubits(), len(qubits), stab.ErrArityMismatch)
	}
	if len(bits) != t.NumBits() {
		return fmt.Errorf("%s expects %d bit operands, got %d: %w",
			t, t.NumBits(), len(bits), stab.ErrArityMismatch)
	}
	if len(params) != t.NumParams() {
		return fmt.Errorf("%s expects %d parameters, got %d: %w",
			t, t.NumParams(), len(params), stab.ErrArityMismatch)
	}

	for i, q := range qubits {
		if _, ok := circ.qubitPos[q]; !ok {
			return fmt.Errorf("qubit %s is not declared in the circuit", q)
		}
		for _, prev := range qubits[:i] {
			if prev == q {
				return fmt.Errorf("%s operands must be distinct, qubit %s repeated", t, q)
			}
		}
	}
	for _, b := range bits {
		if _, ok := circ.bitPos[b]; !ok {
			return fmt.Errorf("bit %s is not declared in the circuit", b)
		}
	}

	op := Operation{Type: t}
	if len(params) > 0 {
		op.Params = make([]float64, len(params))
		copy(op.Params, params)
	}
	if len(qubits) > 0 {
		op.Qubits = make([]Qubit, len(qubits))
		copy(op.Qubits, qubits)
	}
	if len(bits) > 0 {
		op.Bits = make([]Bit, len(bits))
		copy(op.Bits, bits)
	}
	circ.ops = append(circ.ops, op)
	return nil
}

// mustAppend backs the gate methods, which only fail on programmer error
func (circ *Circuit) mustAppend(t OpType, params []float64, qubits []Qubit, bits []Bit) *Circuit {
	if err := circ.Append(t, params, qubits, bits); err != nil {
		panic(err)
	}
	return circ
}

func (circ *Circuit) qubitAt(i int) Qubit {
	if i < 0 || i >= len(circ.qubits) {
		panic(fmt.Sprintf("qubit index %d out of range, circuit has %d qubits", i, len(circ.qubits)))
	}
	return circ.qubits[i]
}

func (circ *Circuit) bitAt(i int) Bit {
	if i < 0 || i >= len(circ.bits) {
		panic(fmt.Sprintf("bit index %d out of range, circuit has %d bits", i, len(circ.bits)))
	}
	return circ.bits[i]
}

// Noop applies the identity to qubit q
func (circ *Circuit) Noop(q int) *Circuit {
	return circ.mustAppend(OpNoop, nil, []Qubit{circ.qubitAt(q)}, nil)
}

// X applies the Pauli-X gate to qubit q
func (circ *Circuit) X(q int) *Circuit {
	return circ.mustAppend(OpX, nil, []Qubit{circ.qubitAt(q)}, nil)
}

// Y applies the Pauli-Y gate to qubit q
func (circ *Circuit) Y(q int) *Circuit {
	return circ.mustAppend(OpY, nil, []Qubit{circ.qubitAt(q)}, nil)
}

// Z applies the Pauli-Z gate to qubit q
func (circ *Circuit) Z(q int) *Circuit {
	return circ.mustAppend(OpZ, nil, []Qubit{circ.qubitAt(q)}, nil)
}

// H applies the Hadamard gate to qubit q
func (circ *Circuit) H(q int) *Circuit {
	return circ.mustAppend(OpH, nil, []Qubit{circ.qubitAt(q)}, nil)
}

// S applies the phase gate to qubit q
func (circ *Circuit) S(q int) *Circuit {
	return circ.mustAppend(OpS, nil, []Qubit{circ.qubitAt(q)}, nil)
}

// SX applies the square root of X to qubit q
func (circ *Circuit) SX(q int) *Circuit {
	return circ.mustAppend(OpSX, nil, []Qubit{circ.qubitAt(q)}, nil)
}

// SXdg applies the inverse square root of X to qubit q
func (circ *Circuit) SXdg(q int) *Circuit {
	return circ.mustAppend(OpSXdg, nil, []Qubit{circ.qubitAt(q)}, nil)
}

// CX applies a controlled-X with control ctl and target tgt
func (circ *Circuit) CX(ctl, tgt int) *Circuit {
	return circ.mustAppend(OpCX, nil, []Qubit{circ.qubitAt(ctl), circ.qubitAt(tgt)}, nil)
}

// CY applies a controlled-Y with control ctl and target tgt
func (circ *Circuit) CY(ctl, tgt int) *Circuit {
	return circ.mustAppend(OpCY, nil, []Qubit{circ.qubitAt(ctl), circ.qubitAt(tgt)}, nil)
}

// CZ applies a controlled-Z between qubits a and b
func (circ *Circuit) CZ(a, b int) *Circuit {
	return circ.mustAppend(OpCZ, nil, []Qubit{circ.qubitAt(a), circ.qubitAt(b)}, nil)
}

// ISwapMax applies the maximal ISWAP gate between qubits a and b
func (circ *Circuit) ISwapMax(a, b int) *Circuit {
	return circ.mustAppend(OpISwapMax, nil, []Qubit{circ.qubitAt(a), circ.qubitAt(b)}, nil)
}

// Swap exchanges qubits a and b
func (circ *Circuit) Swap(a, b int) *Circuit {
	return circ.mustAppend(OpSwap, nil, []Qubit{circ.qubitAt(a), circ.qubitAt(b)}, nil)
}

// Measure measures qubit q in the Z basis into classical bit b
func (circ *Circuit) Measure(q, b int) *Circuit {
	return circ.mustAppend(OpMeasure, nil, []Qubit{circ.qubitAt(q)}, []Bit{circ.bitAt(b)})
}

// Reset returns qubit q to the |0> state
func (circ *Circuit) Reset(q int) *Circuit {
	return circ.mustAppend(OpReset, nil, []Qubit{circ.qubitAt(q)}, nil)
}

// TK1 applies Rz(a·π)·Rx(b·π)·Rz(c·π) to qubit q, angles in half-turns
func (circ *Circuit) TK1(a, b, c float64, q int) *Circuit {
	return circ.mustAppend(OpTK1, []float64{a, b, c}, []Qubit{circ.qubitAt(q)}, nil)
}

// Rz rotates qubit q about the Z axis by a half-turns
func (circ *Circuit) Rz(a float64, q int) *Circuit {
	return circ.mustAppend(OpRz, []float64{a}, []Qubit{circ.qubitAt(q)}, nil)
}

// Rx rotates qubit q about the X axis by a half-turns
func (circ *Circuit) Rx(a float64, q int) *Circuit {
	return circ.mustAppend(OpRx, []float64{a}, []Qubit{circ.qubitAt(q)}, nil)
}

// Ry rotates qubit q about the Y axis by a half-turns
func (circ *Circuit) Ry(a float64, q int) *Circuit {
	return circ.mustAppend(OpRy, []float64{a}, []Qubit{circ.qubitAt(q)}, nil)
}
