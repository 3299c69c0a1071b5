package circuit

import "fmt"

// OpType identifies a circuit operation
type OpType int

const (
	// OpNoop is the identity operation on a single qubit
	OpNoop OpType = iota
	// OpX is the Pauli-X gate
	OpX
	// OpY is the Pauli-Y gate
	OpY
	// OpZ is the Pauli-Z gate
	OpZ
	// OpH is the Hadamard gate
	OpH
	// OpS is the phase gate (quarter turn about Z)
	OpS
	// OpSX is the square root of X
	OpSX
	// OpSXdg is the inverse square root of X
	OpSXdg
	// OpCX is the controlled-X gate
	OpCX
	// OpCY is the controlled-Y gate
	OpCY
	// OpCZ is the controlled-Z gate
	OpCZ
	// OpISwapMax swaps two qubits and phases the |01> and |10> states by i
	OpISwapMax
	// OpSwap swaps two qubits
	OpSwap
	// OpMeasure measures a qubit in the Z basis into a classical bit
	OpMeasure
	// OpReset returns a qubit to the |0> state
	OpReset
	// OpTK1 is the general single-qubit rotation Rz(a·π)·Rx(b·π)·Rz(c·π),
	// parameterized by three angles in half-turns
	OpTK1
	// OpRz is a rotation about the Z axis, angle in half-turns
	OpRz
	// OpRx is a rotation about the X axis, angle in half-turns
	OpRx
	// OpRy is a rotation about the Y axis, angle in half-turns
	OpRy
)

var opNames = [...]string{
	OpNoop:     "Noop",
	OpX:        "X",
	OpY:        "Y",
	OpZ:        "Z",
	OpH:        "H",
	OpS:        "S",
	OpSX:       "SX",
	OpSXdg:     "SXdg",
	OpCX:       "CX",
	OpCY:       "CY",
	OpCZ:       "CZ",
	OpISwapMax: "ISWAPMax",
	OpSwap:     "SWAP",
	OpMeasure:  "Measure",
	OpReset:    "Reset",
	OpTK1:      "TK1",
	OpRz:       "Rz",
	OpRx:       "Rx",
	OpRy:       "Ry",
}

func (t OpType) String() string {
	if !t.valid() {
		return fmt.Sprintf("OpType(%d)", int(t))
	}
	return opNames[t]
}

// signature fixes the operand shape of an operation type
type signature struct {
	qubits int
	bits   int
	params int
}

var signatures = [...]signature{
	OpNoop:     {1, 0, 0},
	OpX:        {1, 0, 0},
	OpY:        {1, 0, 0},
	OpZ:        {1, 0, 0},
	OpH:        {1, 0, 0},
	OpS:        {1, 0, 0},
	OpSX:       {1, 0, 0},
	OpSXdg:     {1, 0, 0},
	OpCX:       {2, 0, 0},
	OpCY:       {2, 0, 0},
	OpCZ:       {2, 0, 0},
	OpISwapMax: {2, 0, 0},
	OpSwap:     {2, 0, 0},
	OpMeasure:  {1, 1, 0},
	OpReset:    {1, 0, 0},
	OpTK1:      {1, 0, 3},
	OpRz:       {1, 0, 1},
	OpRx:       {1, 0, 1},
	OpRy:       {1, 0, 1},
}

func (t OpType) valid() bool {
	return t >= OpNoop && int(t) < len(opNames)
}

// NumQubits returns the number of qubit operands t acts on
func (t OpType) NumQubits() int {
	return signatures[t].qubits
}

// NumBits returns the number of classical bit operands t writes
func (t OpType) NumBits() int {
	return signatures[t].bits
}

// NumParams returns the number of angle parameters t carries
func (t OpType) NumParams() int {
	return signatures[t].params
}

// IsRotation reports whether t is a parameterized rotation that must be
// decomposed into Clifford gates before translation
func (t OpType) IsRotation() bool {
	return t == OpTK1 || t == OpRz || t == OpRx || t == OpRy
}
