// Package clifford decomposes arbitrary single-qubit rotations into the
// generator gates S and H, rejecting rotations that fall outside the
// Clifford group.
package clifford

import (
	"fmt"
	"math"

	"github.com/jaskrrish/Go-QStab/internal/models/stab"
	"github.com/jaskrrish/Go-QStab/internal/stab/circuit"
)

// Angle tolerance for recognizing a quarter-turn multiple: a doubled angle y
// is accepted as the integer n when |y - n| <= atol + rtol·|n|
const (
	atol = 1e-8
	rtol = 1e-5
)

// quarterTurns converts an angle in half-turns to a whole number of quarter
// turns reduced into [0, 8), the order of the single-qubit generator group
func quarterTurns(halfTurns float64) (int, error) {
	y := 2 * halfTurns
	n := math.Round(y)
	if math.Abs(y-n) > atol+rtol*math.Abs(n) {
		return 0, fmt.Errorf("angle %v half-turns: %w", halfTurns, stab.ErrNonCliffordAngle)
	}
	m := int(n) % 8
	if m < 0 {
		m += 8
	}
	return m, nil
}

// Decompose expresses the rotation Rz(a·π)·Rx(b·π)·Rz(c·π) as a one-qubit
// circuit of S and H gates. The returned fragment carries a global phase
// correction so its unitary equals the rotation exactly, not merely up to
// phase. Angles are in half-turns; an angle that is not a multiple of a
// quarter turn within tolerance yields ErrNonCliffordAngle.
func Decompose(a, b, c float64) (*circuit.Circuit, error) {
	na, err := quarterTurns(a)
	if err != nil {
		return nil, err
	}
	nb, err := quarterTurns(b)
	if err != nil {
		return nil, err
	}
	nc, err := quarterTurns(c)
	if err != nil {
		return nil, err
	}

	frag := circuit.New(1, 0)
	for i := 0; i < nc; i++ {
		frag.S(0)
	}
	// H·S·H is a quarter turn about X, so nb of them realize Rx(b·π)
	for i := 0; i < nb; i++ {
		frag.H(0).S(0).H(0)
	}
	for i := 0; i < na; i++ {
		frag.S(0)
	}
	// Each S and H·S·H contributes e^{iπ/4} relative to the bare rotation
	frag.AddPhase(-0.25 * float64(na+nb+nc))
	return frag, nil
}

// tk1Params maps the single-angle rotation sugar onto the three-angle form
// Rz(a·π)·Rx(b·π)·Rz(c·π)
func tk1Params(op circuit.Operation) (a, b, c float64) {
	switch op.Type {
	case circuit.OpTK1:
		return op.Params[0], op.Params[1], op.Params[2]
	case circuit.OpRz:
		return 0, 0, op.Params[0]
	case circuit.OpRx:
		return 0, op.Params[0], 0
	case circuit.OpRy:
		return 0.5, op.Params[0], -0.5
	}
	panic(fmt.Sprintf("operation %s is not a rotation", op.Type))
}

// Rebase returns a copy of circ with every parameterized rotation replaced
// by its Decompose fragment, accumulating the fragments' phase corrections
// into the circuit's global phase. Non-rotation operations are copied
// unchanged in their original order. The result contains only operations a
// stabilizer translator accepts.
func Rebase(circ *circuit.Circuit) (*circuit.Circuit, error) {
	out := circ.EmptyCopy()
	for _, op := range circ.Operations() {
		if !op.Type.IsRotation() {
			if err := out.Append(op.Type, op.Params, op.Qubits, op.Bits); err != nil {
				return nil, err
			}
			continue
		}

		a, b, c := tk1Params(op)
		frag, err := Decompose(a, b, c)
		if err != nil {
			return nil, fmt.Errorf("rotation %s on %s: %w", op.Type, op.Qubits[0], err)
		}
		target := op.Qubits
		for _, g := range frag.Operations() {
			if err := out.Append(g.Type, nil, target, nil); err != nil {
				return nil, err
			}
		}
		out.AddPhase(frag.Phase())
	}
	return out, nil
}
