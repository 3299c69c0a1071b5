// Package stab runs gate-level circuits on a stabilizer simulator: it
// lowers a circuit to a primitive instruction stream, samples the stream
// for a number of shots, and reassembles the raw outcomes into the declared
// classical bit order.
package stab

import (
	"fmt"

	"github.com/jaskrrish/Go-QStab/internal/models/stab"
	"github.com/jaskrrish/Go-QStab/internal/stab/circuit"
	"github.com/jaskrrish/Go-QStab/internal/stab/sim"
)

// primitives maps each supported operation type to its stabilizer
// instruction name. The vocabulary is closed: nothing is added at runtime,
// and any operation outside it fails translation.
var primitives = map[circuit.OpType]string{
	circuit.OpNoop:     "I",
	circuit.OpX:        "X",
	circuit.OpY:        "Y",
	circuit.OpZ:        "Z",
	circuit.OpH:        "H",
	circuit.OpS:        "S",
	circuit.OpSX:       "SQRT_X",
	circuit.OpSXdg:     "SQRT_X_DAG",
	circuit.OpCX:       "CX",
	circuit.OpCY:       "CY",
	circuit.OpCZ:       "CZ",
	circuit.OpISwapMax: "ISWAP",
	circuit.OpSwap:     "SWAP",
	circuit.OpMeasure:  "M",
	circuit.OpReset:    "R",
}

// translation pairs a lowered instruction stream with the ledger recording
// which classical bit each measurement instruction writes, in emission order
type translation struct {
	prog   *sim.Program
	ledger []circuit.Bit
}

// translate lowers circ into a stabilizer program in one pass over the
// operation sequence, preserving operation order exactly. Qubit operands
// resolve to their declaration positions. Measurements append their bit
// operand to the ledger; measuring into a bit that already holds a result
// is ErrMeasurementOverwritten.
func translate(circ *circuit.Circuit) (*translation, error) {
	ops := circ.Operations()

	// Reject out-of-vocabulary operations before emitting anything
	for _, op := range ops {
		if _, ok := primitives[op.Type]; !ok {
			return nil, fmt.Errorf("operation %s: %w", op.Type, stab.ErrUnsupportedGate)
		}
	}

	tr := &translation{prog: sim.NewProgram(circ.NumQubits())}
	written := make(map[circuit.Bit]struct{})

	for _, op := range ops {
		targets := make([]int, len(op.Qubits))
		for i, q := range op.Qubits {
			pos, ok := circ.QubitIndex(q)
			if !ok {
				panic(fmt.Sprintf("qubit %s in operation stream but not declared", q))
			}
			targets[i] = pos
		}

		tr.prog.Append(primitives[op.Type], targets...)

		if op.Type == circuit.OpMeasure {
			bit := op.Bits[0]
			if _, dup := written[bit]; dup {
				return nil, fmt.Errorf("bit %s: %w", bit, stab.ErrMeasurementOverwritten)
			}
			written[bit] = struct{}{}
			tr.ledger = append(tr.ledger, bit)
		}
	}
	return tr, nil
}

// sample runs the translated program on exec for the given number of shots.
// The executor is invoked exactly once; it returns a shots × len(ledger)
// outcome matrix with columns in ledger order.
func sample(exec sim.Executor, tr *translation, shots int) ([][]bool, error) {
	raw, err := exec.Sample(tr.prog, shots)
	if err != nil {
		return nil, fmt.Errorf("sampling %d shots: %w", shots, err)
	}
	return raw, nil
}
