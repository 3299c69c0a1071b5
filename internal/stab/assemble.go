package stab

import (
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/jaskrrish/Go-QStab/internal/models/stab"
	"github.com/jaskrrish/Go-QStab/internal/stab/circuit"
)

// Result is the sampled outcome table for one circuit: one row per shot,
// one column per declared classical bit, columns in declaration order.
// Immutable once assembled; accessors return copies.
type Result struct {
	bits []circuit.Bit
	rows [][]bool
}

// assemble reorders the raw outcome matrix from ledger order into declared
// bit order. Every declared bit must appear in the ledger exactly once; a
// bit no measurement wrote is ErrUnmappedOutput.
func assemble(declared []circuit.Bit, ledger []circuit.Bit, raw [][]bool) (*Result, error) {
	ledgerPos := make(map[circuit.Bit]int, len(ledger))
	for i, b := range ledger {
		ledgerPos[b] = i
	}

	// Column permutation from declared position to ledger position
	perm := make([]int, len(declared))
	for i, b := range declared {
		pos, ok := ledgerPos[b]
		if !ok {
			return nil, fmt.Errorf("bit %s: %w", b, stab.ErrUnmappedOutput)
		}
		perm[i] = pos
	}

	res := &Result{
		bits: make([]circuit.Bit, len(declared)),
		rows: make([][]bool, len(raw)),
	}
	copy(res.bits, declared)
	for s, shot := range raw {
		row := make([]bool, len(declared))
		for i, pos := range perm {
			row[i] = shot[pos]
		}
		res.rows[s] = row
	}
	return res, nil
}

// NumShots returns the number of sampled trials
func (res *Result) NumShots() int {
	return len(res.rows)
}

// NumBits returns the number of declared classical bits per row
func (res *Result) NumBits() int {
	return len(res.bits)
}

// Bits returns the classical bits labelling the columns, in declaration
// order
func (res *Result) Bits() []circuit.Bit {
	out := make([]circuit.Bit, len(res.bits))
	copy(out, res.bits)
	return out
}

// Shot returns the outcome row of trial i
func (res *Result) Shot(i int) []bool {
	if i < 0 || i >= len(res.rows) {
		panic(fmt.Sprintf("shot index %d out of range, result has %d shots", i, len(res.rows)))
	}
	out := make([]bool, len(res.rows[i]))
	copy(out, res.rows[i])
	return out
}

// Counts histograms the shots by outcome bitstring. Keys read left to right
// in declared bit order, "0" for false and "1" for true.
func (res *Result) Counts() map[string]int {
	counts := make(map[string]int)
	buf := make([]byte, len(res.bits))
	for _, row := range res.rows {
		for i, v := range row {
			if v {
				buf[i] = '1'
			} else {
				buf[i] = '0'
			}
		}
		counts[string(buf)]++
	}
	return counts
}

// Digest returns a SHA3-256 fingerprint of the outcome table, covering its
// dimensions and every cell in row-major order. Two results are
// byte-identical exactly when their digests match.
func (res *Result) Digest() [32]byte {
	h := sha3.New256()
	fmt.Fprintf(h, "%d,%d;", len(res.rows), len(res.bits))
	buf := make([]byte, len(res.bits))
	for _, row := range res.rows {
		for i, v := range row {
			if v {
				buf[i] = 1
			} else {
				buf[i] = 0
			}
		}
		h.Write(buf)
	}
	var sum [32]byte
	h.Sum(sum[:0])
	return sum
}
