package sim

import "fmt"

// Instruction is one primitive stabilizer operation: an instruction name and
// the qubit indices it acts on, in operand order
type Instruction struct {
	Name    string
	Targets []int
}

func (ins Instruction) String() string {
	s := ins.Name
	for _, t := range ins.Targets {
		s += fmt.Sprintf(" %d", t)
	}
	return s
}

// Program is an append-only stream of primitive instructions over a fixed
// number of qubits. A translator builds the stream in circuit order and the
// executor consumes it once per sampling call.
type Program struct {
	numQubits int
	instrs    []Instruction
}

// NewProgram creates an empty program over numQubits qubits
func NewProgram(numQubits int) *Program {
	if numQubits < 0 {
		panic(fmt.Sprintf("program cannot have %d qubits", numQubits))
	}
	return &Program{numQubits: numQubits}
}

// NumQubits returns the number of qubits the program addresses
func (p *Program) NumQubits() int {
	return p.numQubits
}

// Len returns the number of appended instructions
func (p *Program) Len() int {
	return len(p.instrs)
}

// Append adds an instruction to the end of the stream
func (p *Program) Append(name string, targets ...int) {
	ins := Instruction{Name: name}
	if len(targets) > 0 {
		ins.Targets = make([]int, len(targets))
		copy(ins.Targets, targets)
	}
	p.instrs = append(p.instrs, ins)
}

// Instructions returns the instruction stream in append order
func (p *Program) Instructions() []Instruction {
	out := make([]Instruction, len(p.instrs))
	copy(out, p.instrs)
	return out
}

// NumMeasurements counts the measurement instructions in the stream, which
// is the width of each sampled outcome row
func (p *Program) NumMeasurements() int {
	n := 0
	for _, ins := range p.instrs {
		if ins.Name == "M" {
			n++
		}
	}
	return n
}
