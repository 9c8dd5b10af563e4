// Package insts provides the instruction model and trace parsing.
//
// A trace is a sequence of lines of the form:
//
//	<opcode> <operands>:<mem_addr>
//
// The memory address after the colon is present on every line but only
// meaningful for loads and stores, where it drives store-to-load
// aliasing. Operands come in two shapes: the three-register form
// (arithmetic, branches) and the memory form `reg, offset(base)`.
//
// Usage:
//
//	parser := insts.NewParser()
//	trace, err := parser.Parse(os.Stdin)
package insts

// Kind classifies an instruction by the functional-unit class it needs.
type Kind uint8

// Instruction kinds.
const (
	KindUnknown Kind = iota
	KindLoad
	KindStore
	KindFPAdd
	KindFPSub
	KindFPMul
	KindFPDiv
	KindIntAdd
	KindIntSub
	KindBranch
)

// KindOf maps an opcode mnemonic to its kind.
func KindOf(opcode string) Kind {
	switch opcode {
	case "lw", "flw":
		return KindLoad
	case "sw", "fsw":
		return KindStore
	case "fadd.s":
		return KindFPAdd
	case "fsub.s":
		return KindFPSub
	case "fmul.s":
		return KindFPMul
	case "fdiv.s":
		return KindFPDiv
	case "add":
		return KindIntAdd
	case "sub":
		return KindIntSub
	case "beq", "bne":
		return KindBranch
	default:
		return KindUnknown
	}
}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLoad:
		return "LOAD"
	case KindStore:
		return "STORE"
	case KindFPAdd:
		return "FP_ADD"
	case KindFPSub:
		return "FP_SUB"
	case KindFPMul:
		return "FP_MUL"
	case KindFPDiv:
		return "FP_DIV"
	case KindIntAdd:
		return "INT_ADD"
	case KindIntSub:
		return "INT_SUB"
	case KindBranch:
		return "BRANCH"
	default:
		return "UNKNOWN"
	}
}

// AccessesMemory reports whether the instruction uses the data memory port.
func (k Kind) AccessesMemory() bool {
	return k == KindLoad || k == KindStore
}

// WritesBack reports whether the instruction uses the result bus.
// Stores and branches produce no register result and skip write-back.
func (k Kind) WritesBack() bool {
	return k != KindStore && k != KindBranch
}

// NoCycle marks a stage timestamp that has not happened.
const NoCycle = -1

// Instruction is one trace line plus the cycle numbers at which it
// passed each pipeline stage. The parsed fields are fixed after
// parsing; the cycle fields are filled in by the pipeline model.
type Instruction struct {
	// Raw is the original trace text, echoed in the timing table.
	Raw    string
	Opcode string
	Kind   Kind

	// Dest is the destination register; empty for stores and branches.
	Dest string
	// Src1 is the first source register. For stores it names the value
	// to be written to memory (the data source, consumed at commit).
	Src1 string
	// Src2 is the second source register. For stores it names the
	// address base (consumed when the effective address is computed).
	Src2 string
	// MemAddr is the annotated memory address. It is never
	// dereferenced; loads and stores alias when their addresses match.
	MemAddr int

	IssueCycle        int
	ExecStartCycle    int
	ExecCompleteCycle int
	MemReadCycle      int
	WriteBackCycle    int
	CommitCycle       int
}

// NewInstruction returns an Instruction with all stage timestamps unset.
func NewInstruction(raw, opcode string) *Instruction {
	return &Instruction{
		Raw:               raw,
		Opcode:            opcode,
		Kind:              KindOf(opcode),
		MemAddr:           0,
		IssueCycle:        NoCycle,
		ExecStartCycle:    NoCycle,
		ExecCompleteCycle: NoCycle,
		MemReadCycle:      NoCycle,
		WriteBackCycle:    NoCycle,
		CommitCycle:       NoCycle,
	}
}
