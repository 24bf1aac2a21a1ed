package cpu

import "fmt"

// Op identifies one instruction of the architecture.
type Op uint8

const (
	OpInvalid Op = iota
	OpCLS
	OpRET
	OpJP
	OpCALL
	OpSEImm
	OpSNEImm
	OpSEReg
	OpLDImm
	OpADDImm
	OpLDReg
	OpOR
	OpAND
	OpXOR
	OpADD
	OpSUB
	OpSHR
	OpSUBN
	OpSHL
	OpSNEReg
	OpLDI
	OpJPV0
	OpRND
	OpDRW
	OpSKP
	OpSKNP
	OpLDVxDT
	OpLDVxK
	OpLDDTVx
	OpLDSTVx
	OpADDI
	OpLDF
	OpLDB
	OpLDIVx
	OpLDVxI
)

var opNames = [...]string{
	OpInvalid: "???",
	OpCLS:     "cls",
	OpRET:     "ret",
	OpJP:      "jp",
	OpCALL:    "call",
	OpSEImm:   "se",
	OpSNEImm:  "sne",
	OpSEReg:   "se",
	OpLDImm:   "ld",
	OpADDImm:  "add",
	OpLDReg:   "ld",
	OpOR:      "or",
	OpAND:     "and",
	OpXOR:     "xor",
	OpADD:     "add",
	OpSUB:     "sub",
	OpSHR:     "shr",
	OpSUBN:    "subn",
	OpSHL:     "shl",
	OpSNEReg:  "sne",
	OpLDI:     "ld",
	OpJPV0:    "jp",
	OpRND:     "rnd",
	OpDRW:     "drw",
	OpSKP:     "skp",
	OpSKNP:    "sknp",
	OpLDVxDT:  "ld",
	OpLDVxK:   "ld",
	OpLDDTVx:  "ld",
	OpLDSTVx:  "ld",
	OpADDI:    "add",
	OpLDF:     "ld",
	OpLDB:     "ld",
	OpLDIVx:   "ld",
	OpLDVxI:   "ld",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return opNames[OpInvalid]
}

// Instruction is a decoded opcode with its operand fields extracted.
type Instruction struct {
	Opcode uint16
	Op     Op
	X      uint8  // _X__
	Y      uint8  // __Y_
	N      uint8  // ___N
	NN     uint8  // __NN
	NNN    uint16 // _NNN
}

// Decode splits opcode into its family and operands. The bool result is
// false when no instruction matches.
func Decode(opcode uint16) (Instruction, bool) {
	in := Instruction{
		Opcode: opcode,
		X:      uint8((opcode & 0x0F00) >> 8),
		Y:      uint8((opcode & 0x00F0) >> 4),
		N:      uint8(opcode & 0x000F),
		NN:     uint8(opcode & 0x00FF),
		NNN:    opcode & 0x0FFF,
	}
	in.Op = decodeOp(opcode, in.N, in.NN)
	return in, in.Op != OpInvalid
}

func decodeOp(opcode uint16, n, nn uint8) Op {
	switch opcode >> 12 {
	case 0x0:
		switch n {
		case 0x0:
			return OpCLS
		case 0xE:
			return OpRET
		}
	case 0x1:
		return OpJP
	case 0x2:
		return OpCALL
	case 0x3:
		return OpSEImm
	case 0x4:
		return OpSNEImm
	case 0x5:
		// the low nibble is not checked, 5XY1 runs as 5XY0
		return OpSEReg
	case 0x6:
		return OpLDImm
	case 0x7:
		return OpADDImm
	case 0x8:
		switch n {
		case 0x0:
			return OpLDReg
		case 0x1:
			return OpOR
		case 0x2:
			return OpAND
		case 0x3:
			return OpXOR
		case 0x4:
			return OpADD
		case 0x5:
			return OpSUB
		case 0x6:
			return OpSHR
		case 0x7:
			return OpSUBN
		case 0xE:
			return OpSHL
		}
	case 0x9:
		return OpSNEReg
	case 0xA:
		return OpLDI
	case 0xB:
		return OpJPV0
	case 0xC:
		return OpRND
	case 0xD:
		return OpDRW
	case 0xE:
		switch nn {
		case 0x9E:
			return OpSKP
		case 0xA1:
			return OpSKNP
		}
	case 0xF:
		switch nn {
		case 0x07:
			return OpLDVxDT
		case 0x0A:
			return OpLDVxK
		case 0x15:
			return OpLDDTVx
		case 0x18:
			return OpLDSTVx
		case 0x1E:
			return OpADDI
		case 0x29:
			return OpLDF
		case 0x33:
			return OpLDB
		case 0x55:
			return OpLDIVx
		case 0x65:
			return OpLDVxI
		}
	}
	return OpInvalid
}

// String renders the instruction in assembler-like form for trace logs.
func (in Instruction) String() string {
	switch in.Op {
	case OpCLS, OpRET:
		return in.Op.String()
	case OpJP, OpCALL:
		return fmt.Sprintf("%s 0x%03x", in.Op, in.NNN)
	case OpSEImm, OpSNEImm, OpLDImm, OpADDImm:
		return fmt.Sprintf("%s v%x, 0x%02x", in.Op, in.X, in.NN)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADD, OpSUB, OpSHR, OpSUBN, OpSHL:
		return fmt.Sprintf("%s v%x, v%x", in.Op, in.X, in.Y)
	case OpLDI:
		return fmt.Sprintf("ld i, 0x%03x", in.NNN)
	case OpJPV0:
		return fmt.Sprintf("jp v0, 0x%03x", in.NNN)
	case OpRND:
		return fmt.Sprintf("rnd v%x, 0x%02x", in.X, in.NN)
	case OpDRW:
		return fmt.Sprintf("drw v%x, v%x, %d", in.X, in.Y, in.N)
	case OpSKP, OpSKNP:
		return fmt.Sprintf("%s v%x", in.Op, in.X)
	case OpLDVxDT:
		return fmt.Sprintf("ld v%x, dt", in.X)
	case OpLDVxK:
		return fmt.Sprintf("ld v%x, k", in.X)
	case OpLDDTVx:
		return fmt.Sprintf("ld dt, v%x", in.X)
	case OpLDSTVx:
		return fmt.Sprintf("ld st, v%x", in.X)
	case OpADDI:
		return fmt.Sprintf("add i, v%x", in.X)
	case OpLDF:
		return fmt.Sprintf("ld f, v%x", in.X)
	case OpLDB:
		return fmt.Sprintf("ld b, v%x", in.X)
	case OpLDIVx:
		return fmt.Sprintf("ld [i], v%x", in.X)
	case OpLDVxI:
		return fmt.Sprintf("ld v%x, [i]", in.X)
	}
	return fmt.Sprintf("??? 0x%04x", in.Opcode)
}
