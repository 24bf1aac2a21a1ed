package cpu

import "testing"

func TestDecode(t *testing.T) {
	tests := []struct {
		opcode uint16
		want   Instruction
	}{
		{0x00E0, Instruction{Op: OpCLS}},
		{0x00EE, Instruction{Op: OpRET}},
		{0x1ABC, Instruction{Op: OpJP, NNN: 0xABC}},
		{0x2246, Instruction{Op: OpCALL, NNN: 0x246}},
		{0x3A42, Instruction{Op: OpSEImm, X: 0xA, NN: 0x42}},
		{0x4B07, Instruction{Op: OpSNEImm, X: 0xB, NN: 0x07}},
		{0x51C0, Instruction{Op: OpSEReg, X: 0x1, Y: 0xC}},
		{0x5121, Instruction{Op: OpSEReg, X: 0x1, Y: 0x2}},
		{0x6F11, Instruction{Op: OpLDImm, X: 0xF, NN: 0x11}},
		{0x70FF, Instruction{Op: OpADDImm, X: 0x0, NN: 0xFF}},
		{0x8120, Instruction{Op: OpLDReg, X: 1, Y: 2}},
		{0x8121, Instruction{Op: OpOR, X: 1, Y: 2}},
		{0x8122, Instruction{Op: OpAND, X: 1, Y: 2}},
		{0x8123, Instruction{Op: OpXOR, X: 1, Y: 2}},
		{0x8124, Instruction{Op: OpADD, X: 1, Y: 2}},
		{0x8125, Instruction{Op: OpSUB, X: 1, Y: 2}},
		{0x8126, Instruction{Op: OpSHR, X: 1, Y: 2}},
		{0x8127, Instruction{Op: OpSUBN, X: 1, Y: 2}},
		{0x812E, Instruction{Op: OpSHL, X: 1, Y: 2}},
		{0x9DE0, Instruction{Op: OpSNEReg, X: 0xD, Y: 0xE}},
		{0x9AB3, Instruction{Op: OpSNEReg, X: 0xA, Y: 0xB}},
		{0xA123, Instruction{Op: OpLDI, NNN: 0x123}},
		{0xB300, Instruction{Op: OpJPV0, NNN: 0x300}},
		{0xC70F, Instruction{Op: OpRND, X: 7, NN: 0x0F}},
		{0xD125, Instruction{Op: OpDRW, X: 1, Y: 2, N: 5}},
		{0xE49E, Instruction{Op: OpSKP, X: 4}},
		{0xE5A1, Instruction{Op: OpSKNP, X: 5}},
		{0xF607, Instruction{Op: OpLDVxDT, X: 6}},
		{0xF70A, Instruction{Op: OpLDVxK, X: 7}},
		{0xF815, Instruction{Op: OpLDDTVx, X: 8}},
		{0xF918, Instruction{Op: OpLDSTVx, X: 9}},
		{0xFA1E, Instruction{Op: OpADDI, X: 0xA}},
		{0xFB29, Instruction{Op: OpLDF, X: 0xB}},
		{0xFC33, Instruction{Op: OpLDB, X: 0xC}},
		{0xFD55, Instruction{Op: OpLDIVx, X: 0xD}},
		{0xFE65, Instruction{Op: OpLDVxI, X: 0xE}},
	}

	for _, test := range tests {
		have, ok := Decode(test.opcode)
		if !ok {
			t.Errorf("Decode(%#04x) failed", test.opcode)
			continue
		}
		if have.Op != test.want.Op {
			t.Errorf("Decode(%#04x).Op\nwant:%v\nhave:%v", test.opcode, test.want.Op, have.Op)
		}
		if have.Opcode != test.opcode {
			t.Errorf("Decode(%#04x).Opcode = %#04x", test.opcode, have.Opcode)
		}

		switch test.want.Op {
		case OpJP, OpCALL, OpLDI, OpJPV0:
			if have.NNN != test.want.NNN {
				t.Errorf("Decode(%#04x).NNN\nwant:%#03x\nhave:%#03x", test.opcode, test.want.NNN, have.NNN)
			}
		case OpSEImm, OpSNEImm, OpLDImm, OpADDImm, OpRND:
			if have.X != test.want.X || have.NN != test.want.NN {
				t.Errorf("Decode(%#04x) X,NN\nwant:%x,%#02x\nhave:%x,%#02x",
					test.opcode, test.want.X, test.want.NN, have.X, have.NN)
			}
		case OpDRW:
			if have.X != test.want.X || have.Y != test.want.Y || have.N != test.want.N {
				t.Errorf("Decode(%#04x) X,Y,N\nwant:%x,%x,%x\nhave:%x,%x,%x",
					test.opcode, test.want.X, test.want.Y, test.want.N, have.X, have.Y, have.N)
			}
		case OpCLS, OpRET:
		default:
			if have.X != test.want.X {
				t.Errorf("Decode(%#04x).X\nwant:%x\nhave:%x", test.opcode, test.want.X, have.X)
			}
			// the E and F families keep their sub-selector in Y
			if test.want.Y != 0 && have.Y != test.want.Y {
				t.Errorf("Decode(%#04x).Y\nwant:%x\nhave:%x", test.opcode, test.want.Y, have.Y)
			}
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, opcode := range []uint16{
		0x0001, // family 0, low nibble neither 0 nor E
		0x00E5,
		0x8008,
		0x800F,
		0xE09F,
		0xE0A2,
		0xF000,
		0xF0FF,
		0xF066,
	} {
		if in, ok := Decode(opcode); ok {
			t.Errorf("Decode(%#04x) = %v, want failure", opcode, in.Op)
		}
	}
}

func TestInstructionString(t *testing.T) {
	tests := map[uint16]string{
		0x00E0: "cls",
		0x1234: "jp 0x234",
		0x6A05: "ld va, 0x05",
		0x8AB4: "add va, vb",
		0xD015: "drw v0, v1, 5",
		0xF30A: "ld v3, k",
		0xF255: "ld [i], v2",
	}

	for opcode, want := range tests {
		in, _ := Decode(opcode)
		if have := in.String(); have != want {
			t.Errorf("Decode(%#04x).String()\nwant:%q\nhave:%q", opcode, want, have)
		}
	}
}
