package cpu

type handler func(emu *EMU, in Instruction) error

var handlers = [...]handler{
	OpCLS:    cls,
	OpRET:    ret,
	OpJP:     jp,
	OpCALL:   call,
	OpSEImm:  seImm,
	OpSNEImm: sneImm,
	OpSEReg:  seReg,
	OpLDImm:  ldImm,
	OpADDImm: addImm,
	OpLDReg:  alu,
	OpOR:     alu,
	OpAND:    alu,
	OpXOR:    alu,
	OpADD:    alu,
	OpSUB:    alu,
	OpSHR:    alu,
	OpSUBN:   alu,
	OpSHL:    alu,
	OpSNEReg: sneReg,
	OpLDI:    ldI,
	OpJPV0:   jpV0,
	OpRND:    rnd,
	OpDRW:    drw,
	OpSKP:    skp,
	OpSKNP:   sknp,
	OpLDVxDT: ldVxDT,
	OpLDVxK:  ldVxK,
	OpLDDTVx: ldDTVx,
	OpLDSTVx: ldSTVx,
	OpADDI:   addI,
	OpLDF:    ldF,
	OpLDB:    ldB,
	OpLDIVx:  store,
	OpLDVxI:  load,
}

func (emu *EMU) execute(in Instruction) error {
	if int(in.Op) >= len(handlers) || handlers[in.Op] == nil {
		return &DecodeError{Opcode: in.Opcode, PC: emu.m.PC}
	}
	return handlers[in.Op](emu, in)
}

func (emu *EMU) next() {
	emu.m.PC += 2
}

func (emu *EMU) skipIf(cond bool) {
	if cond {
		emu.m.PC += 4
	} else {
		emu.m.PC += 2
	}
}

// 00E0
func cls(emu *EMU, in Instruction) error {
	emu.m.Display.Clear()
	emu.next()
	return nil
}

// 00EE resumes after the CALL that pushed the address
func ret(emu *EMU, in Instruction) error {
	addr, err := emu.m.pop()
	if err != nil {
		return err
	}
	emu.m.PC = addr + 2
	return nil
}

// 1NNN
func jp(emu *EMU, in Instruction) error {
	emu.m.PC = in.NNN
	return nil
}

// 2NNN pushes the address of the CALL itself
func call(emu *EMU, in Instruction) error {
	if err := emu.m.push(emu.m.PC); err != nil {
		return err
	}
	emu.m.PC = in.NNN
	return nil
}

// 3XNN
func seImm(emu *EMU, in Instruction) error {
	emu.skipIf(emu.m.V[in.X] == in.NN)
	return nil
}

// 4XNN
func sneImm(emu *EMU, in Instruction) error {
	emu.skipIf(emu.m.V[in.X] != in.NN)
	return nil
}

// 5XY0
func seReg(emu *EMU, in Instruction) error {
	emu.skipIf(emu.m.V[in.X] == emu.m.V[in.Y])
	return nil
}

// 9XY0
func sneReg(emu *EMU, in Instruction) error {
	emu.skipIf(emu.m.V[in.X] != emu.m.V[in.Y])
	return nil
}

// 6XNN
func ldImm(emu *EMU, in Instruction) error {
	emu.m.V[in.X] = in.NN
	emu.next()
	return nil
}

// 7XNN wraps without touching VF
func addImm(emu *EMU, in Instruction) error {
	emu.m.V[in.X] += in.NN
	emu.next()
	return nil
}

// 8XYn. The result is written before VF so the flag wins when X is F.
func alu(emu *EMU, in Instruction) error {
	vx := emu.m.V[in.X]
	vy := emu.m.V[in.Y]

	var result uint8
	setFlag := true
	var f uint8

	switch in.Op {
	case OpLDReg:
		result, setFlag = vy, false
	case OpOR:
		result, setFlag = vx|vy, false
	case OpAND:
		result, setFlag = vx&vy, false
	case OpXOR:
		result, setFlag = vx^vy, false
	case OpADD:
		sum := uint16(vx) + uint16(vy)
		result = uint8(sum)
		f = boolToFlag(sum > 0xFF)
	case OpSUB:
		result = vx - vy
		f = boolToFlag(vx >= vy)
	case OpSHR:
		result = vx >> 1
		f = vx & 0x01
	case OpSUBN:
		result = vy - vx
		f = boolToFlag(vy >= vx)
	case OpSHL:
		result = vx << 1
		f = vx >> 7
	}

	emu.m.V[in.X] = result
	if setFlag {
		emu.m.V[flag] = f
	}
	emu.next()
	return nil
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// ANNN
func ldI(emu *EMU, in Instruction) error {
	emu.m.I = in.NNN
	emu.next()
	return nil
}

// BNNN
func jpV0(emu *EMU, in Instruction) error {
	emu.m.PC = in.NNN + uint16(emu.m.V[0])
	return nil
}

// CXNN
func rnd(emu *EMU, in Instruction) error {
	emu.m.V[in.X] = uint8(emu.rng.Intn(256)) & in.NN
	emu.next()
	return nil
}

// DXYN draws N rows from memory at I. The origin wraps onto the screen and
// so does every pixel of the sprite.
func drw(emu *EMU, in Instruction) error {
	x := int(emu.m.V[in.X]) % Width
	y := int(emu.m.V[in.Y]) % Height

	collision := false
	for row := 0; row < int(in.N); row++ {
		sprite := emu.m.read(emu.m.I + uint16(row))
		if emu.m.Display.xorSprite(x, y+row, sprite) {
			collision = true
		}
	}

	emu.m.V[flag] = boolToFlag(collision)
	emu.next()
	return nil
}

// EX9E
func skp(emu *EMU, in Instruction) error {
	emu.skipIf(emu.m.Keys[emu.m.V[in.X]&0xF])
	return nil
}

// EXA1
func sknp(emu *EMU, in Instruction) error {
	emu.skipIf(!emu.m.Keys[emu.m.V[in.X]&0xF])
	return nil
}

// FX07
func ldVxDT(emu *EMU, in Instruction) error {
	emu.m.V[in.X] = emu.m.DelayTimer
	emu.next()
	return nil
}

// FX0A suspends on this instruction; RunBatch resumes it once a key is down.
func ldVxK(emu *EMU, in Instruction) error {
	emu.awaiting = int(in.X)
	return nil
}

// FX15
func ldDTVx(emu *EMU, in Instruction) error {
	emu.m.DelayTimer = emu.m.V[in.X]
	emu.next()
	return nil
}

// FX18
func ldSTVx(emu *EMU, in Instruction) error {
	emu.m.SoundTimer = emu.m.V[in.X]
	emu.next()
	return nil
}

// FX1E leaves VF alone
func addI(emu *EMU, in Instruction) error {
	emu.m.I += uint16(emu.m.V[in.X])
	emu.next()
	return nil
}

// FX29
func ldF(emu *EMU, in Instruction) error {
	emu.m.I = FontStart + GlyphSize*uint16(emu.m.V[in.X]&0xF)
	emu.next()
	return nil
}

// FX33
func ldB(emu *EMU, in Instruction) error {
	v := emu.m.V[in.X]
	emu.writeMem(emu.m.I, v/100)
	emu.writeMem(emu.m.I+1, (v/10)%10)
	emu.writeMem(emu.m.I+2, v%10)
	emu.next()
	return nil
}

// FX55, I is left unchanged
func store(emu *EMU, in Instruction) error {
	for i := uint16(0); i <= uint16(in.X); i++ {
		emu.writeMem(emu.m.I+i, emu.m.V[i])
	}
	emu.next()
	return nil
}

// FX65, I is left unchanged
func load(emu *EMU, in Instruction) error {
	for i := uint16(0); i <= uint16(in.X); i++ {
		emu.m.V[i] = emu.m.read(emu.m.I + i)
	}
	emu.next()
	return nil
}

func (emu *EMU) writeMem(addr uint16, value uint8) {
	if !emu.m.write(addr, value) {
		emu.log.Debug("write to font region ignored", "addr", addr, "pc", emu.m.PC)
	}
}
