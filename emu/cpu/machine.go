package cpu

const (
	MemorySize   = 4096
	ProgramStart = 0x200
	MaxRomSize   = MemorySize - ProgramStart

	FontStart = 0x000
	GlyphSize = 5

	// the canonical architecture allows 16 nested calls
	DefaultStackDepth = 16
	MaxStackDepth     = 256

	flag = 0xF
)

var FontSet = [80]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

const fontEnd = FontStart + len(FontSet)

// Machine is the complete mutable state of one emulation session.
type Machine struct {
	Memory     [MemorySize]uint8
	V          [16]uint8
	I          uint16 //address register
	PC         uint16
	Stack      []uint16
	SP         int
	DelayTimer uint8 //counts down once per batch
	SoundTimer uint8 //same as above, beeps while nonzero
	Display    Framebuffer
	Keys       [16]bool //tells whether key is pressed or not
}

// NewMachine returns a zeroed machine whose call stack holds depth return
// addresses. A depth outside 1..MaxStackDepth falls back to the default.
func NewMachine(depth int) *Machine {
	if depth <= 0 || depth > MaxStackDepth {
		depth = DefaultStackDepth
	}
	m := &Machine{Stack: make([]uint16, depth)}
	m.Reset()
	return m
}

// Reset zeroes every field and points PC at the program region.
func (m *Machine) Reset() {
	m.Memory = [MemorySize]uint8{}
	m.V = [16]uint8{}
	m.I = 0
	m.PC = ProgramStart
	for i := range m.Stack {
		m.Stack[i] = 0
	}
	m.SP = 0
	m.DelayTimer = 0
	m.SoundTimer = 0
	m.Display.Clear()
	m.Keys = [16]bool{}
}

func (m *Machine) LoadFont(glyphs [80]uint8) {
	copy(m.Memory[FontStart:], glyphs[:])
}

// LoadProgram copies rom verbatim into the program region.
func (m *Machine) LoadProgram(rom []byte) error {
	if len(rom) > MaxRomSize {
		return &LoadError{Size: len(rom), Available: MaxRomSize}
	}
	copy(m.Memory[ProgramStart:], rom)
	return nil
}

func (m *Machine) read(addr uint16) uint8 {
	return m.Memory[addr&(MemorySize-1)]
}

// write drops stores into the glyph table, which stays fixed for the session.
func (m *Machine) write(addr uint16, value uint8) bool {
	addr &= MemorySize - 1
	if int(addr) < fontEnd {
		return false
	}
	m.Memory[addr] = value
	return true
}

func (m *Machine) push(addr uint16) error {
	if m.SP >= len(m.Stack) {
		return &StackOverflowError{Depth: len(m.Stack), PC: m.PC}
	}
	m.Stack[m.SP] = addr
	m.SP++
	return nil
}

func (m *Machine) pop() (uint16, error) {
	if m.SP == 0 {
		return 0, &StackUnderflowError{PC: m.PC}
	}
	m.SP--
	return m.Stack[m.SP], nil
}
