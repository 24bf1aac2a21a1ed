package cpu

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// DefaultBatchSize is the number of instructions run per 60 Hz tick.
const DefaultBatchSize = 10

type Config struct {
	// StackDepth is the number of nested calls allowed. Zero means 16.
	StackDepth int
	// Seed for the RND instruction. Zero seeds from the clock.
	Seed   int64
	Logger *slog.Logger
}

// EMU is the instruction interpreter. It owns its Machine exclusively and
// is not safe for concurrent use.
type EMU struct {
	m        *Machine
	rng      *rand.Rand
	log      *slog.Logger
	awaiting int   // register waiting for a key press, -1 when running
	halted   error // first execution error, returned by every later batch
}

func NewEMU(cfg Config) *EMU {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	emu := &EMU{
		m:   NewMachine(cfg.StackDepth),
		rng: rand.New(rand.NewSource(seed)),
		log: logger,
	}
	emu.Reset()
	return emu
}

// Reset returns the machine to its power-on state with the font loaded.
func (emu *EMU) Reset() {
	emu.m.Reset()
	emu.m.LoadFont(FontSet)
	emu.awaiting = -1
	emu.halted = nil
}

func (emu *EMU) LoadProgram(rom []byte) error {
	return emu.m.LoadProgram(rom)
}

// RunBatch executes up to n instruction cycles and then decrements both
// timers once. A pending key wait ends the batch early without error; the
// timers still tick.
func (emu *EMU) RunBatch(n int) error {
	if emu.halted != nil {
		return emu.halted
	}

	for i := 0; i < n; i++ {
		if emu.awaiting >= 0 {
			if !emu.resumeKeyWait() {
				break
			}
			continue
		}
		if err := emu.cycle(); err != nil {
			emu.halted = err
			return err
		}
	}

	emu.tickTimers()
	return nil
}

func (emu *EMU) cycle() error {
	pc := emu.m.PC
	opcode := uint16(emu.m.read(pc))<<8 | uint16(emu.m.read(pc+1))

	in, ok := Decode(opcode)
	if !ok {
		return &DecodeError{Opcode: opcode, PC: pc}
	}

	if emu.log.Enabled(context.Background(), slog.LevelDebug) {
		emu.log.Debug(
			"exec",
			"pc", fmt.Sprintf("0x%03x", pc),
			"opcode", fmt.Sprintf("0x%04x", opcode),
			"instr", in.String(),
		)
	}

	return emu.execute(in)
}

func (emu *EMU) tickTimers() {
	if emu.m.DelayTimer > 0 {
		emu.m.DelayTimer--
	}
	if emu.m.SoundTimer > 0 {
		emu.m.SoundTimer--
	}
}

// resumeKeyWait completes a pending LD Vx, K once any key is down, storing
// the lowest pressed key index.
func (emu *EMU) resumeKeyWait() bool {
	for key, pressed := range emu.m.Keys {
		if pressed {
			emu.m.V[emu.awaiting] = uint8(key)
			emu.awaiting = -1
			emu.m.PC += 2
			return true
		}
	}
	return false
}

// SetInputState latches the state of one logical key. Keys outside 0..15
// are ignored.
func (emu *EMU) SetInputState(key int, pressed bool) {
	if key < 0 || key >= len(emu.m.Keys) {
		return
	}
	emu.m.Keys[key] = pressed
}

func (emu *EMU) SoundActive() bool {
	return emu.m.SoundTimer > 0
}

// FramebufferSnapshot returns a copy of the display.
func (emu *EMU) FramebufferSnapshot() Framebuffer {
	return emu.m.Display
}

// Waiting reports whether execution is suspended on a key press.
func (emu *EMU) Waiting() bool {
	return emu.awaiting >= 0
}

// Halted returns the error that stopped execution, if any.
func (emu *EMU) Halted() error {
	return emu.halted
}
