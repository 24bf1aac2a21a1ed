package cpu

import "fmt"

// A LoadError is returned when a program does not fit in the program region.
type LoadError struct {
	Size      int
	Available int
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("ROM too big: %d bytes, program region holds %d", e.Size, e.Available)
}

// A DecodeError is returned when the fetched opcode matches no instruction.
type DecodeError struct {
	Opcode uint16
	PC     uint16
}

// Offset is the position of the bad instruction relative to the program start.
func (e *DecodeError) Offset() int {
	return int(e.PC) - ProgramStart
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%04x at offset 0x%x", e.Opcode, e.Offset())
}

type StackOverflowError struct {
	Depth int
	PC    uint16
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow: more than %d nested calls at 0x%03x", e.Depth, e.PC)
}

type StackUnderflowError struct {
	PC uint16
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("stack underflow: return with empty stack at 0x%03x", e.PC)
}
