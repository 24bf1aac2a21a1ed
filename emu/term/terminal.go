// Package term is a frontend for plain terminals. It draws with half-block
// characters and 24-bit colour, two display rows per text row.
package term

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/beanboi7/chyp8/emu/capture"
	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/host"
)

// KeyHold is how long a key counts as down after its last byte arrives.
// Terminals report presses and auto-repeat but never releases.
const KeyHold = time.Second / 5

const (
	keyEscape = 0x1b
	keyCtrlC  = 0x03
	keyPause  = 'p'
	keyShot   = ' '
)

const (
	escHome       = "\x1b[H"
	escClear      = "\x1b[2J"
	escHideCursor = "\x1b[?25l"
	escShowCursor = "\x1b[?25h"
	escReset      = "\x1b[0m"
	upperHalf     = "▀"
)

type Terminal struct {
	out     io.Writer
	input   chan byte
	keys    map[byte]int
	seen    [16]time.Time
	now     func() time.Time
	palette capture.Palette
	frame   bytes.Buffer
	restore func() error
}

// New reads key bytes from in on a goroutine and draws to out. It does not
// change the terminal mode; see Open.
func New(in io.Reader, out io.Writer, keys [16]rune, pal capture.Palette) *Terminal {
	t := newTerminal(out, keys, pal)
	if in != nil {
		go t.read(in)
	}
	return t
}

func newTerminal(out io.Writer, keys [16]rune, pal capture.Palette) *Terminal {
	keyMap := make(map[byte]int, len(keys))
	for i, r := range keys {
		keyMap[byte(r)] = i
	}
	return &Terminal{
		out:     out,
		input:   make(chan byte, 64),
		keys:    keyMap,
		now:     time.Now,
		palette: pal,
	}
}

// Open puts the terminal on fd into raw mode and clears it. Close undoes
// both.
func (t *Terminal) Open(fd int) error {
	restore, err := MakeRaw(fd)
	if err != nil {
		return err
	}
	t.restore = restore
	_, err = io.WriteString(t.out, escHideCursor+escClear)
	return err
}

func (t *Terminal) Close() error {
	if _, err := io.WriteString(t.out, escReset+escShowCursor+"\r\n"); err != nil {
		return err
	}
	if t.restore == nil {
		return nil
	}
	return t.restore()
}

func (t *Terminal) read(in io.Reader) {
	buf := make([]byte, 16)
	for {
		n, err := in.Read(buf)
		for _, b := range buf[:n] {
			t.input <- b
		}
		if err != nil {
			close(t.input)
			return
		}
	}
}

// Poll drains pending input. A lone Escape or Ctrl-C quits, p pauses and
// space takes a screenshot, unless the key is bound to a machine key.
// Escape sequences from arrow and function keys are skipped.
func (t *Terminal) Poll(keys *[16]bool) host.Command {
	now := t.now()
	cmd := host.None

	pending, closed := t.drain()
	if closed {
		cmd = host.Quit
	}

	for i := 0; i < len(pending); i++ {
		b := pending[i]
		if key, bound := t.keys[b]; bound {
			t.seen[key] = now
			continue
		}
		switch b {
		case keyEscape:
			if i+1 < len(pending) {
				i = skipSequence(pending, i+1)
				continue
			}
			cmd = host.Quit
		case keyCtrlC:
			cmd = host.Quit
		case keyPause:
			if cmd == host.None {
				cmd = host.Pause
			}
		case keyShot:
			if cmd == host.None {
				cmd = host.Screenshot
			}
		}
	}

	for i := range keys {
		keys[i] = !t.seen[i].IsZero() && now.Sub(t.seen[i]) < KeyHold
	}
	return cmd
}

// drain returns every byte already read without blocking.
func (t *Terminal) drain() ([]byte, bool) {
	var pending []byte
	for {
		select {
		case b, ok := <-t.input:
			if !ok {
				return pending, true
			}
			pending = append(pending, b)
		default:
			return pending, false
		}
	}
}

// skipSequence returns the index of the last byte of the escape sequence
// whose first byte after ESC is buf[i]. CSI sequences end on a byte in
// 0x40..0x7e, SS3 sequences after one more byte, and ESC plus any other
// byte is an Alt chord.
func skipSequence(buf []byte, i int) int {
	switch buf[i] {
	case '[':
		for i++; i < len(buf); i++ {
			if buf[i] >= 0x40 && buf[i] <= 0x7e {
				return i
			}
		}
		return len(buf) - 1
	case 'O':
		if i+1 < len(buf) {
			return i + 1
		}
	}
	return i
}

// Draw repaints the whole display from the top-left corner.
func (t *Terminal) Draw(fb *cpu.Framebuffer) error {
	t.frame.Reset()
	t.frame.WriteString(escHome)

	for y := 0; y < cpu.Height; y += 2 {
		var fg, bg color.RGBA
		first := true
		for x := 0; x < cpu.Width; x++ {
			top, bottom := t.colour(fb.Lit(x, y)), t.colour(fb.Lit(x, y+1))
			if first || top != fg {
				fmt.Fprintf(&t.frame, "\x1b[38;2;%d;%d;%dm", top.R, top.G, top.B)
				fg = top
			}
			if first || bottom != bg {
				fmt.Fprintf(&t.frame, "\x1b[48;2;%d;%d;%dm", bottom.R, bottom.G, bottom.B)
				bg = bottom
			}
			first = false
			t.frame.WriteString(upperHalf)
		}
		t.frame.WriteString(escReset + "\r\n")
	}

	_, err := t.out.Write(t.frame.Bytes())
	return err
}

func (t *Terminal) colour(lit bool) color.RGBA {
	if lit {
		return t.palette.Lit
	}
	return t.palette.Unlit
}
