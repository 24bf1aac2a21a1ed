package cpu

const (
	Width  = 64
	Height = 32
)

// Framebuffer is the 64x32 monochrome display, indexed [y][x].
type Framebuffer [Height][Width]bool

func (fb *Framebuffer) Clear() {
	*fb = Framebuffer{}
}

func (fb *Framebuffer) Lit(x, y int) bool {
	return fb[y][x]
}

// LitCount returns the number of lit pixels.
func (fb *Framebuffer) LitCount() int {
	n := 0
	for y := range fb {
		for x := range fb[y] {
			if fb[y][x] {
				n++
			}
		}
	}
	return n
}

// xorSprite XORs one 8-pixel sprite row onto the display starting at (x, y).
// Pixels past the right or bottom edge wrap around. Reports whether a lit
// pixel was turned off.
func (fb *Framebuffer) xorSprite(x, y int, row uint8) bool {
	collision := false
	y %= Height
	for col := 0; col < 8; col++ {
		if row&(0x80>>col) == 0 {
			continue
		}
		px := (x + col) % Width
		if fb[y][px] {
			collision = true
		}
		fb[y][px] = !fb[y][px]
	}
	return collision
}
