// Package screen is the pixelgl frontend. Windows must be created and used
// from the function passed to pixelgl.Run.
package screen

import (
	"fmt"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"

	"github.com/beanboi7/chyp8/emu/capture"
	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/host"
)

type Options struct {
	Title   string
	Scale   int
	Keys    [16]rune
	Palette capture.Palette
}

type Window struct {
	*pixelgl.Window
	KeyMap  map[uint16]pixelgl.Button
	palette capture.Palette
	scale   float64
}

// NewWindow opens a window sized to the display times opts.Scale.
func NewWindow(opts Options) (*Window, error) {
	if opts.Scale <= 0 {
		opts.Scale = 10
	}
	keyMap, err := NewKeyMap(opts.Keys)
	if err != nil {
		return nil, err
	}

	cfg := pixelgl.WindowConfig{
		Title:  opts.Title,
		Bounds: pixel.R(0, 0, float64(cpu.Width*opts.Scale), float64(cpu.Height*opts.Scale)),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open window: %w", err)
	}
	win.SetSmooth(false)

	return &Window{
		Window:  win,
		KeyMap:  keyMap,
		palette: opts.Palette,
		scale:   float64(opts.Scale),
	}, nil
}

// NewKeyMap maps logical keys 0..F to the pixelgl buttons named by keys.
func NewKeyMap(keys [16]rune) (map[uint16]pixelgl.Button, error) {
	keyMap := make(map[uint16]pixelgl.Button, len(keys))
	for i, r := range keys {
		button, ok := buttonFor(r)
		if !ok {
			return nil, fmt.Errorf("no button for key %q", r)
		}
		keyMap[uint16(i)] = button
	}
	return keyMap, nil
}

func buttonFor(r rune) (pixelgl.Button, bool) {
	switch {
	case r >= '0' && r <= '9':
		return pixelgl.Key0 + pixelgl.Button(r-'0'), true
	case r >= 'a' && r <= 'z':
		return pixelgl.KeyA + pixelgl.Button(r-'a'), true
	}
	return pixelgl.KeyUnknown, false
}

// Poll pumps window events and reports the machine keys and any host
// command. P pauses unless it is bound to a machine key.
func (w *Window) Poll(keys *[16]bool) host.Command {
	w.UpdateInput()

	for i := range keys {
		keys[i] = w.Pressed(w.KeyMap[uint16(i)])
	}

	switch {
	case w.Closed(), w.JustPressed(pixelgl.KeyEscape):
		return host.Quit
	case w.JustPressed(pixelgl.KeyF12):
		return host.Screenshot
	case w.JustPressed(pixelgl.KeyP) && !w.bound(pixelgl.KeyP):
		return host.Pause
	}
	return host.None
}

func (w *Window) bound(button pixelgl.Button) bool {
	for _, b := range w.KeyMap {
		if b == button {
			return true
		}
	}
	return false
}

// Draw renders fb stretched over the whole window.
func (w *Window) Draw(fb *cpu.Framebuffer) error {
	pic := pixel.PictureDataFromImage(capture.Image(fb, w.palette))
	sprite := pixel.NewSprite(pic, pic.Bounds())

	w.Clear(w.palette.Unlit)
	sprite.Draw(w, pixel.IM.Scaled(pixel.ZV, w.scale).Moved(w.Bounds().Center()))
	w.SwapBuffers()
	return nil
}
