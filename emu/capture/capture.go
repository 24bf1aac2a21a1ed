// Package capture turns framebuffers into images and saves screenshots.
package capture

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/image/draw"

	"github.com/beanboi7/chyp8/emu/cpu"
)

type Palette struct {
	Lit   color.RGBA
	Unlit color.RGBA
}

// Image renders fb at one image pixel per display pixel.
func Image(fb *cpu.Framebuffer, pal Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cpu.Width, cpu.Height))
	for y := 0; y < cpu.Height; y++ {
		for x := 0; x < cpu.Width; x++ {
			if fb.Lit(x, y) {
				img.SetRGBA(x, y, pal.Lit)
			} else {
				img.SetRGBA(x, y, pal.Unlit)
			}
		}
	}
	return img
}

// Scale enlarges img by factor without smoothing.
func Scale(img image.Image, factor int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Save writes fb as a PNG scaled by factor into dir and returns its path.
func Save(fs afero.Fs, dir string, fb *cpu.Framebuffer, factor int, pal Palette) (string, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("chyp8-%d.png", time.Now().UnixNano()))
	f, err := fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create screenshot file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, Scale(Image(fb, pal), factor)); err != nil {
		return "", fmt.Errorf("failed to encode screenshot: %w", err)
	}
	return path, nil
}
