package capture

import (
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/beanboi7/chyp8/emu/cpu"
)

var testPalette = Palette{
	Lit:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	Unlit: color.RGBA{R: 0xf9, G: 0x91, B: 0x2f, A: 0xff},
}

func TestImage(t *testing.T) {
	var fb cpu.Framebuffer
	fb[3][5] = true

	img := Image(&fb, testPalette)
	if b := img.Bounds(); b.Dx() != cpu.Width || b.Dy() != cpu.Height {
		t.Fatalf("bounds = %v", b)
	}
	if have := img.RGBAAt(5, 3); have != testPalette.Lit {
		t.Errorf("lit pixel = %v", have)
	}
	if have := img.RGBAAt(0, 0); have != testPalette.Unlit {
		t.Errorf("unlit pixel = %v", have)
	}
}

func TestScale(t *testing.T) {
	var fb cpu.Framebuffer
	fb[0][1] = true

	img := Scale(Image(&fb, testPalette), 10)
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 320 {
		t.Fatalf("bounds = %v", b)
	}
	// display pixel (1,0) covers image pixels 10..19 x 0..9
	for _, p := range [][2]int{{10, 0}, {19, 9}, {15, 5}} {
		if have := img.RGBAAt(p[0], p[1]); have != testPalette.Lit {
			t.Errorf("pixel %v = %v, want lit", p, have)
		}
	}
	for _, p := range [][2]int{{9, 0}, {20, 0}, {10, 10}} {
		if have := img.RGBAAt(p[0], p[1]); have != testPalette.Unlit {
			t.Errorf("pixel %v = %v, want unlit", p, have)
		}
	}
}

func TestSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	var fb cpu.Framebuffer
	fb[31][63] = true

	path, err := Save(fs, "/shots", &fb, 2, testPalette)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != "/shots" {
		t.Errorf("saved to %s", path)
	}

	f, err := fs.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 64 {
		t.Errorf("bounds = %v", b)
	}
	r, g, b, _ := img.At(127, 63).RGBA()
	if r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff {
		t.Errorf("bottom-right pixel not lit")
	}
}
