package cmd

import (
	"github.com/faiface/pixel/pixelgl"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/beanboi7/chyp8/emu/screen"
)

var startCmd = &cobra.Command{
	Use:   "start path/ROM",
	Short: "load and start the Emulator in a window",
	Long: "Runs a ROM in a window. Esc quits, P pauses and F12 saves a screenshot.\n" +
		"The ROM may be zipped, gzipped, tarred, 7z or rar archived.",
	Args: cobra.ExactArgs(1),
	RunE: Start,
}

// chyp8 start 'path/to/ROM' -r 69
func Start(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()
	emu, name, err := loadEmulator(fs, args[0])
	if err != nil {
		return err
	}

	keys, err := conf.Keymap()
	if err != nil {
		return err
	}
	pal, err := conf.Palette()
	if err != nil {
		return err
	}

	// pixelgl needs the main thread, which cobra is still running on
	pixelgl.Run(func() {
		var win *screen.Window
		win, err = screen.NewWindow(screen.Options{
			Title:   "Chyp8 - " + name,
			Scale:   conf.Scale,
			Keys:    keys,
			Palette: pal,
		})
		if err != nil {
			return
		}
		defer win.Destroy()

		beeper := newBeeper()
		defer beeper.Close()

		err = runSession(fs, emu, win, beeper)
	})
	return err
}
