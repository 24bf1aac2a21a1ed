package cmd

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/beanboi7/chyp8/emu/term"
)

var termCmd = &cobra.Command{
	Use:   "term path/ROM",
	Short: "run the Emulator inside the terminal",
	Long: "Runs a ROM in a terminal with 24-bit colour support. Esc quits, p pauses\n" +
		"and space saves a screenshot. Redirect stderr to keep logs off the screen.",
	Args: cobra.ExactArgs(1),
	RunE: Term,
}

func Term(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()
	emu, _, err := loadEmulator(fs, args[0])
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

	t := term.New(os.Stdin, os.Stdout, keys, pal)
	if err := t.Open(int(os.Stdin.Fd())); err != nil {
		return err
	}
	defer t.Close()

	beeper := newBeeper()
	defer beeper.Close()

	return runSession(fs, emu, t, beeper)
}
