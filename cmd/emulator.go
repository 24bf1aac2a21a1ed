package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/beanboi7/chyp8/emu/audio"
	"github.com/beanboi7/chyp8/emu/capture"
	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/host"
	"github.com/beanboi7/chyp8/emu/rom"
)

// loadEmulator reads the ROM at path and returns a ready EMU and the ROM's
// name.
func loadEmulator(fs afero.Fs, path string) (*cpu.EMU, string, error) {
	program, name, err := rom.Load(fs, path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load %s: %w", path, err)
	}

	emu := cpu.NewEMU(cpu.Config{
		StackDepth: conf.Stack,
		Seed:       conf.Seed,
		Logger:     slog.Default(),
	})
	if err := emu.LoadProgram(program); err != nil {
		return nil, "", fmt.Errorf("failed to load %s: %w", name, err)
	}

	slog.Info("loaded ROM", "name", name, "size", len(program))
	return emu, name, nil
}

func newBeeper() audio.Beeper {
	beeper, err := audio.NewBeeper(audio.Options{
		Tone:   conf.Tone,
		Sound:  conf.Sound,
		Volume: conf.Volume,
		Mute:   conf.Mute,
	})
	if err != nil {
		slog.Warn("sound disabled", "err", err)
		return audio.Mute{}
	}
	return beeper
}

// runSession runs emu against fe until the user quits or the process is
// interrupted.
func runSession(fs afero.Fs, emu *cpu.EMU, fe host.Frontend, sp host.Speaker) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pal, err := conf.Palette()
	if err != nil {
		return err
	}

	session := &host.Session{
		EMU:      emu,
		Frontend: fe,
		Speaker:  sp,
		Refresh:  conf.Refresh,
		Cycles:   conf.Cycles,
		Capture: func(fb *cpu.Framebuffer) (string, error) {
			return capture.Save(fs, conf.Screenshots, fb, conf.Scale, pal)
		},
		Log: slog.Default(),
	}

	err = session.Run(ctx)

	var decodeErr *cpu.DecodeError
	if errors.As(err, &decodeErr) {
		slog.Error("unknown instruction",
			"opcode", fmt.Sprintf("0x%04x", decodeErr.Opcode),
			"offset", fmt.Sprintf("0x%x", decodeErr.Offset()),
		)
	}
	return err
}
