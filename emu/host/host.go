// Package host drives an EMU at a fixed refresh rate against a frontend
// that supplies key state and shows the framebuffer.
package host

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/beanboi7/chyp8/emu/cpu"
)

// Command is a host-level request raised by a frontend, outside the
// 16 machine keys.
type Command int

const (
	None Command = iota
	Quit
	Pause
	Screenshot
)

func (c Command) String() string {
	switch c {
	case Quit:
		return "quit"
	case Pause:
		return "pause"
	case Screenshot:
		return "screenshot"
	}
	return "none"
}

// Frontend is a display plus keyboard. Poll overwrites keys with the
// current state of the 16 machine keys.
type Frontend interface {
	Poll(keys *[16]bool) Command
	Draw(fb *cpu.Framebuffer) error
}

// MaxRefresh bounds Session.Refresh so the tick interval stays positive.
const MaxRefresh = 1000

type Speaker interface {
	SetActive(on bool)
}

// CaptureFunc saves a framebuffer somewhere and reports where.
type CaptureFunc func(fb *cpu.Framebuffer) (string, error)

type Session struct {
	EMU      *cpu.EMU
	Frontend Frontend
	Speaker  Speaker
	Refresh  int // Hz
	Cycles   int // instructions per refresh
	Capture  CaptureFunc
	Log      *slog.Logger

	paused bool
	keys   [16]bool
}

// Run steps the session until the frontend asks to quit, ctx is done or
// the EMU fails. Only the EMU's error is returned.
func (s *Session) Run(ctx context.Context) error {
	if s.EMU == nil || s.Frontend == nil {
		return errors.New("session needs an EMU and a frontend")
	}
	if s.Log == nil {
		s.Log = slog.Default()
	}
	if s.Speaker == nil {
		s.Speaker = silent{}
	}
	refresh := s.Refresh
	if refresh <= 0 {
		refresh = 60
	}
	if refresh > MaxRefresh {
		refresh = MaxRefresh
	}
	cycles := s.Cycles
	if cycles <= 0 {
		cycles = cpu.DefaultBatchSize
	}

	ticker := time.NewTicker(time.Second / time.Duration(refresh))
	defer ticker.Stop()
	defer s.Speaker.SetActive(false)

	s.Log.Info("session started", "refresh", refresh, "cycles", cycles)
	for {
		select {
		case <-ctx.Done():
			s.Log.Info("session cancelled")
			return nil
		case <-ticker.C:
		}

		done, err := s.tick(cycles)
		if err != nil {
			s.Speaker.SetActive(false)
			return err
		}
		if done {
			s.Log.Info("session ended")
			return nil
		}
	}
}

func (s *Session) tick(cycles int) (bool, error) {
	cmd := s.Frontend.Poll(&s.keys)
	for key, pressed := range s.keys {
		s.EMU.SetInputState(key, pressed)
	}

	switch cmd {
	case Quit:
		return true, nil
	case Pause:
		s.paused = !s.paused
		if s.paused {
			s.Log.Info("paused")
		} else {
			s.Log.Info("resumed")
		}
	case Screenshot:
		s.screenshot()
	}

	if !s.paused {
		if err := s.EMU.RunBatch(cycles); err != nil {
			return false, err
		}
	}
	s.Speaker.SetActive(!s.paused && s.EMU.SoundActive())

	fb := s.EMU.FramebufferSnapshot()
	if err := s.Frontend.Draw(&fb); err != nil {
		s.Log.Warn("draw failed", "err", err)
	}
	return false, nil
}

func (s *Session) screenshot() {
	if s.Capture == nil {
		return
	}
	fb := s.EMU.FramebufferSnapshot()
	path, err := s.Capture(&fb)
	if err != nil {
		s.Log.Error("screenshot failed", "err", err)
		return
	}
	s.Log.Info("screenshot saved", "path", path)
}

type silent struct{}

func (silent) SetActive(bool) {}
