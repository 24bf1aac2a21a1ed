// Package audio plays the buzzer while the sound timer runs.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// SampleRate is the rate the speaker is opened at.
const SampleRate beep.SampleRate = 44100

const DefaultTone = 440.0

type Options struct {
	// Tone is the square wave frequency in Hz, used when Sound is empty.
	Tone float64
	// Sound is an optional mp3, wav, flac or ogg file looped as the buzzer.
	Sound string
	// Volume in halvings of amplitude; 0 is unchanged, -1 is half as loud.
	Volume float64
	Mute   bool
}

// Beeper switches the buzzer on and off. It is safe for concurrent use.
type Beeper interface {
	SetActive(on bool)
	Close() error
}

type speakerBeeper struct {
	mu     sync.Mutex
	ctrl   *beep.Ctrl
	active bool
	closer func() error
}

var initOnce sync.Once
var initErr error

// NewBeeper opens the speaker and returns a silent beeper. With Mute set
// it returns a beeper that never touches the audio device.
func NewBeeper(opts Options) (Beeper, error) {
	if opts.Mute {
		return Mute{}, nil
	}

	source, closer, err := newSource(opts)
	if err != nil {
		return nil, err
	}

	initOnce.Do(func() {
		initErr = speaker.Init(SampleRate, SampleRate.N(time.Second/30))
	})
	if initErr != nil {
		closer()
		return nil, fmt.Errorf("failed to open speaker: %w", initErr)
	}

	ctrl := &beep.Ctrl{Streamer: source, Paused: true}
	volume := &effects.Volume{
		Streamer: ctrl,
		Base:     2,
		Volume:   opts.Volume,
	}
	speaker.Play(volume)

	return &speakerBeeper{ctrl: ctrl, closer: closer}, nil
}

func (b *speakerBeeper) SetActive(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active == on {
		return
	}
	b.active = on

	speaker.Lock()
	b.ctrl.Paused = !on
	speaker.Unlock()
}

func (b *speakerBeeper) Close() error {
	b.SetActive(false)
	return b.closer()
}

// Mute is a Beeper that makes no sound.
type Mute struct{}

func (Mute) SetActive(bool) {}
func (Mute) Close() error   { return nil }

func newSource(opts Options) (beep.Streamer, func() error, error) {
	if opts.Sound == "" {
		tone := opts.Tone
		if tone <= 0 {
			tone = DefaultTone
		}
		return Square(SampleRate, tone), func() error { return nil }, nil
	}

	f, err := os.Open(opts.Sound)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sound: %w", err)
	}
	stream, format, err := decode(f, opts.Sound)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(opts.Sound), err)
	}

	var source beep.Streamer = beep.Loop(-1, stream)
	if format.SampleRate != SampleRate {
		source = beep.Resample(4, format.SampleRate, SampleRate, source)
	}
	return source, stream.Close, nil
}

func decode(f *os.File, path string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	}
	return nil, beep.Format{}, errors.New("unsupported sound format")
}

// Square generates a square wave of freq Hz at rate, swinging between
// -0.25 and 0.25 so it sits well under clipping.
func Square(rate beep.SampleRate, freq float64) beep.Streamer {
	period := float64(rate) / freq
	var pos float64
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := 0.25
			if pos >= period/2 {
				v = -0.25
			}
			samples[i][0], samples[i][1] = v, v
			pos = math.Mod(pos+1, period)
		}
		return len(samples), true
	})
}
