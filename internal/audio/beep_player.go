package audio

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// speakerSampleRate is the fixed mixer rate; decoded streams are resampled
// to it so the speaker is initialized exactly once.
const speakerSampleRate beep.SampleRate = 44100

var speakerInit sync.Once

// BeepPlayer plays catalog files through the system audio device using the
// beep speaker mixer.
type BeepPlayer struct {
	initErr error
}

// NewBeepPlayer initializes the speaker and returns a player. A speaker
// initialization failure is reported on the first Load instead, so
// construction never fails.
func NewBeepPlayer() *BeepPlayer {
	p := &BeepPlayer{}
	speakerInit.Do(func() {
		p.initErr = speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10))
	})
	return p
}

func (p *BeepPlayer) Load(path string, loop bool) (Handle, error) {
	if p.initErr != nil {
		return nil, fmt.Errorf("speaker unavailable: %w", p.initErr)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sound file: %w", err)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch {
	case strings.HasSuffix(path, ".wav"):
		streamer, format, err = wav.Decode(f)
	default:
		streamer, format, err = mp3.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding sound file: %w", err)
	}

	var source beep.Streamer = streamer
	if loop {
		source = beep.Loop(-1, streamer)
	}
	if format.SampleRate != speakerSampleRate {
		source = beep.Resample(4, format.SampleRate, speakerSampleRate, source)
	}

	volume := &effects.Volume{Streamer: source, Base: 2, Silent: true}
	ctrl := &beep.Ctrl{Streamer: volume}

	return &beepHandle{streamer: streamer, volume: volume, ctrl: ctrl}, nil
}

type beepHandle struct {
	streamer beep.StreamSeekCloser
	volume   *effects.Volume
	ctrl     *beep.Ctrl

	mu      sync.Mutex
	stopped bool
}

func (h *beepHandle) Play() {
	speaker.Play(h.ctrl)
}

func (h *beepHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true

	speaker.Lock()
	h.ctrl.Paused = true
	h.ctrl.Streamer = nil
	speaker.Unlock()
	_ = h.streamer.Close()
}

// SetVolume maps a linear [0,1] volume onto the exponential scale the
// volume effect expects. Zero mutes outright.
func (h *beepHandle) SetVolume(v float64) {
	speaker.Lock()
	defer speaker.Unlock()
	if v <= 0 {
		h.volume.Silent = true
		return
	}
	if v > 1 {
		v = 1
	}
	h.volume.Silent = false
	h.volume.Volume = math.Log2(v)
}

// SilentPlayer is a Player that produces inert handles; used when sound is
// disabled and in tests.
type SilentPlayer struct{}

func (SilentPlayer) Load(string, bool) (Handle, error) {
	return silentHandle{}, nil
}

type silentHandle struct{}

func (silentHandle) Play()             {}
func (silentHandle) Stop()             {}
func (silentHandle) SetVolume(float64) {}
