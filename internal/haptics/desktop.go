package haptics

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
)

const sampleRate = beep.SampleRate(44100)

type tone struct {
	freq     float64
	length   time.Duration
	loudness float64
}

// tones maps each impact to a short sine burst. Lighter impacts are higher
// and shorter.
var tones = map[Intensity]tone{
	Light:  {freq: 880, length: 40 * time.Millisecond, loudness: -2},
	Medium: {freq: 587.33, length: 90 * time.Millisecond, loudness: -1},
	Heavy:  {freq: 293.66, length: 160 * time.Millisecond, loudness: 0},
}

var notificationTitles = map[Outcome]string{
	Success: "Pattern unlocked",
	Error:   "Payment failed",
	Warning: "Payment not completed",
}

// Desktop renders impacts as short tones through the system speaker and
// outcomes as desktop notifications.
type Desktop struct {
	initErr       error
	appName       string
	initOnce      sync.Once
	Tones         bool
	Notifications bool
}

// NewDesktop returns desktop feedback. Either channel may be disabled.
func NewDesktop(appName string, tones, notifications bool) *Desktop {
	return &Desktop{
		appName:       appName,
		Tones:         tones,
		Notifications: notifications,
	}
}

func (d *Desktop) initSpeaker() error {
	d.initOnce.Do(func() {
		bufferSize := 10

		d.initErr = speaker.Init(
			sampleRate,
			sampleRate.N(time.Duration(int(time.Second)/bufferSize)),
		)
	})

	return d.initErr
}

func (d *Desktop) Impact(intensity Intensity) {
	if !d.Tones {
		return
	}

	t, ok := tones[intensity]
	if !ok {
		t = tones[Light]
	}

	if err := d.initSpeaker(); err != nil {
		slog.Debug("speaker unavailable", slog.Any("error", err))
		return
	}

	sine, err := generators.SineTone(sampleRate, t.freq)
	if err != nil {
		slog.Debug("unable to generate tone", slog.Any("error", err))
		return
	}

	burst := &effects.Volume{
		Streamer: beep.Take(sampleRate.N(t.length), sine),
		Base:     2,
		Volume:   t.loudness,
	}

	speaker.Play(burst)
}

func (d *Desktop) Notify(outcome Outcome, message string) {
	if !d.Notifications {
		return
	}

	title := notificationTitles[outcome]
	if d.appName != "" {
		title = d.appName + ": " + title
	}

	if err := beeep.Notify(title, message, ""); err != nil {
		slog.Debug(
			"unable to display notification",
			slog.String("outcome", string(outcome)),
			slog.Any("error", err),
		)
	}
}
