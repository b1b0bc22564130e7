// SPDX-License-Identifier: EPL-2.0

// Package config holds the live project settings and loads them from files,
// environment and flags.
package config

import (
	"fmt"
	"sync/atomic"
)

// Tempo and volume bounds
const (
	MinTempo     = 1
	MaxTempo     = 495
	DefaultTempo = 100

	MinVolume     = 0
	MaxVolume     = 100
	DefaultVolume = 100

	DefaultWindowSeconds    = 3
	DefaultReadAheadSeconds = 3
)

// Settings can be read and changed from any goroutine. Consumers take a
// Snapshot at the moment they need consistent values.
type Settings struct {
	sampleRate       atomic.Int64
	tempo            atomic.Int64
	volume           atomic.Int64
	implementation   atomic.Int32
	windowSeconds    atomic.Int64
	readAheadSeconds atomic.Int64
}

// NewSettings returns settings with the defaults and a mixing implementation
// chosen for this CPU.
func NewSettings() *Settings {
	s := &Settings{}
	s.sampleRate.Store(int64(DefaultSampleRate))
	s.tempo.Store(DefaultTempo)
	s.volume.Store(DefaultVolume)
	s.implementation.Store(int32(DetectImplementation()))
	s.windowSeconds.Store(DefaultWindowSeconds)
	s.readAheadSeconds.Store(DefaultReadAheadSeconds)
	return s
}

func (s *Settings) SampleRate() SampleRate { return SampleRate(s.sampleRate.Load()) }

// SetSampleRate only affects clips created afterwards.
func (s *Settings) SetSampleRate(hz int) error {
	r, err := ParseSampleRate(hz)
	if err != nil {
		return err
	}
	s.sampleRate.Store(int64(r))
	return nil
}

func (s *Settings) Tempo() int { return int(s.tempo.Load()) }

func (s *Settings) SetTempo(bpm int) error {
	if bpm < MinTempo || bpm > MaxTempo {
		return fmt.Errorf("%w: %d bpm, want %d-%d", ErrInvalidTempo, bpm, MinTempo, MaxTempo)
	}
	s.tempo.Store(int64(bpm))
	return nil
}

func (s *Settings) Volume() int { return int(s.volume.Load()) }

func (s *Settings) SetVolume(percent int) error {
	if percent < MinVolume || percent > MaxVolume {
		return fmt.Errorf("%w: %d%%", ErrInvalidVolume, percent)
	}
	s.volume.Store(int64(percent))
	return nil
}

func (s *Settings) Implementation() Implementation {
	return Implementation(s.implementation.Load())
}

func (s *Settings) SetImplementation(impl Implementation) error {
	if impl != Scalar && impl != SIMD {
		return fmt.Errorf("%w: %v", ErrInvalidImplementation, impl)
	}
	s.implementation.Store(int32(impl))
	return nil
}

func (s *Settings) WindowSeconds() int { return int(s.windowSeconds.Load()) }

// SetWindowSeconds sets the length of each playback window.
func (s *Settings) SetWindowSeconds(seconds int) error {
	if seconds < 1 {
		return fmt.Errorf("%w: window %d", ErrInvalidWindow, seconds)
	}
	s.windowSeconds.Store(int64(seconds))
	return nil
}

func (s *Settings) ReadAheadSeconds() int { return int(s.readAheadSeconds.Load()) }

// SetReadAheadSeconds sets how much native audio new clips decode per request.
func (s *Settings) SetReadAheadSeconds(seconds int) error {
	if seconds < 1 {
		return fmt.Errorf("%w: read-ahead %d", ErrInvalidWindow, seconds)
	}
	s.readAheadSeconds.Store(int64(seconds))
	return nil
}

// Snapshot is a consistent copy of the settings.
type Snapshot struct {
	SampleRate       int
	Tempo            int
	Volume           int
	Implementation   Implementation
	WindowSeconds    int
	ReadAheadSeconds int
}

// Snapshot reads every field once. Fields changed concurrently may land on
// either side of the copy.
func (s *Settings) Snapshot() Snapshot {
	return Snapshot{
		SampleRate:       int(s.sampleRate.Load()),
		Tempo:            int(s.tempo.Load()),
		Volume:           int(s.volume.Load()),
		Implementation:   Implementation(s.implementation.Load()),
		WindowSeconds:    int(s.windowSeconds.Load()),
		ReadAheadSeconds: int(s.readAheadSeconds.Load()),
	}
}

// SamplesPerBeat converts one beat into interleaved stereo samples.
func (s Snapshot) SamplesPerBeat() int {
	if s.Tempo <= 0 {
		return 0
	}
	return s.SampleRate * 60 / s.Tempo * 2
}

// WindowSamples is the interleaved length of one playback window.
func (s Snapshot) WindowSamples() int {
	return s.SampleRate * s.WindowSeconds * 2
}

// Gain is the master volume as a linear factor.
func (s Snapshot) Gain() float32 {
	return float32(s.Volume) / MaxVolume
}

// BeatSeconds is the length of one beat.
func (s Snapshot) BeatSeconds() float64 {
	if s.Tempo <= 0 {
		return 0
	}
	return 60 / float64(s.Tempo)
}
