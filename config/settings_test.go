// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"sync"
	"testing"
)

func TestParseSampleRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hz      int
		wantErr bool
	}{
		{32000, false},
		{41000, false},
		{48000, false},
		{96000, false},
		{192000, false},
		{44100, true},
		{0, true},
		{-48000, true},
	}

	for _, tt := range tests {
		t.Run(SampleRate(tt.hz).String(), func(t *testing.T) {
			t.Parallel()

			got, err := ParseSampleRate(tt.hz)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSampleRate) {
					t.Errorf("ParseSampleRate(%d) error = %v, want ErrInvalidSampleRate", tt.hz, err)
				}
				return
			}
			if err != nil || got.Hz() != tt.hz {
				t.Errorf("ParseSampleRate(%d) = %v, %v", tt.hz, got, err)
			}
		})
	}
}

func TestSampleRates_IsACopy(t *testing.T) {
	t.Parallel()

	rates := SampleRates()
	rates[0] = 1
	if SampleRates()[0] != Rate32000 {
		t.Error("SampleRates() exposed its backing array")
	}
}

func TestSettings_Defaults(t *testing.T) {
	t.Parallel()

	s := NewSettings().Snapshot()
	if s.SampleRate != 48000 || s.Tempo != 100 || s.Volume != 100 {
		t.Errorf("defaults = %+v", s)
	}
	if s.WindowSeconds != 3 || s.ReadAheadSeconds != 3 {
		t.Errorf("window defaults = %+v", s)
	}
	if s.Implementation != DetectImplementation() {
		t.Errorf("implementation = %v, want detected %v", s.Implementation, DetectImplementation())
	}
}

func TestSettings_Validation(t *testing.T) {
	t.Parallel()

	s := NewSettings()

	tests := []struct {
		name    string
		set     func() error
		wantErr error
	}{
		{"tempo zero", func() error { return s.SetTempo(0) }, ErrInvalidTempo},
		{"tempo too fast", func() error { return s.SetTempo(496) }, ErrInvalidTempo},
		{"tempo max", func() error { return s.SetTempo(495) }, nil},
		{"tempo min", func() error { return s.SetTempo(1) }, nil},
		{"volume negative", func() error { return s.SetVolume(-1) }, ErrInvalidVolume},
		{"volume over", func() error { return s.SetVolume(101) }, ErrInvalidVolume},
		{"rate", func() error { return s.SetSampleRate(44100) }, ErrInvalidSampleRate},
		{"implementation", func() error { return s.SetImplementation(Implementation(7)) }, ErrInvalidImplementation},
		{"window", func() error { return s.SetWindowSeconds(0) }, ErrInvalidWindow},
		{"read ahead", func() error { return s.SetReadAheadSeconds(-2) }, ErrInvalidWindow},
	}

	for _, tt := range tests {
		if err := tt.set(); !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}

	if got := s.Tempo(); got != 1 {
		t.Errorf("Tempo() = %d after rejected updates, want 1", got)
	}
}

func TestSnapshot_Derived(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		snap        Snapshot
		spb, window int
		gain        float32
	}{
		{"defaults", Snapshot{SampleRate: 48000, Tempo: 100, Volume: 100, WindowSeconds: 3}, 57600, 288000, 1},
		{"120 bpm", Snapshot{SampleRate: 48000, Tempo: 120, Volume: 50, WindowSeconds: 1}, 48000, 96000, 0.5},
		{"odd tempo truncates", Snapshot{SampleRate: 41000, Tempo: 7, WindowSeconds: 2}, 702856, 164000, 0},
		{"zero tempo", Snapshot{SampleRate: 48000}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.snap.SamplesPerBeat(); got != tt.spb {
				t.Errorf("SamplesPerBeat() = %d, want %d", got, tt.spb)
			}
			if got := tt.snap.WindowSamples(); got != tt.window {
				t.Errorf("WindowSamples() = %d, want %d", got, tt.window)
			}
			if got := tt.snap.Gain(); got != tt.gain {
				t.Errorf("Gain() = %v, want %v", got, tt.gain)
			}
		})
	}
}

func TestParseImplementation(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Implementation{"scalar": Scalar, "SIMD": SIMD, " simd ": SIMD} {
		got, err := ParseImplementation(in)
		if err != nil || got != want {
			t.Errorf("ParseImplementation(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	if got, _ := ParseImplementation("auto"); got != DetectImplementation() {
		t.Errorf("ParseImplementation(auto) = %v", got)
	}
	if _, err := ParseImplementation("gpu"); !errors.Is(err, ErrInvalidImplementation) {
		t.Errorf("ParseImplementation(gpu) error = %v", err)
	}
	if Implementation(9).String() != "Implementation(9)" {
		t.Errorf("String() = %q", Implementation(9).String())
	}
}

func TestSettings_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewSettings()

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Go(func() {
			for bpm := 1; bpm <= 495; bpm++ {
				_ = s.SetTempo(bpm)
				_ = s.SetVolume((bpm + i) % 101)
			}
		})
		wg.Go(func() {
			for range 500 {
				snap := s.Snapshot()
				if snap.Tempo < MinTempo || snap.Tempo > MaxTempo {
					t.Errorf("observed tempo %d", snap.Tempo)
					return
				}
			}
		})
	}
	wg.Wait()
}
