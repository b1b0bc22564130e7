// SPDX-License-Identifier: EPL-2.0

// Package layout saves and restores where clips sit on a timeline. Only
// metadata is stored; clips are decoded again from their source files when a
// layout is restored.
package layout

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audgrid/clip"
	"github.com/ik5/audgrid/config"
	"github.com/ik5/audgrid/timeline"
)

// Version is written into every layout. Decode rejects other versions.
const Version = 1

type Placement struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	Track    uint   `yaml:"track"`
	Position uint   `yaml:"position"`
}

type Settings struct {
	SampleRate     int    `yaml:"sample_rate"`
	Tempo          int    `yaml:"tempo"`
	Volume         int    `yaml:"volume"`
	Implementation string `yaml:"implementation,omitempty"`
}

type Layout struct {
	Version    int         `yaml:"version"`
	Settings   Settings    `yaml:"settings"`
	Placements []Placement `yaml:"placements"`
}

// Capture records the settings and placements of tl. Clips built from raw
// samples have no source file and are left out.
func Capture(tl *timeline.Timeline) Layout {
	snap := tl.Settings().Snapshot()

	l := Layout{
		Version: Version,
		Settings: Settings{
			SampleRate:     snap.SampleRate,
			Tempo:          snap.Tempo,
			Volume:         snap.Volume,
			Implementation: snap.Implementation.String(),
		},
		Placements: []Placement{},
	}

	tl.Each(func(p timeline.Placement) bool {
		if p.Clip.Path() == "" {
			return true
		}
		l.Placements = append(l.Placements, Placement{
			Name:     p.Clip.Name(),
			Path:     p.Clip.Path(),
			Track:    p.Track,
			Position: p.Position,
		})
		return true
	})

	return l
}

func Encode(w io.Writer, l Layout) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	return enc.Close()
}

// Decode reads a layout and rejects unknown keys and versions.
func Decode(r io.Reader) (Layout, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var l Layout
	if err := dec.Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("failed to decode layout: %w", err)
	}
	if l.Version != Version {
		return Layout{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, l.Version)
	}
	return l, nil
}

func Save(path string, l Layout) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create layout file: %w", err)
	}

	if err := Encode(f, l); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func Load(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to open layout file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Apply stores the layout's settings in s. A missing implementation keeps
// the current one.
func (l Layout) Apply(s *config.Settings) error {
	var errs []error

	if err := s.SetSampleRate(l.Settings.SampleRate); err != nil {
		errs = append(errs, err)
	}
	if err := s.SetTempo(l.Settings.Tempo); err != nil {
		errs = append(errs, err)
	}
	if err := s.SetVolume(l.Settings.Volume); err != nil {
		errs = append(errs, err)
	}
	if l.Settings.Implementation != "" {
		impl, err := config.ParseImplementation(l.Settings.Implementation)
		if err == nil {
			err = s.SetImplementation(impl)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Restore decodes every placement again and inserts it into tl at the
// timeline's current sample rate. Placements that fail are skipped and
// reported together; the rest are still restored.
func (l Layout) Restore(tl *timeline.Timeline, opts ...clip.Option) ([]*clip.Clip, error) {
	rate := tl.Settings().SampleRate().Hz()

	var (
		errs     []error
		restored []*clip.Clip
	)
	for i, p := range l.Placements {
		if p.Path == "" {
			errs = append(errs, fmt.Errorf("placement %d: %w", i, ErrMissingPath))
			continue
		}

		name := p.Name
		if name == "" {
			name = p.Path
		}

		c, err := clip.New(name, p.Path, rate, opts...)
		if err != nil {
			errs = append(errs, fmt.Errorf("placement %d (%s): %w", i, p.Path, err))
			continue
		}

		tl.Insert(p.Track, p.Position, c)
		restored = append(restored, c)
	}

	return restored, errors.Join(errs...)
}
