// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ik5/audgrid"
)

var errClipSpec = errors.New("clip must be track:beat:path")

type clipSpec struct {
	track, beat uint
	path        string
}

func parseClipSpec(s string) (clipSpec, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[2] == "" {
		return clipSpec{}, fmt.Errorf("%w: %q", errClipSpec, s)
	}

	track, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return clipSpec{}, fmt.Errorf("%w: track %q", errClipSpec, parts[0])
	}
	beat, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return clipSpec{}, fmt.Errorf("%w: beat %q", errClipSpec, parts[1])
	}

	return clipSpec{track: uint(track), beat: uint(beat), path: parts[2]}, nil
}

// arrange fills p from an optional layout file and clip flags. Clip flags
// are placed after the layout and win on conflicts.
func arrange(p *audgrid.Project, layoutPath string, clips []string) error {
	if layoutPath != "" {
		if err := p.LoadLayout(layoutPath); err != nil {
			return err
		}
	}

	for _, raw := range clips {
		spec, err := parseClipSpec(raw)
		if err != nil {
			return err
		}
		if _, err := p.AddFile(spec.track, spec.beat, spec.path); err != nil {
			return err
		}
	}

	if p.Timeline().IsEmpty() {
		return errors.New("nothing to do: pass --layout or --clip")
	}
	return nil
}
