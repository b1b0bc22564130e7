// SPDX-License-Identifier: EPL-2.0

// Package audgrid is the engine of a multi-track audio sequencer. Clips are
// placed on numbered tracks at beat positions, resampled to the project rate
// in the background, and mixed either as a whole or window by window for
// playback.
//
// # Quick Start
//
//	p := audgrid.New()
//	defer p.Close()
//
//	// Track 1, beat 0
//	if _, err := p.AddFile(1, 0, "kick.wav"); err != nil {
//		return err
//	}
//
//	f, _ := os.Create("mix.wav")
//	defer f.Close()
//	n, err := p.RenderWAV(ctx, f)
//
// # Pieces
//
// The project is a thin layer over the subpackages, which can be used on
// their own:
//   - codec parses a file into packets, parameters and a decoder
//   - clip owns one decoded file and its resample worker
//   - buffer is the shared sample buffer a worker appends to
//   - timeline maps tracks and beats to clips and tracks which clip ends last
//   - mixer sums clips into a full preview or a playback window
//   - transport plays windows into a sink on a timer
//   - sink holds the outputs: memory, WAV file and speaker
//   - layout saves and restores placements as YAML
//   - config holds the live settings and loads them through viper
//
// # Samples
//
// All mixed audio is interleaved stereo float32 at the project sample rate.
// Offsets and lengths are counted in interleaved samples, so one frame is two
// samples. A beat is sampleRate*60/bpm*2 samples long.
//
// Summed clips are not normalized or clipped; PCM16 saturates when
// converting.
package audgrid
