// SPDX-License-Identifier: EPL-2.0

// Package audio provides low-level audio processing primitives shared by the
// decoders and the timeline engine.
//
// This package contains:
//   - Source and ParamSource interfaces for decoded audio input
//   - StreamParams describing a track (rate, channels, frame count, framing)
//   - FixedOutResampler for chunked sample rate conversion
//   - Helpers moving between planar and interleaved stereo layouts
//   - Format registry for decoder registration
//
// # Resampling
//
// FixedOutResampler works on planar buffers and always produces the same
// number of output frames per call. The number of input frames it needs for
// the next call is reported up front, which lets a producer decode only as
// much as it has to:
//
//	r, _ := audio.NewFixedOutResampler(44100, 48000, 1024, 2)
//	out := r.OutputBufferAllocate()
//	for len(scratch[0]) >= r.InputFramesNext() {
//	    used, _, _ := r.Process(scratch, out)
//	    // drop the first used frames of scratch, consume out
//	}
//
// Interpolation is Catmull-Rom cubic. When downsampling, a one-pole low-pass
// filter runs over the input first.
//
// # Sample Format
//
// Audio samples are float32 in the range [-1.0, 1.0]. StreamParams.SampleFormat
// records what the samples were before conversion.
package audio
