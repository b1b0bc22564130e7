// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files.
//
// # Supported Formats
//
//   - Uncompressed AIFF, 8, 16, 24 and 32-bit signed PCM
//   - Any channel count and sample rate
//
// AIFF-C compressed variants are rejected.
//
// # Decoding
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not AIFF
//	}
//	params := src.(audio.ParamSource).Params()
//
// The frame count comes from the COMM chunk, so Params().Frames is always
// known. Samples are float32 in [-1.0, 1.0].
//
// # Errors
//
//   - ErrNotAiffFile: the input is not a FORM/AIFF container
//   - ErrUnsupportedBitDepth: sample size outside 8/16/24/32
//   - ErrUnsupportedAiffLayout: no usable channel layout
package aiff
