// SPDX-License-Identifier: EPL-2.0

// Package flac provides FLAC audio file decoding on top of
// github.com/mewkiz/flac.
//
// Frames are decoded one at a time and handed out as interleaved float32
// samples. STREAMINFO supplies the frame count, so Params().Frames is known
// for every valid stream.
//
//	src, err := flac.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
package flac
