// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3. The library always
// produces 16-bit stereo, so every source reports two channels regardless of
// the file's channel mode.
//
// The frame count is only known when the input is an io.ReadSeeker; otherwise
// Params().Frames is zero and callers that need a duration must reject the
// stream.
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	frames := src.(audio.ParamSource).Params().Frames
package mp3
