// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Decoding uses github.com/go-audio/wav and accepts integer PCM at 16, 24
// or 32 bits with any channel count. Inputs that cannot seek are buffered in
// memory first.
//
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	p := src.(audio.ParamSource).Params()
//	fmt.Println(p.SampleRate, p.Channels, p.Duration())
//
// # Encoding
//
// WriteWAV16 writes interleaved 16-bit samples with a canonical 44-byte
// header to any io.Writer:
//
//	err := wav.WriteWAV16(out, 48000, 2, pcm16)
//
// # Errors
//
//   - ErrNotWavFile: input is not RIFF/WAVE
//   - ErrUnsupportedEncoding: format tag other than integer PCM
//   - ErrUnsupportedBitDepth: bit depth other than 16, 24 or 32
//   - ErrUnsupportedWavLayout: missing rate or channel count
//   - ErrUnsupportedWavChunks: no data chunk
package wav
