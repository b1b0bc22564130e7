// SPDX-License-Identifier: EPL-2.0

package audio

// SampleFormat is the native encoding of a stream's samples before they are
// converted to float32.
type SampleFormat int

const (
	SampleFormatUnknown SampleFormat = iota
	SampleFormatU8
	SampleFormatU16
	SampleFormatU24
	SampleFormatU32
	SampleFormatS8
	SampleFormatS16
	SampleFormatS24
	SampleFormatS32
	SampleFormatF32
	SampleFormatF64
)

var sampleFormatNames = map[SampleFormat]string{
	SampleFormatUnknown: "unknown",
	SampleFormatU8:      "u8",
	SampleFormatU16:     "u16",
	SampleFormatU24:     "u24",
	SampleFormatU32:     "u32",
	SampleFormatS8:      "s8",
	SampleFormatS16:     "s16",
	SampleFormatS24:     "s24",
	SampleFormatS32:     "s32",
	SampleFormatF32:     "f32",
	SampleFormatF64:     "f64",
}

func (f SampleFormat) String() string {
	if name, ok := sampleFormatNames[f]; ok {
		return name
	}
	return "unknown"
}

// SignedFormat maps an integer bit depth to its signed sample format.
func SignedFormat(bits int) SampleFormat {
	switch bits {
	case 8:
		return SampleFormatS8
	case 16:
		return SampleFormatS16
	case 24:
		return SampleFormatS24
	case 32:
		return SampleFormatS32
	default:
		return SampleFormatUnknown
	}
}

// StreamParams describes a decoded audio track. Zero values mean "unknown".
type StreamParams struct {
	// SampleRate of the track in Hz.
	SampleRate int
	// Channels in the track.
	Channels int
	// Frames is the length of the track in frames (samples per channel).
	Frames uint64
	// StartTS is the timestamp of the first frame.
	StartTS uint64

	SampleFormat       SampleFormat
	BitsPerSample      int
	BitsPerCodedSample int

	// Delay is the number of leading encoder frames that should be skipped.
	Delay int
	// Padding is the number of trailing encoder frames that should be skipped.
	Padding int

	// MaxFramesPerPacket is the largest frame count a single packet carries.
	MaxFramesPerPacket uint64
	// PacketDataIntegrity is set when the demuxer guarantees packet boundaries.
	PacketDataIntegrity bool
	// FramesPerBlock is set for codecs that split packets into blocks.
	FramesPerBlock uint64

	// ExtraData is codec defined.
	ExtraData []byte
}

// Duration of the track in seconds, computed with a time base of 1/SampleRate.
// Returns 0 when the sample rate is unknown.
func (p StreamParams) Duration() float64 {
	if p.SampleRate <= 0 {
		return 0
	}

	return float64(p.Frames) / float64(p.SampleRate)
}

// Samples is the interleaved sample count of the whole track.
func (p StreamParams) Samples() uint64 {
	return p.Frames * uint64(max(p.Channels, 0))
}
