// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audgrid/audio"
)

// maxEmptyReads bounds consecutive 0, nil reads before a packet is cut short
const maxEmptyReads = 8

// Decoder turns packets of one track back into planar samples.
//
// It reads the underlying source sequentially, so packets must be decoded in
// the order Parse returned them. A Decoder is not safe for concurrent use.
type Decoder struct {
	src    audio.ParamSource
	params audio.StreamParams
	next   uint64

	interleaved []float32
	planar      [][]float32
}

func NewDecoder(src audio.ParamSource) *Decoder {
	p := src.Params()

	return &Decoder{
		src:    src,
		params: p,
		next:   p.StartTS,
		planar: make([][]float32, p.Channels),
	}
}

func (d *Decoder) Params() audio.StreamParams { return d.params }

// Decode returns one slice per channel holding the frames of p.
// The slices are reused by the next call.
func (d *Decoder) Decode(p Packet) ([][]float32, error) {
	if p.Timestamp != d.next {
		return nil, fmt.Errorf("%w: got timestamp %d, want %d", ErrPacketOutOfOrder, p.Timestamp, d.next)
	}

	channels := d.params.Channels
	want := int(p.Duration) * channels
	if cap(d.interleaved) < want {
		d.interleaved = make([]float32, want)
	}
	buf := d.interleaved[:want]

	got, empty := 0, 0
	for got < want && empty < maxEmptyReads {
		n, err := d.src.ReadSamples(buf[got:])
		got += n

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding packet at %d: %w", p.Timestamp, err)
		}

		// Sources may return 0, nil while they refill
		if n == 0 {
			empty++
		} else {
			empty = 0
		}
	}

	// Frame counts derived from container length can overshoot slightly
	got -= got % channels
	if got == 0 && want > 0 {
		return nil, fmt.Errorf("%w: packet at %d", ErrEndOfStream, p.Timestamp)
	}

	for c := range d.planar {
		d.planar[c] = d.planar[c][:0]
	}
	planar, err := audio.Deinterleave(d.planar, buf[:got])
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	d.planar = planar
	d.next += p.Duration

	return d.planar, nil
}

func (d *Decoder) Close() error {
	if err := d.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
