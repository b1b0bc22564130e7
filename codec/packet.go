// SPDX-License-Identifier: EPL-2.0

package codec

import "github.com/ik5/audgrid/audio"

// DefaultPacketFrames is used when a track does not report a packet size.
const DefaultPacketFrames = 1024

// Packet is a span of frames of one track, in stream order.
// Timestamp and Duration are in frames (time base 1/SampleRate).
type Packet struct {
	TrackID   uint32
	Timestamp uint64
	Duration  uint64
}

// Packetize splits a track of known length into packets of
// MaxFramesPerPacket frames; the last packet may be shorter.
func Packetize(trackID uint32, p audio.StreamParams) []Packet {
	span := p.MaxFramesPerPacket
	if span == 0 {
		span = DefaultPacketFrames
	}

	packets := make([]Packet, 0, (p.Frames+span-1)/span)
	for ts := uint64(0); ts < p.Frames; ts += span {
		packets = append(packets, Packet{
			TrackID:   trackID,
			Timestamp: p.StartTS + ts,
			Duration:  min(span, p.Frames-ts),
		})
	}

	return packets
}

// Frames is the total frame count of packets.
func Frames(packets []Packet) uint64 {
	var total uint64
	for _, p := range packets {
		total += p.Duration
	}
	return total
}
