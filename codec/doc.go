// SPDX-License-Identifier: EPL-2.0

// Package codec turns an audio file into a list of packets, the stream's
// parameters and a stateful decoder for those packets.
//
// The format back-ends under formats/ are sequential readers, so a Packet is
// a span of frames of the track rather than a container packet. Packets have
// to be decoded in the order Parse returns them; the Decoder rejects anything
// else with ErrPacketOutOfOrder.
//
//	s, err := codec.Parse("loop.flac")
//	if err != nil {
//	    var de *codec.DecodeError
//	    errors.As(err, &de)
//	    return err
//	}
//	defer s.Decoder.Close()
//	for _, p := range s.Packets {
//	    planar, err := s.Decoder.Decode(p)
//	    ...
//	}
//
// The format is detected from the first bytes of the file and falls back to
// the file extension. ProbeCache keeps stream parameters of files that were
// already looked at.
package codec
