// SPDX-License-Identifier: EPL-2.0

// Package clip holds a placed audio file and the goroutine that resamples it.
//
// Each Clip owns a worker that decodes packets of its source in stream order,
// converts them to the project sample rate and appends interleaved stereo
// samples to a buffer.Shared. Nothing is decoded until a request arrives:
//
//	c, err := clip.New("kick", "kick.wav", 48000)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	_ = c.RequestDefault() // read-ahead window
//
// Requests never block the caller. Once the source is exhausted the worker
// pads the tail, stops, and further requests return ErrResamplingUnavailable.
// A decode error also stops the worker; the buffer just stops growing.
package clip
