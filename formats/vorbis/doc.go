// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis decoding using
// github.com/jfreymuth/oggvorbis.
//
// Vorbis decodes straight to float32, so samples are passed through without
// conversion. The stream length is read from the last Ogg page and therefore
// needs a seekable input.
package vorbis
