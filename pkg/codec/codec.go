// Package codec implements the Fourier voice codec: fixed 1024-sample mono
// PCM frames are transformed with a radix-2 FFT, the low-frequency half of
// the spectrum is quantized bin-by-bin under a psychoacoustic bit-weighting
// profile, and the result is packed into a compact self-describing binary
// frame. Frames are bit-exact across conforming implementations.
package codec

import "errors"

// Frame and wire-format constants shared by encoder, decoder and transport.
const (
	FrameSamples = 1024   // PCM samples per encoded frame
	SampleRate   = 48_000 // Hz, mono
	FFTSize      = 1024   // FFT operates on the whole frame
	HeaderSize   = 12     // fixed header bytes in every encoded frame
	Version      = 2      // wire-format version, byte 0 of every frame
)

var (
	// ErrUnknownProfile is returned when a profile name is not one of
	// low, medium, high, full.
	ErrUnknownProfile = errors.New("codec: unknown profile")

	// ErrBadFrameLength is returned by Encode when the input is not
	// exactly FrameSamples long.
	ErrBadFrameLength = errors.New("codec: bad frame length")

	// ErrTooSmall is returned by DecodeFrame when the input is shorter
	// than the fixed header.
	ErrTooSmall = errors.New("codec: frame too small")

	// ErrUnsupportedVersion is returned by DecodeFrame when byte 0 does
	// not match Version.
	ErrUnsupportedVersion = errors.New("codec: unsupported version")

	// ErrShortPayload is returned by DecodeFrame when the buffer holds a
	// valid header but fewer payload bytes than the resolved profile
	// requires.
	ErrShortPayload = errors.New("codec: short payload")
)
