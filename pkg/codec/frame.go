package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"
)

// Header layout, little-endian where multi-byte:
//
//	offset 0  1 byte   version (= Version)
//	offset 1  1 byte   binCount & 0xFF, informational only (wraps at 256)
//	offset 2  1 byte   profileId, authoritative selector on decode
//	offset 3  1 byte   reserved, zero
//	offset 4  4 bytes  scale, float32: peak magnitude of the encoded bins
//	offset 8  4 bytes  sequence, uint32: per-encoder frame counter
const (
	offVersion  = 0
	offBinCount = 1
	offProfile  = 2
	offScale    = 4
	offSequence = 8
)

// silenceFloor keeps the per-frame scale strictly positive so the
// quantizer's division is always defined. It is small enough to be
// indistinguishable from true zero after the round-trip.
const silenceFloor = 1e-9

// Encoder turns PCM frames into encoded byte frames. Each Encoder carries
// its own monotonic sequence counter, so streams never share state. The
// counter is advanced atomically; a single Encoder may be used from
// multiple goroutines, though one per producer is the simpler design.
type Encoder struct {
	seq atomic.Uint32
}

// NewEncoder returns an Encoder whose first frame has sequence 0.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Sequence reports the sequence number the next encoded frame will carry.
func (e *Encoder) Sequence() uint32 {
	return e.seq.Load()
}

// Encode compresses one frame of FrameSamples mono PCM samples in [-1, 1]
// under the named profile. The returned buffer is HeaderSize plus the
// profile's payload bytes; it is freshly allocated per call.
func (e *Encoder) Encode(samples []float32, profile string) ([]byte, error) {
	prof, err := ProfileByName(profile)
	if err != nil {
		return nil, err
	}
	if len(samples) != FrameSamples {
		return nil, fmt.Errorf("%w: got %d samples, want %d", ErrBadFrameLength, len(samples), FrameSamples)
	}

	var re, im [FFTSize]float64
	for i, s := range samples {
		re[i] = float64(s)
	}
	fft(re[:], im[:], false)

	// Peak magnitude across the encoded bins normalizes the lattice.
	maxAbs := 0.0
	for i := 0; i < prof.BinCount; i++ {
		if a := math.Abs(re[i]); a > maxAbs {
			maxAbs = a
		}
		if a := math.Abs(im[i]); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs < silenceFloor {
		maxAbs = silenceFloor
	}

	buf := make([]byte, HeaderSize+prof.PayloadBytes)
	buf[offVersion] = Version
	buf[offBinCount] = byte(prof.BinCount)
	buf[offProfile] = prof.ID
	binary.LittleEndian.PutUint32(buf[offScale:], math.Float32bits(float32(maxAbs)))
	binary.LittleEndian.PutUint32(buf[offSequence:], e.seq.Add(1)-1)

	bitIdx := 0
	for i := 0; i < prof.BinCount; i++ {
		bits := int(prof.Weights[i])
		bitIdx = writeBits(buf, HeaderSize, bitIdx, quantize(re[i], maxAbs, bits), bits)
		bitIdx = writeBits(buf, HeaderSize, bitIdx, quantize(im[i], maxAbs, bits), bits)
	}

	return buf, nil
}

// DecodeFrame expands an encoded frame back into FrameSamples PCM samples
// and reports the profile the frame was encoded with.
//
// The profile is resolved from header byte 2; byte 1 only holds
// binCount & 0xFF, which wraps at 256 and is never consulted. An unknown
// profileId falls back to profile 0 rather than failing, so an older
// decoder keeps producing (degraded) audio when a newer peer sends an id
// it does not know. A buffer with fewer payload bytes than the resolved
// profile requires fails with ErrShortPayload.
func DecodeFrame(data []byte) ([]float32, string, error) {
	if len(data) < HeaderSize {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrTooSmall, len(data))
	}
	if data[offVersion] != Version {
		return nil, "", fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[offVersion])
	}

	prof, ok := ProfilesByID[data[offProfile]]
	if !ok {
		prof = ProfilesByID[0]
	}
	if len(data) < HeaderSize+prof.PayloadBytes {
		return nil, "", fmt.Errorf("%w: profile %s needs %d payload bytes, have %d",
			ErrShortPayload, prof.Name, prof.PayloadBytes, len(data)-HeaderSize)
	}

	scale := float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offScale:])))

	var re, im [FFTSize]float64
	bitIdx := 0
	for i := 0; i < prof.BinCount; i++ {
		bits := int(prof.Weights[i])
		r := dequantize(readBits(data, HeaderSize, bitIdx, bits), scale, bits)
		bitIdx += bits
		m := dequantize(readBits(data, HeaderSize, bitIdx, bits), scale, bits)
		bitIdx += bits

		re[i], im[i] = r, m
		// Hermitian mirror reconstructs a real-valued signal. Bins
		// between BinCount and FFTSize-BinCount stay zero, a brick-wall
		// low-pass at BinCount*SampleRate/FFTSize Hz.
		if i != 0 {
			re[FFTSize-i], im[FFTSize-i] = r, -m
		}
	}

	fft(re[:], im[:], true)

	out := make([]float32, FrameSamples)
	for i := range out {
		out[i] = float32(re[i])
	}
	return out, prof.Name, nil
}

// FrameSequence reads the informational sequence counter from an encoded
// frame header. Transport layers use it to detect reorder and loss.
func FrameSequence(data []byte) (uint32, error) {
	if len(data) < HeaderSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(data))
	}
	return binary.LittleEndian.Uint32(data[offSequence:]), nil
}
