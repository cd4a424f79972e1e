package codec

import "fmt"

// Profile is an immutable bit-allocation schedule. It selects how many
// low-frequency bins are encoded and how many bits each bin receives for
// its real and imaginary parts. Profiles are built once at package init
// and never mutated, so they are safe to share across goroutines.
type Profile struct {
	Name     string
	ID       byte
	BinCount int

	// Weights holds the per-bin bit budget; Weights[i] applies to both
	// the real and the imaginary part of bin i.
	Weights []uint8

	// TotalBits is 2 * sum(Weights), PayloadBytes its byte ceiling.
	TotalBits    int
	PayloadBytes int
}

// Profiles maps profile names to their definitions.
var Profiles = map[string]*Profile{}

// ProfilesByID maps the wire profileId (header byte 2) to its definition.
var ProfilesByID = map[byte]*Profile{}

// ProfileNames lists the profiles in id order.
var ProfileNames []string

// Bit-weight functions, ISO 226-inspired equal-loudness weighting. Speech
// formants (125 Hz - 3 kHz) get the most bits, spectrum edges the fewest.

// lowBits: 4-12 bits, telephone quality.
func lowBits(freq float64) uint8 {
	switch {
	case freq < 50:
		return 5
	case freq < 125:
		return 12
	case freq < 250:
		return 11
	case freq < 500:
		return 10
	case freq < 1000:
		return 9
	case freq < 3000:
		return 8
	case freq < 7000:
		return 7
	case freq < 9000:
		return 6
	case freq < 13000:
		return 5
	default:
		return 4
	}
}

// mediumBits: 6-14 bits, good speech quality.
func mediumBits(freq float64) uint8 {
	switch {
	case freq < 50:
		return 7
	case freq < 125:
		return 14
	case freq < 250:
		return 13
	case freq < 500:
		return 12
	case freq < 1000:
		return 11
	case freq < 3000:
		return 10
	case freq < 7000:
		return 9
	case freq < 9000:
		return 8
	case freq < 13000:
		return 7
	default:
		return 6
	}
}

// highBits: 8-16 bits, near-CD quality.
func highBits(freq float64) uint8 {
	switch {
	case freq < 50:
		return 9
	case freq < 125:
		return 16
	case freq < 250:
		return 15
	case freq < 500:
		return 14
	case freq < 1000:
		return 13
	case freq < 3000:
		return 12
	case freq < 7000:
		return 11
	case freq < 9000:
		return 10
	case freq < 13000:
		return 9
	default:
		return 8
	}
}

// fullBits: 16 bits uniform, effectively uncompressed.
func fullBits(_ float64) uint8 {
	return 16
}

func newProfile(name string, id byte, binCount int, bits func(float64) uint8) *Profile {
	p := &Profile{
		Name:     name,
		ID:       id,
		BinCount: binCount,
		Weights:  make([]uint8, binCount),
	}
	sum := 0
	for i := 0; i < binCount; i++ {
		freq := float64(i) * SampleRate / FFTSize
		w := bits(freq)
		p.Weights[i] = w
		sum += int(w)
	}
	p.TotalBits = 2 * sum // real + imag per bin
	p.PayloadBytes = (p.TotalBits + 7) / 8
	return p
}

func init() {
	for _, p := range []*Profile{
		newProfile("low", 0, 160, lowBits),
		newProfile("medium", 1, 256, mediumBits),
		newProfile("high", 2, 384, highBits),
		newProfile("full", 3, 512, fullBits),
	} {
		Profiles[p.Name] = p
		ProfilesByID[p.ID] = p
		ProfileNames = append(ProfileNames, p.Name)
	}
}

// ProfileByName resolves a profile name.
func ProfileByName(name string) (*Profile, error) {
	p, ok := Profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// FrameSizeBytes returns the total encoded frame size (header plus
// payload) for the named profile.
func FrameSizeBytes(name string) (int, error) {
	p, err := ProfileByName(name)
	if err != nil {
		return 0, err
	}
	return HeaderSize + p.PayloadBytes, nil
}
