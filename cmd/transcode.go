package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	wav "github.com/youpy/go-wav"

	"github.com/carli2/speech-server/pkg/audio"
	"github.com/carli2/speech-server/pkg/codec"
)

var transcodeCmd = &cobra.Command{
	Use:   "transcode <input.wav>",
	Short: "Round-trip a WAV file through the codec",
	Long: `Encode a WAV file frame by frame under the selected profile, decode
it again and write the result, reporting frame count, payload size and
level statistics. Input must be 48 kHz PCM WAV; multi-channel input is
averaged to mono.

Examples:
  # Telephone-quality round trip
  speech-server transcode input.wav --profile low --out low.wav

  # Effectively lossless
  speech-server transcode input.wav --profile full --out full.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscode,
}

func init() {
	rootCmd.AddCommand(transcodeCmd)

	transcodeCmd.Flags().String("profile", "medium", "Codec profile: low, medium, high, full")
	transcodeCmd.Flags().String("out", "out_transcoded.wav", "Output WAV file path")
}

func runTranscode(cmd *cobra.Command, args []string) error {
	inPath := args[0]
	profile, _ := cmd.Flags().GetString("profile")
	outPath, _ := cmd.Flags().GetString("out")

	frameSize, err := codec.FrameSizeBytes(profile)
	if err != nil {
		return err
	}

	samples, err := readWavMono(inPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}

	enc := codec.NewEncoder()
	out := make([]float32, 0, len(samples))
	frames := 0
	encodedBytes := 0

	for off := 0; off < len(samples); off += codec.FrameSamples {
		frame := make([]float32, codec.FrameSamples)
		copy(frame, samples[off:min(off+codec.FrameSamples, len(samples))])

		encoded, err := enc.Encode(frame, profile)
		if err != nil {
			return err
		}
		decoded, _, err := codec.DecodeFrame(encoded)
		if err != nil {
			return err
		}

		out = append(out, decoded...)
		frames++
		encodedBytes += len(encoded)
	}
	out = out[:min(len(out), len(samples))]

	if err := writeWavMono(outPath, out); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	rawBytes := len(samples) * 2
	fmt.Printf("profile:     %s (%d bytes/frame)\n", profile, frameSize)
	fmt.Printf("frames:      %d\n", frames)
	fmt.Printf("raw:         %d bytes\n", rawBytes)
	fmt.Printf("encoded:     %d bytes (%.1f%%)\n", encodedBytes, 100*float64(encodedBytes)/float64(max(rawBytes, 1)))
	fmt.Printf("in  RMS:     %.1f dBFS\n", audio.DBFS(audio.RMS(samples)))
	fmt.Printf("out RMS:     %.1f dBFS\n", audio.DBFS(audio.RMS(out)))
	return nil
}

// readWavMono loads a 16-bit PCM WAV file as mono float32 samples,
// averaging channels.
func readWavMono(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := wav.NewReader(f)
	format, err := reader.Format()
	if err != nil {
		return nil, err
	}
	if format.AudioFormat != wav.AudioFormatPCM {
		return nil, fmt.Errorf("unsupported WAV format %d (only PCM supported)", format.AudioFormat)
	}
	if format.SampleRate != codec.SampleRate {
		return nil, fmt.Errorf("sample rate %d Hz, want %d Hz", format.SampleRate, codec.SampleRate)
	}

	var mono []float32
	for {
		chunk, err := reader.ReadSamples(4096)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, s := range chunk {
			var sum float64
			for ch := uint(0); ch < uint(format.NumChannels); ch++ {
				sum += reader.FloatValue(s, ch)
			}
			mono = append(mono, float32(sum/float64(format.NumChannels)))
		}
	}
	return mono, nil
}

// writeWavMono stores float32 samples as a 16-bit mono 48 kHz WAV file.
func writeWavMono(path string, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := wav.NewWriter(f, uint32(len(samples)), 1, codec.SampleRate, 16)
	_, err = writer.Write(audio.Float32ToPCMS16LE(samples))
	return err
}
