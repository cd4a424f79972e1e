package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "speech-server",
	Short: "Fourier voice codec server and tooling",
	Long: `speech-server - realtime voice transport built on a perceptually
weighted frequency-domain audio codec.

1024-sample 48 kHz PCM frames are FFT-analyzed and the low half of the
spectrum is quantized under a psychoacoustic bit-weighting profile
(low, medium, high, full), then packed into compact self-describing
binary frames.

Commands:
  - serve: run the codec WebSocket server
  - transcode: round-trip a WAV file through the codec for inspection`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
