package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/carli2/speech-server/internal/app"
	"github.com/carli2/speech-server/internal/config"
	"github.com/carli2/speech-server/internal/infrastructure"
	"github.com/carli2/speech-server/internal/server"
	"github.com/carli2/speech-server/internal/transport"
	pkginfra "github.com/carli2/speech-server/pkg/infrastructure"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the codec WebSocket server",
	Long: `Run the codec socket server. Clients connect to /ws/socket/<id>,
negotiate a profile in the opening handshake and then exchange encoded
codec frames as binary WebSocket messages.`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("config", "config.yaml", "Path to the YAML configuration file")
}

func runServe(cmd *cobra.Command, _ []string) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config flag: %v\n", err)
		os.Exit(1)
	}

	application := app.New(
		// Core modules
		config.Module,
		infrastructure.LoggerModule,

		// Application modules
		transport.Module,
		server.Module,

		// Supply the config path
		fx.Supply(configPath),

		// Route Fx's own logging through Zap
		fx.WithLogger(pkginfra.NewFxLoggerAdapter),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go application.Run()

	sig := <-sigCh
	fmt.Printf("Received signal: %s, initiating shutdown.\n", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = application.Stop(shutdownCtx)
	cancel()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		os.Exit(1)
	}
}
