// The tracer binary runs one instrumented submission and streams its trace
// as newline-delimited JSON on stdout — the one-way channel the controlling
// process consumes. Operational logs go to stderr; the side mirror file is
// truncated at start.
//
// Exit code 0 means natural completion; 1 means early termination or an
// uncaught fatal error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/config"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/logging"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/sandbox"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/session"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/stream"
)

func main() {
	file := flag.String("file", "-", "instrumented program file, - for stdin")
	mirrorPath := flag.String("mirror", "", "side-channel log path (default from config)")
	quiet := flag.Bool("quiet", false, "suppress operational logs")
	flag.Parse()

	cfg := config.LoadOrDefault()

	var logger *logging.Logger
	switch {
	case *quiet:
		logger = &logging.Logger{Logger: zap.NewNop()}
	case cfg.Logging.Development:
		logger = logging.NewDevelopment()
	default:
		logger = logging.NewDefault()
	}

	source, err := readSource(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read source: %v\n", err)
		os.Exit(1)
	}

	sinks := stream.Multi{stream.NewNDJSON(os.Stdout)}
	if cfg.Mirror.Enabled {
		path := cfg.Mirror.Path
		if *mirrorPath != "" {
			path = *mirrorPath
		}
		mirror, err := stream.OpenMirror(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open mirror: %v\n", err)
			os.Exit(1)
		}
		sinks = append(sinks, mirror)
	}

	sess := session.New(cfg.Limits.Limits(), sandbox.DefaultCapabilities(), sinks, logger)
	result := sess.Run(context.Background(), source)

	// Every posted event is already out; closing the sinks only releases the
	// mirror file handle.
	_ = sinks.Close()
	os.Exit(result.Status.ExitCode())
}

func readSource(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
