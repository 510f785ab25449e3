package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/collegescout/internal/config"
	"github.com/jmylchreest/collegescout/internal/logger"
	"github.com/jmylchreest/collegescout/internal/version"
	"github.com/jmylchreest/collegescout/pkg/fetcher"
	"github.com/jmylchreest/collegescout/pkg/generate"
)

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// parseBodySize accepts sizes like "5MB"; empty or "0" keeps the default.
func parseBodySize(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid max-body-size %q: %w", s, err)
	}
	return int(n), nil
}

// buildFetcher creates the fetcher stack from config. A positive maxBodySize
// overrides the static fetcher's body cap.
func buildFetcher(cfg config.Config, maxBodySize int) fetcher.Fetcher {
	fc := cfg.Fetcher()
	if maxBodySize > 0 {
		fc.Static.MaxBodySize = maxBodySize
	}
	logger.Debug("fetcher configured",
		"timeout", fc.Static.Timeout,
		"dynamic_fallback", fc.UseDynamicFallback,
		"max_body_size", humanize.IBytes(uint64(fc.Static.MaxBodySize)))
	return fetcher.New(fc)
}

// buildGenerator creates the content generator. Without generation the
// static fallback content is used for every record.
func buildGenerator(cfg config.Config, enabled bool) generate.Generator {
	if !enabled {
		logger.Debug("content generation disabled")
		return generate.Static{}
	}
	chain := generate.BuildChain(cfg.Chain(version.AppTitle()))
	logger.Debug("generator chain built", "chain", chain.Name())
	return chain
}

// createOutput opens path for writing, or returns stdout for an empty path.
func createOutput(path string) (*os.File, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path) //#nosec G304 -- CLI tool writes to user-specified output file
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
