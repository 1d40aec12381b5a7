package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/system_observer/internal/errors"
	"github.com/Dicklesworthstone/system_observer/internal/model"
	"github.com/Dicklesworthstone/system_observer/internal/sampler"
)

func writeJSON(w io.Writer, snap model.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return outputError(err)
	}
	return nil
}

func writeYAML(w io.Writer, snap model.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return outputError(err)
	}
	if err := enc.Close(); err != nil {
		return outputError(err)
	}
	return nil
}

// streamJSON writes one compact JSON snapshot per line every interval until
// ctx is done or the process receives SIGINT/SIGTERM.
func streamJSON(ctx context.Context, w io.Writer, s *sampler.Sampler, interval time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(w)
	for snap := range s.Stream(ctx, interval) {
		if err := enc.Encode(snap); err != nil {
			return outputError(err)
		}
	}
	return nil
}

func outputError(err error) error {
	return errors.WrapWithCode(err, errors.ErrOutput,
		"cannot write snapshot",
		"Check that the output pipe is still open")
}
