// Package scale bridges the HTTP API to the serial scale reader
// process. The reader is an external command that prints one decimal
// weight to stdout and exits.
package scale

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"scrap-backend/internal/config"
)

// Reading is one weight sample from the plant scale
type Reading struct {
	Peso            float64 `json:"peso"`
	ConexionBascula bool    `json:"conexion_bascula"`
}

type Reader struct {
	command []string
	timeout time.Duration
}

func NewReader(cfg *config.Config) *Reader {
	return &Reader{
		command: strings.Fields(cfg.Scale.ReaderCommand),
		timeout: time.Duration(cfg.Scale.TimeoutSeconds) * time.Second,
	}
}

// Read invokes the reader command once and parses the weight it
// printed. An unplugged or silent scale surfaces as an error, never
// as a zero reading.
func (r *Reader) Read(ctx context.Context) (*Reading, error) {
	if len(r.command) == 0 {
		return nil, errors.New("scale reader command not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.New("scale reader timed out")
		}
		return nil, err
	}

	peso, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return nil, errors.New("scale reader produced unreadable output")
	}
	if peso < 0 {
		return nil, errors.New("scale reported a negative weight")
	}

	return &Reading{Peso: peso, ConexionBascula: true}, nil
}
