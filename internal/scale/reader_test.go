package scale

import (
	"context"
	"testing"

	"scrap-backend/internal/config"
)

func newTestReader(command string, timeoutSeconds int) *Reader {
	cfg := &config.Config{}
	cfg.Scale.ReaderCommand = command
	cfg.Scale.TimeoutSeconds = timeoutSeconds
	return NewReader(cfg)
}

func TestReadParsesWeight(t *testing.T) {
	r := newTestReader("echo 42.5", 5)

	got, err := r.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Peso != 42.5 {
		t.Errorf("Peso = %v, want 42.5", got.Peso)
	}
	if !got.ConexionBascula {
		t.Error("reading not flagged as scale capture")
	}
}

func TestReadRejectsGarbageOutput(t *testing.T) {
	r := newTestReader("echo no-es-un-peso", 5)

	if _, err := r.Read(context.Background()); err == nil {
		t.Error("garbage output accepted")
	}
}

func TestReadRejectsNegativeWeight(t *testing.T) {
	r := newTestReader("echo -3.2", 5)

	if _, err := r.Read(context.Background()); err == nil {
		t.Error("negative weight accepted")
	}
}

func TestReadUnconfiguredCommand(t *testing.T) {
	r := newTestReader("", 5)

	if _, err := r.Read(context.Background()); err == nil {
		t.Error("missing command accepted")
	}
}

func TestReadTimesOut(t *testing.T) {
	r := newTestReader("sleep 5", 1)

	if _, err := r.Read(context.Background()); err == nil {
		t.Error("hung reader did not time out")
	}
}
