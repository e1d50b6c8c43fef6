// Package ingest lands external data into the raw data directory, where
// validation runs pick it up. Sources are local files, HTTP APIs, and
// SQL databases; every ingestion writes one dated file and returns its
// path.
package ingest

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Config wires an Ingestor.
type Config struct {
	// RawDir is the root of the raw data tree; files land under
	// <RawDir>/<YYYY-MM-DD>/.
	RawDir string
	// Client is used for API ingestion. Defaults to a client with a
	// 30-second timeout.
	Client *http.Client
	// Logger receives ingestion progress. Defaults to a discard logger.
	Logger *slog.Logger
	// Now supplies the landing date; defaults to time.Now.
	Now func() time.Time
}

// Ingestor lands datasets into the raw data tree.
type Ingestor struct {
	cfg Config
}

// New creates an ingestor from cfg, filling defaults.
func New(cfg Config) *Ingestor {
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Ingestor{cfg: cfg}
}

// landingDir resolves (and creates) today's landing directory.
func (i *Ingestor) landingDir() (string, error) {
	dir := filepath.Join(i.cfg.RawDir, i.cfg.Now().Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create landing dir %s: %w", dir, err)
	}
	return dir, nil
}

// land writes data as name inside today's landing directory, atomically.
func (i *Ingestor) land(name string, data []byte) (string, error) {
	dir, err := i.landingDir()
	if err != nil {
		return "", err
	}
	dest := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, ".ingest-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", dest, err)
	}

	i.cfg.Logger.Info("dataset landed", slog.String("path", dest))
	return dest, nil
}

// FromFile copies a local file into today's landing directory under its
// own base name.
func (i *Ingestor) FromFile(src string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read source %s: %w", src, err)
	}
	return i.land(filepath.Base(src), data)
}
