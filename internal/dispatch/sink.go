package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink receives finished reports. The dispatcher itself never persists
// anything; callers wire one or more sinks.
type Sink interface {
	Write(ctx context.Context, r Report) error
}

// WriterSink streams each report as indented JSON.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Write(_ context.Context, r Report) error {
	enc := json.NewEncoder(s.W)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// FileSink persists each report as report-<id>.json under Dir, creating
// the directory on first use.
type FileSink struct {
	Dir string
}

func (s FileSink) Write(_ context.Context, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	return os.WriteFile(filepath.Join(s.Dir, "report-"+r.ID+".json"), data, 0o644)
}
