// Package export serializes the plan snapshot to a portable YAML
// document and back, optionally gzip-compressed. Reloaded records are
// re-normalized by the allocator during restore, so the document carries
// derived fields for readability but never trusts them.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"pairplan/internal/logging"
	"pairplan/internal/plan"
)

// documentVersion is bumped on incompatible document shape changes.
const documentVersion = 1

// Document is the on-disk interchange shape wrapping a snapshot.
type Document struct {
	Version    int        `yaml:"version"`
	ExportedAt time.Time  `yaml:"exportedAt"`
	Cables     []*plan.Cable   `yaml:"cables"`
	Circuits   []*plan.Circuit `yaml:"circuits"`
	Splices    []*plan.Splice  `yaml:"splices"`
}

// Exporter writes and reads plan snapshots.
type Exporter struct {
	logger *logging.Logger
}

// NewExporter creates a new exporter
func NewExporter(logger *logging.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// WriteSnapshot writes the snapshot as YAML to path. Compression is
// applied when requested or when the path ends in .gz.
func (e *Exporter) WriteSnapshot(snapshot *plan.Snapshot, path string, compress bool) error {
	doc := Document{
		Version:    documentVersion,
		ExportedAt: time.Now().UTC(),
		Cables:     snapshot.Cables,
		Circuits:   snapshot.Circuits,
		Splices:    snapshot.Splices,
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if compress || strings.HasSuffix(path, ".gz") {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return fmt.Errorf("failed to compress snapshot: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("failed to finalize compressed snapshot: %w", err)
		}
		data = buf.Bytes()
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	e.logger.Info("snapshot exported", logging.Fields{
		"path":     path,
		"cables":   len(snapshot.Cables),
		"circuits": len(snapshot.Circuits),
		"splices":  len(snapshot.Splices),
	})
	return nil
}

// ReadSnapshot reads a YAML snapshot from path, transparently handling
// gzip-compressed files (detected by magic bytes, not extension).
func (e *Exporter) ReadSnapshot(path string) (*plan.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to open compressed snapshot: %w", err)
		}
		defer zr.Close()
		data, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
		}
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d",
			doc.Version, documentVersion)
	}

	return &plan.Snapshot{
		Cables:   doc.Cables,
		Circuits: doc.Circuits,
		Splices:  doc.Splices,
	}, nil
}
