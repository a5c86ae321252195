package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/burakmert236/firstblood/common/logger"
	"github.com/burakmert236/firstblood/common/models"
	"github.com/spf13/afero"
)

// StdoutPath sends the report to the configured writer instead of a file.
const StdoutPath = "-"

type ReportFileRepository struct {
	fs     afero.Fs
	path   string
	indent int
	stdout io.Writer
	logger *logger.Logger
}

func NewReportFileRepository(
	fs afero.Fs,
	path string,
	indent int,
	stdout io.Writer,
	log *logger.Logger,
) *ReportFileRepository {
	return &ReportFileRepository{
		fs:     fs,
		path:   path,
		indent: indent,
		stdout: stdout,
		logger: log.With("component", "ReportFileRepository"),
	}
}

func (r *ReportFileRepository) Name() string {
	if r.path == StdoutPath {
		return "stdout"
	}
	return r.path
}

// EncodeAwards renders awards as a JSON array. indent <= 0 gives compact
// output. Non-ASCII names are written as-is.
func EncodeAwards(awards []models.AwardRecord, indent int) ([]byte, error) {
	if awards == nil {
		awards = []models.AwardRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	if err := enc.Encode(awards); err != nil {
		return nil, fmt.Errorf("failed to encode awards: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *ReportFileRepository) Save(ctx context.Context, report *models.Report) error {
	data, err := EncodeAwards(report.Awards, r.indent)
	if err != nil {
		return err
	}

	if r.path == StdoutPath {
		if _, err := r.stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write report to stdout: %w", err)
		}
		return nil
	}

	if err := r.writeAtomic(data); err != nil {
		r.logger.Error("Failed to write report file",
			"error", err,
			"path", r.path,
		)
		return err
	}

	r.logger.Debug("Report file written", "path", r.path, "bytes", len(data))
	return nil
}

// writeAtomic writes next to the target and renames, so readers never see a
// partial report.
func (r *ReportFileRepository) writeAtomic(data []byte) error {
	dir := filepath.Dir(r.path)
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := afero.TempFile(r.fs, dir, ".firstblood-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		r.fs.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		r.fs.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := r.fs.Rename(tmpName, r.path); err != nil {
		r.fs.Remove(tmpName)
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}
