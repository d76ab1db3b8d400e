package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"ourjourney/internal/config"
	"ourjourney/internal/db"
	"ourjourney/internal/entry"
	"ourjourney/internal/errors"
	"ourjourney/internal/ics"
)

// Export formats
const (
	ExportFormatJSONL = "jsonl"
	ExportFormatICS   = "ics"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path           string  // optional, default: ~/.ourjourney/exports/<type|journal>-<timestamp>.<ext>
	Format         string  // "jsonl" (default) or "ics"
	Type           *string // optional filter by entry type
	IncludeDeleted bool    // jsonl only
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Format     string `json:"format"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader represents the header line in a JSONL export file.
type ExportHeader struct {
	JournalExport bool   `json:"_ourjourney_export"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"`
}

// Export writes journal entries to a file. JSONL exports carry every field
// of every matching entry; ICS exports carry only schedulable entries, as
// calendar events.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	exportedAt := now.Unix()

	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format == "" {
		format = ExportFormatJSONL
	}
	if format != ExportFormatJSONL && format != ExportFormatICS {
		return nil, errors.NewInvalidRequest("format must be one of: jsonl, ics")
	}

	// Determine export path
	exportPath := input.Path
	if exportPath == "" {
		var err error
		exportPath, err = defaultExportPath(input.Type, format, now)
		if err != nil {
			return nil, err
		}
	}

	// Validate ALL paths (both user-provided and default) for security
	if err := ValidateExportPath(exportPath, cfg); err != nil {
		return nil, err
	}
	if want := "." + format; filepath.Ext(exportPath) != want {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("path must have %s extension for %s format", want, format))
	}

	// Ensure parent directory exists
	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	// Write to temp file first, then atomic rename to preserve existing file on failure
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	// Clean up temp file on failure (original file is preserved)
	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	var count int
	switch format {
	case ExportFormatJSONL:
		count, err = writeJSONLExport(ctx, file, database, input, exportedAt)
	case ExportFormatICS:
		count, err = writeICSExport(ctx, file, database, input)
	}
	if err != nil {
		return nil, err
	}

	// Ensure file is written
	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Close before atomic replace (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// Check if destination is a symlink (os.Rename would follow it)
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	// Finalize export by renaming temp file into place.
	//
	// Note: On Windows, os.Rename fails if the destination exists. We intentionally
	// fail safely (preserving the existing file) instead of doing a non-atomic
	// delete+rename that could lose the original if rename fails.
	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       exportPath,
		Format:     format,
		Count:      count,
		ExportedAt: exportedAt,
	}, nil
}

// writeJSONLExport streams entries into a JSONL file: one header line, then
// one entry per line, oldest first.
func writeJSONLExport(ctx context.Context, file *os.File, database *sql.DB, input ExportInput, exportedAt int64) (int, error) {
	header := ExportHeader{
		JournalExport: true,
		SchemaVersion: "1.0",
		ExportedAt:    exportedAt,
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	if _, err := file.Write(append(headerJSON, '\n')); err != nil {
		return 0, errors.NewInternal(err)
	}

	rows, err := db.StreamForExport(database, input.Type, input.IncludeDeleted)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		select {
		case <-ctx.Done():
			return 0, errors.NewCancelled("export")
		default:
		}

		e, err := db.ScanEntryFromRows(rows)
		if err != nil {
			return 0, errors.NewInternal(err)
		}

		recordJSON, err := json.Marshal(e)
		if err != nil {
			return 0, errors.NewInternal(err)
		}
		if _, err := file.Write(append(recordJSON, '\n')); err != nil {
			return 0, errors.NewInternal(err)
		}

		count++
	}
	if err := rows.Err(); err != nil {
		return 0, errors.NewInternal(err)
	}

	return count, nil
}

// writeICSExport writes schedulable entries as an iCalendar file.
func writeICSExport(ctx context.Context, file *os.File, database *sql.DB, input ExportInput) (int, error) {
	rows, err := db.StreamForExport(database, input.Type, false)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var entries []entry.Entry
	for rows.Next() {
		select {
		case <-ctx.Done():
			return 0, errors.NewCancelled("export")
		default:
		}

		e, err := db.ScanEntryFromRows(rows)
		if err != nil {
			return 0, errors.NewInternal(err)
		}
		if e.Type.Schedulable() && e.TargetDate != nil {
			entries = append(entries, *e)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, errors.NewInternal(err)
	}

	cal, err := ics.BuildCalendar(entries)
	if err != nil {
		return 0, err
	}
	if err := ical.NewEncoder(file).Encode(cal); err != nil {
		return 0, errors.NewInternal(fmt.Errorf("failed to encode calendar: %w", err))
	}

	return len(entries), nil
}

// defaultExportPath generates the default export path.
// Format: ~/.ourjourney/exports/<type|journal>-<timestamp>.<ext>
func defaultExportPath(typeFilter *string, format string, now time.Time) (string, error) {
	exportsDir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}

	timestamp := now.Format("2006-01-02T150405")
	name := "journal"
	if typeFilter != nil && *typeFilter != "" {
		name = SanitizeForFilename(entry.Normalize(*typeFilter))
	}

	filename := fmt.Sprintf("%s-%s.%s", name, timestamp, format)
	return filepath.Join(exportsDir, filename), nil
}
