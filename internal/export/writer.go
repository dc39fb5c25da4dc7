package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fjglira/tcgen/internal/domain"
)

// WriteCSV writes the header row followed by rows.
func WriteCSV(w io.Writer, rows []domain.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.RowHeader[:]); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row[:]); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes rows as CSV to path, creating parent directories.
func WriteFile(path string, rows []domain.Row) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.NewError("write", dir, 0, "failed to create output directory", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return domain.NewError("write", path, 0, "failed to create output file", err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return domain.NewError("write", path, 0, "failed to write output file", err)
	}
	if err := f.Close(); err != nil {
		return domain.NewError("write", path, 0, "failed to close output file", err)
	}
	return nil
}

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName derives <document>_<machine>_v<version>.csv from the source document path.
func FileName(document, machine, version string) string {
	base := strings.TrimSuffix(filepath.Base(document), filepath.Ext(document))
	if base == "" || base == "." {
		base = "tests"
	}
	name := base + "_" + machine + "_v" + version
	return unsafeNameRe.ReplaceAllString(name, "_") + ".csv"
}
