package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sofmeright/buildlens/src/metrics"
	"github.com/sofmeright/buildlens/src/timeseries"
)

// Table file names.
const (
	CurrentFile    = "metrics-current.csv"
	ArchivedFile   = "metrics-archived.csv"
	ConcurrentFile = "metrics-concurrent.csv"
)

// WriteRows writes a metrics table with its header.
func WriteRows(w io.Writer, rows []metrics.Row) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(metrics.Columns))
	for i, c := range metrics.Columns {
		header[i] = c.Header
	}
	cw.Write(header)

	rec := make([]string, len(metrics.Columns))
	for i := range rows {
		for j, c := range metrics.Columns {
			rec[j] = cell(c.Value(&rows[i]))
		}
		cw.Write(rec)
	}

	cw.Flush()
	return cw.Error()
}

// WriteConcurrency writes the concurrency series.
func WriteConcurrency(w io.Writer, events []timeseries.Event) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"timestamp", "nbuilds"})
	for _, ev := range events {
		cw.Write([]string{ev.At.UTC().Format(metrics.CompletionLayout), strconv.Itoa(ev.Count)})
	}
	cw.Flush()
	return cw.Error()
}

// WriteReport writes all three tables into dir and returns their paths.
func WriteReport(dir string, rep *metrics.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{CurrentFile, func(w io.Writer) error { return WriteRows(w, rep.Current) }},
		{ArchivedFile, func(w io.Writer) error { return WriteRows(w, rep.Archived) }},
		{ConcurrentFile, func(w io.Writer) error { return WriteConcurrency(w, rep.Concurrent) }},
	}

	var paths []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeFile(path, f.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(fh); err != nil {
		fh.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return fh.Close()
}

// cell renders one table value. NaN prints as "nan".
func cell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		if math.IsNaN(x) {
			return "nan"
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.UTC().Format(metrics.CompletionLayout)
	default:
		return fmt.Sprint(x)
	}
}
