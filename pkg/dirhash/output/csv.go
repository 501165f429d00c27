package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"
)

// CSVFormatter writes RFC 4180 CSV. Each section present in the result gets
// its own header row.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	cw := csv.NewWriter(w)

	if len(r.Records) > 0 {
		_ = cw.Write([]string{"digest", "path"})
		for _, rec := range r.Records {
			_ = cw.Write([]string{rec.Digest, rec.Path})
		}
	}

	if entries := diffEntries(r.Diff); len(entries) > 0 {
		_ = cw.Write([]string{"status", "path", "old", "new"})
		for _, e := range entries {
			_ = cw.Write([]string{e.Status, e.Path, e.Old, e.New})
		}
	}

	if len(r.Runs) > 0 {
		_ = cw.Write([]string{"id", "root", "algorithm", "created_at", "files", "bytes", "errors", "manifest_digest"})
		for _, run := range r.Runs {
			_ = cw.Write([]string{
				run.ID,
				run.Root,
				run.Algorithm,
				run.CreatedAt.UTC().Format(time.RFC3339),
				strconv.FormatInt(run.Files, 10),
				strconv.FormatInt(run.Bytes, 10),
				strconv.Itoa(run.Errors),
				run.ManifestDigest,
			})
		}
	}

	if len(r.Errors) > 0 {
		_ = cw.Write([]string{"error"})
		for _, msg := range r.Errors {
			_ = cw.Write([]string{msg})
		}
	}

	cw.Flush()
	return cw.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

var _ Formatter = (*CSVFormatter)(nil)
