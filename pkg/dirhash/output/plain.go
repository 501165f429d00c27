package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jamesainslie/dirhash/pkg/dirhash/types"
)

// diffMarks prefixes diff lines in plain output.
var diffMarks = map[string]string{
	StatusAdded:   "+",
	StatusChanged: "~",
	StatusMissing: "-",
}

// PlainFormatter writes unstyled, column-aligned text.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	if len(r.Records) > 0 {
		fmt.Fprintln(tw, "DIGEST\tPATH")
		for _, rec := range r.Records {
			fmt.Fprintf(tw, "%s\t%s\n", rec.Digest, rec.Path)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	for _, e := range diffEntries(r.Diff) {
		fmt.Fprintf(tw, "%s %s\n", diffMarks[e.Status], e.Path)
	}
	if r.Diff != nil {
		fmt.Fprintf(tw, "%d added, %d changed, %d missing, %d unchanged\n",
			len(r.Diff.Added), len(r.Diff.Changed), len(r.Diff.Missing), r.Diff.Unchanged)
	}

	if len(r.Runs) > 0 {
		fmt.Fprintln(tw, "ID\tROOT\tCREATED\tFILES\tSIZE\tERRORS")
		for _, run := range r.Runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\n",
				run.ID, run.Root, run.CreatedAt.Local().Format(time.DateTime),
				run.Files, types.FormatSize(run.Bytes), run.Errors)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if s := r.Summary; s != nil {
		fmt.Fprintf(tw, "files:\t%d\n", s.Files)
		fmt.Fprintf(tw, "bytes:\t%d\n", s.Bytes)
		fmt.Fprintf(tw, "errors:\t%d\n", s.Errors)
		fmt.Fprintf(tw, "fingerprint:\t%s\n", s.ManifestDigest)
	}

	for _, msg := range r.Errors {
		fmt.Fprintf(tw, "error: %s\n", msg)
	}

	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

var _ Formatter = (*PlainFormatter)(nil)
