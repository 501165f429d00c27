package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jamesainslie/dirhash/pkg/dirhash/types"
)

// PrettyFormatter renders a styled terminal view with lipgloss.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.header(r))
	w.WriteString("\n")

	if len(r.Records) > 0 {
		w.WriteString(f.records(r))
	}
	if r.Diff != nil {
		w.WriteString(f.diff(r))
	}
	if len(r.Runs) > 0 {
		w.WriteString(f.runs(r))
	}
	if r.Summary != nil {
		w.WriteString(f.summary(r.Summary))
		w.WriteString("\n")
	}
	if len(r.Errors) > 0 {
		w.WriteString(f.errors(r.Errors))
	}
	return nil
}

func (f *PrettyFormatter) header(r *Result) string {
	lines := []string{LabelStyle.Render("Source:") + " " + ValueStyle.Render(r.Source)}
	if r.Algorithm != "" {
		lines = append(lines, LabelStyle.Render("Algorithm:")+" "+ValueStyle.Render(r.Algorithm))
	}
	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) records(r *Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  %s%s\n",
		TableHeaderStyle.Render(padRight("DIGEST", 16)),
		TableHeaderStyle.Render("PATH"))
	for _, rec := range r.Records {
		fmt.Fprintf(&sb, "  %s  %s\n", DigestStyle.Render(padRight(shortDigest(rec.Digest), 16)), PathStyle.Render(rec.Path))
	}
	return sb.String()
}

func (f *PrettyFormatter) diff(r *Result) string {
	var sb strings.Builder
	entries := diffEntries(r.Diff)
	if len(entries) == 0 {
		sb.WriteString(MutedStyle.Render("  No differences") + "\n")
	}
	for _, e := range entries {
		style := statusStyles[e.Status]
		fmt.Fprintf(&sb, "  %s  %s\n", style.Render(padRight(e.Status, 7)), PathStyle.Render(e.Path))
	}

	parts := []string{
		AddedStyle.Render(fmt.Sprintf("%d added", len(r.Diff.Added))),
		ChangedStyle.Render(fmt.Sprintf("%d changed", len(r.Diff.Changed))),
		MissingStyle.Render(fmt.Sprintf("%d missing", len(r.Diff.Missing))),
		MutedStyle.Render(fmt.Sprintf("%d unchanged", r.Diff.Unchanged)),
	}
	sb.WriteString(FooterBox.Render(strings.Join(parts, "  ")))
	sb.WriteString("\n")
	return sb.String()
}

func (f *PrettyFormatter) runs(r *Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  %s%s%s%s\n",
		TableHeaderStyle.Render(padRight("ID", 36)),
		TableHeaderStyle.Render(padRight("CREATED", 16)),
		TableHeaderStyle.Render(padLeft("SIZE", 10)),
		TableHeaderStyle.Render("ROOT"))
	for _, run := range r.Runs {
		fmt.Fprintf(&sb, "  %s  %s  %s  %s\n",
			MutedStyle.Render(padRight(run.ID, 36)),
			ValueStyle.Render(padRight(types.FormatAge(run.CreatedAt), 16)),
			SizeStyle.Render(padLeft(types.FormatSize(run.Bytes), 10)),
			PathStyle.Render(run.Root))
	}
	return sb.String()
}

func (f *PrettyFormatter) summary(s *Summary) string {
	parts := []string{
		LabelStyle.Render("Files:") + " " + ValueStyle.Render(types.FormatCount(s.Files)),
		LabelStyle.Render("Total:") + " " + SizeStyle.Render(types.FormatSize(s.Bytes)),
		LabelStyle.Render("Elapsed:") + " " + ValueStyle.Render(s.Elapsed.Round(time.Millisecond).String()),
	}
	if s.Errors > 0 {
		parts = append(parts, ErrorStyle.Render(fmt.Sprintf("%d errors", s.Errors)))
	}
	lines := []string{
		strings.Join(parts, "  "),
		LabelStyle.Render("Fingerprint:") + " " + DigestStyle.Render(s.ManifestDigest),
	}
	return FooterBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) errors(msgs []string) string {
	var sb strings.Builder
	sb.WriteString(ErrorStyle.Bold(true).Render("Errors:"))
	sb.WriteString("\n")
	for _, msg := range msgs {
		sb.WriteString(ErrorStyle.Render("  " + msg))
		sb.WriteString("\n")
	}
	return sb.String()
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

var _ Formatter = (*PrettyFormatter)(nil)
