package output

import (
	"bytes"
	"encoding/json"

	"github.com/jamesainslie/dirhash/pkg/dirhash/diff"
	"github.com/jamesainslie/dirhash/pkg/dirhash/manifest"
)

// document is the shape shared by the json and yaml formatters.
type document struct {
	Source    string            `json:"source" yaml:"source"`
	Algorithm string            `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Records   []manifest.Record `json:"records,omitempty" yaml:"records,omitempty"`
	Diff      *diff.Result      `json:"diff,omitempty" yaml:"diff,omitempty"`
	Runs      []Run             `json:"runs,omitempty" yaml:"runs,omitempty"`
	Summary   *documentSummary  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Errors    []string          `json:"errors,omitempty" yaml:"errors,omitempty"`
}

type documentSummary struct {
	Files          int64  `json:"files" yaml:"files"`
	Bytes          int64  `json:"bytes" yaml:"bytes"`
	Errors         int    `json:"errors" yaml:"errors"`
	Elapsed        string `json:"elapsed" yaml:"elapsed"`
	ManifestDigest string `json:"manifest_digest" yaml:"manifest_digest"`
}

func newDocument(r *Result) document {
	doc := document{
		Source:    r.Source,
		Algorithm: r.Algorithm,
		Records:   r.Records,
		Diff:      r.Diff,
		Runs:      r.Runs,
		Errors:    r.Errors,
	}
	if s := r.Summary; s != nil {
		doc.Summary = &documentSummary{
			Files:          s.Files,
			Bytes:          s.Bytes,
			Errors:         s.Errors,
			Elapsed:        s.Elapsed.String(),
			ManifestDigest: s.ManifestDigest,
		}
	}
	return doc
}

// JSONFormatter writes one indented JSON document.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newDocument(r))
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter writes one compact JSON object per record, diff entry, run
// or error, for streaming into tools like jq.
type JSONLFormatter struct{}

type jsonlError struct {
	Error string `json:"error"`
}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := json.NewEncoder(w)
	for _, rec := range r.Records {
		if err := encoder.Encode(rec); err != nil {
			return err
		}
	}
	for _, e := range diffEntries(r.Diff) {
		if err := encoder.Encode(e); err != nil {
			return err
		}
	}
	for _, run := range r.Runs {
		if err := encoder.Encode(run); err != nil {
			return err
		}
	}
	for _, msg := range r.Errors {
		if err := encoder.Encode(jsonlError{Error: msg}); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

var _ Formatter = (*JSONLFormatter)(nil)
