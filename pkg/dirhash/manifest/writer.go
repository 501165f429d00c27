package manifest

import (
	"bufio"
	"io"
)

// Writer streams records to an underlying writer. Output is buffered; call
// Flush when done.
type Writer struct {
	w     *bufio.Writer
	count int
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends one record. An invalid record is rejected before any byte of
// it is written.
func (w *Writer) Write(rec Record) error {
	if err := Validate(rec); err != nil {
		return err
	}
	w.w.WriteString(rec.Digest)
	w.w.WriteByte(separator)
	w.w.WriteString(rec.Path)
	if err := w.w.WriteByte(terminator); err != nil {
		return err
	}
	w.count++
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

// Format returns the manifest line for rec, including the trailing newline.
func Format(rec Record) (string, error) {
	if err := Validate(rec); err != nil {
		return "", err
	}
	return rec.Digest + string(separator) + rec.Path + string(terminator), nil
}
