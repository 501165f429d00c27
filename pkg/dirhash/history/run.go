package history

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/jamesainslie/dirhash/pkg/dirhash/manifest"
)

// Run is one recorded hash run.
type Run struct {
	ID             string            `json:"id" yaml:"id"`
	Root           string            `json:"root" yaml:"root"`
	Algorithm      string            `json:"algorithm" yaml:"algorithm"`
	CreatedAt      time.Time         `json:"created_at" yaml:"created_at"`
	ManifestDigest string            `json:"manifest_digest" yaml:"manifest_digest"`
	Files          int64             `json:"files" yaml:"files"`
	Bytes          int64             `json:"bytes" yaml:"bytes"`
	Errors         []string          `json:"errors,omitempty" yaml:"errors,omitempty"`
	Records        []manifest.Record `json:"records,omitempty" yaml:"records,omitempty"`
}

func (r *Run) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Run) decode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(r)
}

const (
	runPrefix = "run:"
	idPrefix  = "id:"
)

// rootPrefix returns the key prefix shared by every run of root. Roots are
// hashed so that keys have a fixed shape whatever the path contains.
func rootPrefix(root string) []byte {
	return fmt.Appendf(nil, "%s%016x:", runPrefix, xxhash.Sum64String(root))
}

// runKey orders a root's runs by creation time.
func runKey(r *Run) []byte {
	return fmt.Appendf(rootPrefix(r.Root), "%020d:%s", r.CreatedAt.UnixNano(), r.ID)
}

func idKey(id string) []byte {
	return []byte(idPrefix + id)
}
