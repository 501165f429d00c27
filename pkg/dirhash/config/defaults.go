// Package config loads dirhash settings from a YAML file and DIRHASH_*
// environment variables.
package config

const (
	// DefaultAlgorithm names the digest used when none is configured.
	DefaultAlgorithm = "sha512"

	// DefaultOutput is the formatter used by commands that print results.
	DefaultOutput = "plain"

	// DefaultRetentionDays bounds how long recorded runs are kept.
	DefaultRetentionDays = 90

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "DIRHASH"

	appName = "dirhash"
)

// DefaultComponents are the logger components with their default levels.
var DefaultComponents = map[string]string{
	"walker":  "info",
	"hasher":  "info",
	"history": "info",
	"cli":     "info",
}
