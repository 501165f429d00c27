package digest

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strings"

	"github.com/minio/blake2b-simd"
	"github.com/minio/sha256-simd"
	"golang.org/x/crypto/sha3"
)

// Algorithm names a digest function. Manifests are only comparable when
// produced with the same algorithm.
type Algorithm string

// Supported algorithms.
const (
	SHA512     Algorithm = "sha512"
	SHA256     Algorithm = "sha256"
	SHA3_512   Algorithm = "sha3-512"
	BLAKE2b512 Algorithm = "blake2b-512"
)

// Default is the algorithm used when none is configured.
const Default = SHA512

// ErrUnknownAlgorithm is returned for an algorithm name that is not registered.
var ErrUnknownAlgorithm = errors.New("unknown digest algorithm")

var constructors = map[Algorithm]func() hash.Hash{
	SHA512:     sha512.New,
	SHA256:     sha256.New,
	SHA3_512:   func() hash.Hash { return sha3.New512() },
	BLAKE2b512: blake2b.New512,
}

// ParseAlgorithm validates an algorithm name. Matching is case-insensitive
// and the empty string selects Default.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Default, nil
	}
	alg := Algorithm(name)
	if _, ok := constructors[alg]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return alg, nil
}

// Algorithms returns the registered algorithm names, sorted.
func Algorithms() []Algorithm {
	algs := make([]Algorithm, 0, len(constructors))
	for alg := range constructors {
		algs = append(algs, alg)
	}
	sort.Slice(algs, func(i, j int) bool { return algs[i] < algs[j] })
	return algs
}

// HexLen returns the length of the hex digest produced by alg, or 0 if alg
// is not registered.
func HexLen(alg Algorithm) int {
	ctor, ok := constructors[alg]
	if !ok {
		return 0
	}
	return ctor().Size() * 2
}
