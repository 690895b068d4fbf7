package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer generates cache keys for rendered diagrams.
type Keyer interface {
	// RenderKey returns the key for document bytes of the given kind
	// ("flowchart", "sequence", "pie") rendered with opts.
	RenderKey(kind string, doc []byte, opts RenderKeyOpts) string
}

// RenderKeyOpts lists every input besides the document that changes the
// rendered output.
type RenderKeyOpts struct {
	ASCII         bool   `json:"ascii"`
	Colors        bool   `json:"colors"`
	MaxWidth      int    `json:"max_width"`
	PaddingX      int    `json:"padding_x"`
	PaddingY      int    `json:"padding_y"`
	BorderPadding int    `json:"border_padding"`
	Version       string `json:"version"`
}

// DefaultKeyer produces "render:<kind>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey hashes kind, the document hash and opts together.
func (DefaultKeyer) RenderKey(kind string, doc []byte, opts RenderKeyOpts) string {
	return hashKey("render:"+kind, Hash(doc), opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
