package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 40 bits of space is plenty for a single workspace.
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

// NewNodeID generates a node id that is unused in db.
func NewNodeID(db *DB) (string, error) {
	for {
		id, err := newRandomID("node")
		if err != nil {
			return "", err
		}
		if _, exists := db.FindNode(id); !exists {
			return id, nil
		}
	}
}
