// Package fingerprint tracks the last observed state of source files.
//
// A Fingerprint pairs a modification time with a content digest. The digest
// is authoritative: two fingerprints are equal iff their hashes are equal.
// The modification time is only a cheap pre-filter so unchanged files are
// ruled out without re-reading them.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Fingerprint is the recorded state of a file at last observation.
type Fingerprint struct {
	ModTime     int64  `json:"mod_time"` // unix nanoseconds
	ContentHash string `json:"hash"`     // sha256, hex encoded
}

// Equal reports digest equality. ModTime deliberately does not participate.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.ContentHash == other.ContentHash
}

// IsZero reports whether f carries no observation.
func (f Fingerprint) IsZero() bool {
	return f.ModTime == 0 && f.ContentHash == ""
}

// HashFile computes the hex-encoded sha256 digest of the file contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", sgerrors.HashError(path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", sgerrors.HashError(path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Probe compares the file at path against a prior observation and returns a
// fresh fingerprint when the content actually changed.
//
// The check is two-stage: the stat mtime rules out the common untouched case
// without reading the file; content hashing is reserved for files whose
// mtime advanced, which also absorbs metadata-only touches that don't alter
// bytes. A missing file is not an error here - deletion is detected by the
// scanner's working-set elimination, so Probe just reports no change.
func Probe(path string, prior Fingerprint, havePrior bool) (Fingerprint, bool, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Fingerprint{}, false, nil
	}

	modTime := info.ModTime().UnixNano()
	if havePrior && prior.ModTime >= modTime {
		return Fingerprint{}, false, nil
	}

	hash, err := HashFile(path)
	if err != nil {
		return Fingerprint{}, false, err
	}
	if havePrior && prior.ContentHash == hash {
		return Fingerprint{}, false, nil
	}
	return Fingerprint{ModTime: modTime, ContentHash: hash}, true, nil
}
