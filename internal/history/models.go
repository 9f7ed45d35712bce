package history

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// Status is the outcome recorded for one conversion.
type Status string

const (
	StatusConverted Status = "converted"
	StatusEmpty     Status = "empty"
	StatusFailed    Status = "failed"
	StatusUnchanged Status = "unchanged"
)

// ParseStatus accepts the values of the Status constants.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case StatusConverted, StatusEmpty, StatusFailed, StatusUnchanged:
		return status, nil
	default:
		return "", fmt.Errorf("history status: unsupported value %q", value)
	}
}

// Entry is one row of the conversion ledger.
type Entry struct {
	ID          int64
	RunID       string
	SourcePath  string
	OutputPath  string
	InputDigest string
	Status      Status
	Captions    int
	Skipped     int
	Discarded   int
	Records     int
	SourceRate  string
	TargetRate  string
	CodePage    string
	Message     string
	Duration    time.Duration
	CreatedAt   time.Time
}

// NewRunID returns an identifier shared by every entry of one CLI invocation.
func NewRunID() string {
	return uuid.NewString()
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ShortDigest trims a digest for display.
func ShortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
