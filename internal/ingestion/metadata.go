package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata is the provenance record written next to a cleaned outline source.
// The hash and rune count describe the text handed to the outline model.
type Metadata struct {
	URL       string `json:"url,omitempty"`
	Title     string `json:"title,omitempty"`
	Timestamp string `json:"timestamp"`
	Hash      string `json:"hash"`
	Platform  string `json:"platform,omitempty"`
	Chars     int    `json:"chars"`
}

// NewMetadata stamps cleaned source text. url is empty for pasted text and
// uploaded files.
func NewMetadata(cleaned, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      textDigest(cleaned),
		Chars:     len([]rune(cleaned)),
	}
}

// textDigest is the hex SHA-256 of text.
func textDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ToJSON renders the record indented, as saved in source.meta.json.
func (m *Metadata) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode source metadata: %w", err)
	}
	return data, nil
}
