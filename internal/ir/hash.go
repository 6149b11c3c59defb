package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainPress is the domain prefix for content-addressed press IDs.
// The version suffix allows a future algorithm migration.
const DomainPress = "tally/press/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PressID computes the content-addressed ID of a key press.
//
// The ID covers what was pressed and when (session, seq, key), not what the
// engine displayed afterwards, so a replay that diverges still addresses
// the same press.
func PressID(sessionID string, seq int64, key string) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"session_id": sessionID,
		"seq":        seq,
		"key":        key,
	})
	if err != nil {
		return "", fmt.Errorf("PressID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPress, canonical), nil
}

// MustPressID is PressID for inputs known to be valid. It panics on error.
func MustPressID(sessionID string, seq int64, key string) string {
	id, err := PressID(sessionID, seq, key)
	if err != nil {
		panic(err)
	}
	return id
}

// CanonicalMap returns the press fields that make up a golden trace entry.
// The ID and session are omitted so traces compare across sessions.
func (p Press) CanonicalMap() map[string]any {
	return map[string]any{
		"seq":        p.Seq,
		"key":        p.Key,
		"outcome":    p.Outcome,
		"expression": p.Expression,
		"result":     p.Result,
	}
}
