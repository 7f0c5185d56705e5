// Package handoff serializes a finished session across a navigation boundary
// (URL query parameter) so a results presenter can resolve it without any
// in-memory state from the sender.
package handoff

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/Pushpak2001/quzicam/internal/models"
)

// SchemaVersion is embedded in every token. The transport is hand-editable
// by users, so the receiver checks it instead of guessing at field layouts.
const SchemaVersion = 1

type tokenPayload struct {
	Version     int                       `json:"v"`
	Language    string                    `json:"language"`
	Score       int                       `json:"score"`
	CompletedAt time.Time                 `json:"completed_at"`
	Questions   []models.AnsweredQuestion `json:"questions"`
}

// Publish encodes a session result into an opaque URL-safe token.
func Publish(result *models.SessionResult) string {
	payload := tokenPayload{
		Version:     SchemaVersion,
		Language:    result.Language,
		Score:       result.Score,
		CompletedAt: result.CompletedAt,
		Questions:   result.Questions,
	}
	// Marshal of a plain struct cannot fail.
	data, _ := json.Marshal(payload)
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses a token strictly, reporting a ParseError on any malformed or
// version-incompatible input.
func Decode(token string) (*models.SessionResult, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, &models.ParseError{Reason: "not valid base64url"}
	}

	var payload tokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &models.ParseError{Reason: "not valid JSON"}
	}
	if payload.Version != SchemaVersion {
		return nil, &models.ParseError{Reason: "unsupported schema version"}
	}

	return &models.SessionResult{
		Questions:   payload.Questions,
		Score:       payload.Score,
		Language:    payload.Language,
		CompletedAt: payload.CompletedAt,
	}, nil
}

// Resolve degrades gracefully: the boundary is untrusted, so malformed or
// missing data yields an empty zero-score result instead of an error.
func Resolve(token string) *models.SessionResult {
	result, err := Decode(token)
	if err != nil {
		return &models.SessionResult{Questions: []models.AnsweredQuestion{}}
	}
	if result.Questions == nil {
		result.Questions = []models.AnsweredQuestion{}
	}
	return result
}
