package audit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"time"
)

type signaturePayload struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	RefID     string `json:"refId"`
	Actor     string `json:"actor"`
	Payload   string `json:"payload,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func buildSignaturePayload(entry *Entry) signaturePayload {
	payload := signaturePayload{
		ID:        entry.ID.String(),
		Kind:      string(entry.Kind),
		RefID:     entry.RefID,
		Actor:     entry.Actor,
		CreatedAt: entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if len(entry.Payload) > 0 {
		payload.Payload = base64.StdEncoding.EncodeToString(entry.Payload)
	}
	return payload
}

// Sign generates an HMAC-SHA256 signature over the entry's stable fields.
func Sign(entry *Entry, key []byte) ([]byte, error) {
	payload := buildSignaturePayload(entry)
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write(data)
	return mac.Sum(nil), nil
}

// Verify checks the entry's signature. An unsigned entry never verifies.
func Verify(entry *Entry, key []byte) (bool, error) {
	if len(entry.Signature) == 0 {
		return false, nil
	}
	expected, err := Sign(entry, key)
	if err != nil {
		return false, err
	}
	return hmac.Equal(expected, entry.Signature), nil
}
