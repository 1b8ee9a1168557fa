package db

import (
	"strings"
	"testing"
	"time"
)

func TestValidateID(t *testing.T) {
	if err := ValidateID(""); err == nil || err.Kind != KindValidation {
		t.Errorf("expected validation error for empty id, got %v", err)
	}

	if err := ValidateID(strings.Repeat("a", MaxIDBytes)); err != nil {
		t.Errorf("expected %d-byte id to be valid, got %v", MaxIDBytes, err)
	}

	if err := ValidateID(strings.Repeat("a", MaxIDBytes+1)); err == nil || err.Kind != KindValidation {
		t.Errorf("expected validation error for %d-byte id, got %v", MaxIDBytes+1, err)
	}
}

func TestEncodeDataSizeLimit(t *testing.T) {
	small := map[string]interface{}{"k": "v"}
	if _, err := EncodeData(small); err != nil {
		t.Fatalf("expected small payload to encode, got %v", err)
	}

	// The JSON encoding adds quotes and braces on top of the raw string, so
	// a value of MaxDataBytes guarantees the limit is crossed.
	big := map[string]interface{}{"blob": strings.Repeat("x", MaxDataBytes)}
	if _, err := EncodeData(big); err == nil || err.Kind != KindValidation {
		t.Errorf("expected validation error for oversized payload, got %v", err)
	}
}

func TestEncodeDecodeRecordRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	hash := HashData([]byte(`{"a":1}`))
	rec := Record{
		ID:          "user:42",
		Data:        map[string]interface{}{"name": "ada", "age": float64(36)},
		CreatedAt:   now,
		UpdatedAt:   now,
		ContentHash: &hash,
	}

	raw, encErr := EncodeRecord(rec)
	if encErr != nil {
		t.Fatalf("encode failed: %v", encErr)
	}

	got, decErr := DecodeRecord(raw)
	if decErr != nil {
		t.Fatalf("decode failed: %v", decErr)
	}

	if got.ID != rec.ID {
		t.Errorf("id mismatch: %s != %s", got.ID, rec.ID)
	}
	if got.Data["name"] != "ada" || got.Data["age"] != float64(36) {
		t.Errorf("data mismatch: %v", got.Data)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) || !got.UpdatedAt.Equal(rec.UpdatedAt) {
		t.Errorf("timestamp mismatch: %v / %v", got.CreatedAt, got.UpdatedAt)
	}
	if got.ContentHash == nil || *got.ContentHash != hash {
		t.Errorf("content hash did not round-trip: %v", got.ContentHash)
	}
}

func TestDecodeRecordMalformed(t *testing.T) {
	if _, err := DecodeRecord([]byte("{not json")); err == nil || err.Kind != KindSerialization {
		t.Errorf("expected serialization error for malformed bytes, got %v", err)
	}

	if _, err := DecodeRecord([]byte(`{"data":{}}`)); err == nil || err.Kind != KindSerialization {
		t.Errorf("expected serialization error for record without id, got %v", err)
	}
}

func TestHashDataDeterministic(t *testing.T) {
	a1, err := EncodeData(map[string]interface{}{"b": 2, "a": 1})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	a2, err := EncodeData(map[string]interface{}{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	// encoding/json sorts map keys, so insertion order must not matter
	if HashData(a1) != HashData(a2) {
		t.Errorf("expected equal hashes for equal payloads")
	}

	b, err := EncodeData(map[string]interface{}{"a": 1, "b": 3})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if HashData(a1) == HashData(b) {
		t.Errorf("expected different hashes for different payloads")
	}
}
