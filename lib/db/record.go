package db

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// --------------------------------------------------------------------------
// Limits
// --------------------------------------------------------------------------

const (
	// MaxIDBytes is the maximum length of a record id in bytes.
	MaxIDBytes = 511
	// MaxDataBytes is the maximum serialized size of a record's data payload.
	MaxDataBytes = 10 << 20 // 10 MiB

	// hashDomain prefixes the content hash input. The version suffix allows
	// a future algorithm migration without ambiguity.
	hashDomain = "localdb/record/v1"
)

// --------------------------------------------------------------------------
// Record
// --------------------------------------------------------------------------

// Record is the unit of storage: one persisted document keyed by ID.
//
// CreatedAt is set once at the first successful write of the id and never
// changes. UpdatedAt is set on every successful write and is always >=
// CreatedAt. ContentHash is computed from Data at write time; it is carried
// for change detection by callers and is not verified on read.
type Record struct {
	ID          string                 `json:"id"`
	Data        map[string]interface{} `json:"data"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
	ContentHash *string                `json:"contentHash"`
}

// Clone returns a deep-enough copy of the record for handing to callers: the
// top level of Data is copied so callers cannot corrupt the stored map.
func (r Record) Clone() Record {
	clone := r
	if r.Data != nil {
		clone.Data = make(map[string]interface{}, len(r.Data))
		for k, v := range r.Data {
			clone.Data[k] = v
		}
	}
	return clone
}

// --------------------------------------------------------------------------
// Validation
// --------------------------------------------------------------------------

// ValidateID checks the id constraints: non-empty and at most MaxIDBytes
// bytes. Returns nil when the id is acceptable.
func ValidateID(id string) *Error {
	if id == "" {
		return ValidationError("id must not be empty", id)
	}
	if len(id) > MaxIDBytes {
		return ValidationError(
			fmt.Sprintf("id exceeds %d bytes (got %d)", MaxIDBytes, len(id)), id)
	}
	return nil
}

// --------------------------------------------------------------------------
// Serialization
// --------------------------------------------------------------------------

// EncodeData serializes a data payload and enforces the size limit.
// The encoded form is also the hash input, so encoding happens exactly once
// per write.
func EncodeData(data map[string]interface{}) ([]byte, *Error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, SerializationError("failed to serialize record data", err)
	}
	if len(raw) > MaxDataBytes {
		return nil, ValidationError(
			fmt.Sprintf("serialized data exceeds %d bytes (got %d)", MaxDataBytes, len(raw)), "")
	}
	return raw, nil
}

// EncodeRecord serializes a full record into its persisted JSON shape.
func EncodeRecord(rec Record) ([]byte, *Error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, SerializationError("failed to serialize record", err).WithContext(rec.ID)
	}
	return raw, nil
}

// DecodeRecord deserializes stored bytes back into a Record.
func DecodeRecord(raw []byte) (Record, *Error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, SerializationError("failed to deserialize stored record", err)
	}
	if rec.ID == "" {
		return Record{}, SerializationError("stored record has no id", nil)
	}
	return rec, nil
}

// --------------------------------------------------------------------------
// Content Hash
// --------------------------------------------------------------------------

// HashData computes the deterministic content digest of an encoded data
// payload: SHA-256 over the domain prefix, a null separator and the bytes.
// encoding/json sorts map keys, so equal payloads hash equally.
func HashData(encoded []byte) string {
	h := sha256.New()
	h.Write([]byte(hashDomain))
	h.Write([]byte{0x00})
	h.Write(encoded)
	return hex.EncodeToString(h.Sum(nil))
}
