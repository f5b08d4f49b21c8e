// Package store persists JSON values under string keys in a pluggable blob
// store. Reads never fail: absent or undecodable values fall back to the
// caller's default.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
)

const (
	KeyCustomers = "amc_customers"
	KeyContracts = "amc_contracts"
)

var ErrEmptyKey = errors.New("store: empty key")

// BlobStore is a key-value store of opaque byte values.
type BlobStore interface {
	// Get returns ok=false when nothing is stored under key.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
}

// Load decodes the value stored under key, or returns def when nothing is
// stored, the read fails, or the stored bytes are not a valid T.
func Load[T any](ctx context.Context, s BlobStore, key string, def T, log zerolog.Logger) T {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("read stored value failed, using defaults")
		return def
	}
	if !ok {
		log.Debug().Str("key", key).Msg("nothing stored, using defaults")
		return def
	}

	// A JSON null decodes without error into a nil value and is not a
	// valid collection.
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		log.Warn().Str("key", key).Msg("stored value is null, using defaults")
		return def
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("stored value is corrupt, using defaults")
		return def
	}
	return value
}

// Save encodes value as JSON and overwrites whatever is stored under key.
func Save[T any](ctx context.Context, s BlobStore, key string, value T) error {
	if key == "" {
		return ErrEmptyKey
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, raw)
}
