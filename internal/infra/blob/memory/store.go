// Package memory implements an in-process blob Store holding photo payloads
// in a plain map. It backs unit tests and single-process dev setups where
// losing the photo bytes on restart is acceptable; the photo metadata rows in
// the domain store survive independently.
package memory

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"aquacore/internal/blob/core"
)

// object is one stored photo payload with the attributes Info reports.
type object struct {
	data        []byte
	contentType string
	etag        string
	metadata    map[string]string
	modified    time.Time
}

func (o object) infoFor(key string) core.Info {
	return core.Info{
		Key:          key,
		Size:         int64(len(o.data)),
		ContentType:  o.contentType,
		ETag:         o.etag,
		Metadata:     cloneMetadata(o.metadata),
		LastModified: o.modified,
	}
}

// Store implements core.Store backed by process memory.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
}

// New returns an empty in-memory photo blob store.
func New() *Store { return &Store{objects: make(map[string]object)} }

// Driver returns the blob driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Put stores a new photo payload. Keys are immutable once written, so a
// second Put under the same key fails rather than overwriting.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return core.Info{}, err
	}
	digest := sha256.Sum256(payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[key]; exists {
		return core.Info{}, fmt.Errorf("blob %s already exists", key)
	}
	obj := object{
		data:        payload,
		contentType: opts.ContentType,
		etag:        hex.EncodeToString(digest[:]),
		metadata:    cloneMetadata(opts.Metadata),
		modified:    time.Now().UTC(),
	}
	s.objects[key] = obj
	return obj.infoFor(key), nil
}

// Get returns photo metadata and a reader over a copy of its payload.
func (s *Store) Get(_ context.Context, key string) (core.Info, io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return core.Info{}, nil, fmt.Errorf("blob %s not found", key)
	}
	payload := make([]byte, len(obj.data))
	copy(payload, obj.data)
	return obj.infoFor(key), io.NopCloser(bytes.NewReader(payload)), nil
}

// Head returns photo metadata only.
func (s *Store) Head(_ context.Context, key string) (core.Info, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return core.Info{}, fmt.Errorf("blob %s not found", key)
	}
	return obj.infoFor(key), nil
}

// Delete removes the payload, reporting whether it existed. Removing a
// missing key is not an error; photo removal retries after a partial failure
// must stay idempotent.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return false, nil
	}
	delete(s.objects, key)
	return true, nil
}

// List returns all photos under the prefix sorted by key, matching the order
// the fs and s3 drivers produce.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Info, 0, len(s.objects))
	for key, obj := range s.objects {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			out = append(out, obj.infoFor(key))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// PresignURL returns unsupported; there is no address outside the process to
// hand out.
func (s *Store) PresignURL(_ context.Context, _ string, _ core.SignedURLOptions) (string, error) {
	return "", core.ErrUnsupported
}

func cloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
