package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type memObject struct {
	Data        []byte
	ContentType string
}

// MemoryStore menyimpan object di RAM; untuk development dan test.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
	base    string
	puts    int

	// FailPut, kalau diisi, dipanggil sebelum Put; error-nya dikembalikan apa adanya.
	FailPut func(key string) error
}

func NewMemoryStore(publicBase string) *MemoryStore {
	if publicBase == "" {
		publicBase = "http://localhost:3000/_objects"
	}
	return &MemoryStore{objects: map[string]memObject{}, base: strings.TrimRight(publicBase, "/")}
}

func (m *MemoryStore) Driver() string { return "memory" }

func (m *MemoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.FailPut != nil {
		if err := m.FailPut(key); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return errors.Wrap(err, "read object")
	}
	m.mu.Lock()
	m.objects[key] = memObject{Data: buf.Bytes(), ContentType: contentType}
	m.puts++
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return errors.Errorf("object %s tidak ada", key)
	}
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) PublicURL(key string) string { return m.base + "/" + key }

func (m *MemoryStore) KeyFromURL(publicURL string) (string, error) {
	return keyUnder(m.base, publicURL)
}

// Get dipakai handler /_objects dan test.
func (m *MemoryStore) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o.Data, o.ContentType, ok
}

// Puts = jumlah Put yang berhasil.
func (m *MemoryStore) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
