package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"sekolahku_backend/internals/features/content/model"
	"sekolahku_backend/internals/features/content/repository"
	"sekolahku_backend/internals/helpers/metrics"
)

var (
	ErrSessionNotFound = errors.New("sesi editor tidak ditemukan atau kedaluwarsa")
	// ErrNotEditable: entitas dikelola service khusus (galeri), bukan editor generik.
	ErrNotEditable = errors.New("entitas tidak bisa diedit lewat editor")
)

// DocSession adalah session editor untuk entitas apa pun lewat Resource.
type DocSession = Session[repository.Document]

// Handle: session beserta entitas yang diedit.
type Handle struct {
	ID       string
	Entity   string
	RecordID string
	Session  *DocSession
	Writable map[string]bool

	lastUsed time.Time
}

// Info adalah bentuk JSON session untuk client.
type Info struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	RecordID string `json:"record_id"`
	View[repository.Document]
}

func (h *Handle) Info() Info {
	return Info{ID: h.ID, Entity: h.Entity, RecordID: h.RecordID, View: h.Session.View()}
}

// Manager menyimpan session di memori dengan TTL idle.
type Manager struct {
	mu       sync.Mutex
	cat      *repository.Catalog
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Handle
	files    Remover
}

func NewManager(cat *repository.Catalog, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{cat: cat, ttl: ttl, now: time.Now, sessions: map[string]*Handle{}}
}

// WithFiles: submit yang mengganti URL file ikut membuang object lama.
func (m *Manager) WithFiles(r Remover) *Manager {
	m.files = r
	return m
}

// Open membuat session untuk entity/recordID lalu langsung Load.
// Load yang gagal tetap menghasilkan session (state error) supaya bisa di-reload.
func (m *Manager) Open(ctx context.Context, entity, recordID string) (*Handle, error) {
	res, ok := m.cat.Resource(entity)
	if !ok {
		return nil, errors.Wrapf(repository.ErrNotFound, "entitas %q", entity)
	}
	if res.Managed() {
		return nil, errors.Wrapf(ErrNotEditable, "%s", entity)
	}
	if res.Singleton() && recordID == "" {
		recordID = model.SingletonID
	}
	if recordID == "" {
		return nil, &repository.ValidationError{Fields: map[string]string{"id": "wajib diisi"}}
	}

	h := &Handle{
		ID:       uuid.NewString(),
		Entity:   entity,
		RecordID: recordID,
		Session:  New[repository.Document](DocumentBackend{Res: res, ID: recordID, Files: m.files}, repository.Document.Clone),
		Writable: res.WritableKeys(),
	}
	loadErr := h.Session.Load(ctx)

	m.mu.Lock()
	h.lastUsed = m.now()
	m.sessions[h.ID] = h
	m.gauge()
	m.mu.Unlock()

	if loadErr != nil {
		log.Printf("[EDITOR] ⚠️ load %s/%s gagal: %v", entity, recordID, loadErr)
	}
	return h, nil
}

func (m *Manager) Get(id string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.sessions[id]
	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "%s", id)
	}
	if m.expired(h) {
		delete(m.sessions, id)
		m.gauge()
		return nil, errors.Wrapf(ErrSessionNotFound, "%s", id)
	}
	h.lastUsed = m.now()
	return h, nil
}

func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return errors.Wrapf(ErrSessionNotFound, "%s", id)
	}
	delete(m.sessions, id)
	m.gauge()
	return nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep menghapus session yang idle melewati TTL.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, h := range m.sessions {
		if m.expired(h) {
			delete(m.sessions, id)
			n++
		}
	}
	m.gauge()
	return n
}

// Run menjalankan Sweep berkala sampai ctx selesai.
func (m *Manager) Run(ctx context.Context) {
	t := time.NewTicker(m.ttl / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(); n > 0 {
				log.Printf("[EDITOR] 🧹 %d sesi kedaluwarsa dibuang", n)
			}
		}
	}
}

func (m *Manager) expired(h *Handle) bool {
	return m.now().Sub(h.lastUsed) > m.ttl
}

// gauge dipanggil dengan m.mu terkunci.
func (m *Manager) gauge() {
	metrics.EditorSessions.Set(float64(len(m.sessions)))
}
