package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateViewing State = "viewing"
	StateEditing State = "editing"
	StateSaving  State = "saving"
	StateError   State = "error"
)

var ErrInvalidTransition = errors.New("transisi editor tidak valid")

// Backend adalah sumber data satu record untuk Session.
// Save menerima versi yang dilihat saat StartEdit sebagai expected version.
type Backend[T any] interface {
	Load(ctx context.Context) (T, int64, error)
	Save(ctx context.Context, base, draft T, version int64) (T, int64, error)
}

// View adalah salinan state session untuk dibaca.
type View[T any] struct {
	State       State     `json:"state"`
	Record      T         `json:"record"`
	Version     int64     `json:"version"`
	Draft       *T        `json:"draft,omitempty"`
	EditVersion int64     `json:"edit_version,omitempty"`
	Error       string    `json:"error,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Session: draft editor untuk satu record.
//
//	Idle/Error/Viewing --Load--> Loading --> Viewing | Error
//	Viewing --StartEdit--> Editing --Change--> Editing
//	Editing --Submit--> Saving --> Viewing (sukses) | Editing (gagal, draft tetap)
//	Editing --Cancel--> Viewing
//
// Load dan Submit melepas lock selama I/O; transisi lain ditolak selama itu.
type Session[T any] struct {
	mu      sync.Mutex
	backend Backend[T]
	clone   func(T) T
	now     func() time.Time

	state       State
	record      T
	version     int64
	draft       T
	hasDraft    bool
	editVersion int64
	lastErr     error
	updatedAt   time.Time
}

func New[T any](backend Backend[T], clone func(T) T) *Session[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	s := &Session[T]{backend: backend, clone: clone, now: time.Now, state: StateIdle}
	s.updatedAt = s.now()
	return s
}

func invalid(from State, action string) error {
	return errors.Wrapf(ErrInvalidTransition, "%s dari state %s", action, from)
}

func (s *Session[T]) set(state State) {
	s.state = state
	s.updatedAt = s.now()
}

func (s *Session[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err adalah error terakhir (Load atau Submit yang gagal).
func (s *Session[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session[T]) View() View[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View[T]{
		State:     s.state,
		Record:    s.record,
		Version:   s.version,
		UpdatedAt: s.updatedAt,
	}
	if s.hasDraft {
		d := s.draft
		v.Draft = &d
		v.EditVersion = s.editVersion
	}
	if s.lastErr != nil {
		v.Error = s.lastErr.Error()
	}
	return v
}

// Load mengambil record kanonik.
func (s *Session[T]) Load(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateIdle, StateError, StateViewing:
	default:
		st := s.state
		s.mu.Unlock()
		return invalid(st, "load")
	}
	s.set(StateLoading)
	s.mu.Unlock()

	rec, ver, err := s.backend.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		s.set(StateError)
		return err
	}
	s.record, s.version, s.lastErr = rec, ver, nil
	s.set(StateViewing)
	return nil
}

// StartEdit menyalin record ke draft dan mengingat versinya.
func (s *Session[T]) StartEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateViewing {
		return invalid(s.state, "start_edit")
	}
	s.draft = s.clone(s.record)
	s.hasDraft = true
	s.editVersion = s.version
	s.lastErr = nil
	s.set(StateEditing)
	return nil
}

// Change mengubah draft lokal. fn boleh mengembalikan error untuk menolak perubahan.
func (s *Session[T]) Change(fn func(draft *T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return invalid(s.state, "change")
	}
	next := s.clone(s.draft)
	if err := fn(&next); err != nil {
		return err
	}
	s.draft = next
	s.updatedAt = s.now()
	return nil
}

// Cancel membuang draft.
func (s *Session[T]) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return invalid(s.state, "cancel")
	}
	s.discard()
	s.lastErr = nil
	s.set(StateViewing)
	return nil
}

func (s *Session[T]) discard() {
	var zero T
	s.draft = zero
	s.hasDraft = false
	s.editVersion = 0
}

// Submit menyimpan draft. Sukses: record dimuat ulang, kembali ke Viewing.
// Gagal: kembali ke Editing dengan draft utuh dan error tersimpan.
func (s *Session[T]) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateEditing {
		st := s.state
		s.mu.Unlock()
		return invalid(st, "submit")
	}
	base, draft, ver := s.record, s.clone(s.draft), s.editVersion
	s.set(StateSaving)
	s.mu.Unlock()

	saved, savedVer, err := s.backend.Save(ctx, base, draft, ver)
	if err == nil {
		if fresh, freshVer, lerr := s.backend.Load(ctx); lerr == nil {
			saved, savedVer = fresh, freshVer
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		s.set(StateEditing)
		return err
	}
	s.record, s.version, s.lastErr = saved, savedVer, nil
	s.discard()
	s.set(StateViewing)
	return nil
}
