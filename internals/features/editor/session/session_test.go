package session

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hero struct {
	Title string
}

type fakeBackend struct {
	rec     hero
	ver     int64
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeBackend) Load(ctx context.Context) (hero, int64, error) {
	return f.rec, f.ver, f.loadErr
}

func (f *fakeBackend) Save(ctx context.Context, base, draft hero, version int64) (hero, int64, error) {
	f.saves++
	if f.saveErr != nil {
		return hero{}, 0, f.saveErr
	}
	f.rec, f.ver = draft, version+1
	return f.rec, f.ver, nil
}

func setTitle(t string) func(*hero) error {
	return func(h *hero) error {
		h.Title = t
		return nil
	}
}

func TestSessionHappyPath(t *testing.T) {
	ctx := context.Background()
	be := &fakeBackend{rec: hero{Title: "Selamat Datang"}, ver: 1}
	s := New[hero](be, nil)
	assert.Equal(t, StateIdle, s.State())

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, StateViewing, s.State())

	require.NoError(t, s.StartEdit())
	require.NoError(t, s.Change(setTitle("Sekolah Hebat")))
	v := s.View()
	assert.Equal(t, StateEditing, v.State)
	assert.Equal(t, "Selamat Datang", v.Record.Title)
	require.NotNil(t, v.Draft)
	assert.Equal(t, "Sekolah Hebat", v.Draft.Title)
	assert.Equal(t, int64(1), v.EditVersion)

	require.NoError(t, s.Submit(ctx))
	v = s.View()
	assert.Equal(t, StateViewing, v.State)
	assert.Equal(t, "Sekolah Hebat", v.Record.Title)
	assert.Equal(t, int64(2), v.Version)
	assert.Nil(t, v.Draft)
}

func TestSessionSubmitFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	be := &fakeBackend{rec: hero{Title: "Lama"}, ver: 4}
	s := New[hero](be, nil)
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.StartEdit())
	require.NoError(t, s.Change(setTitle("Baru")))

	be.saveErr = errors.New("jaringan putus")
	err := s.Submit(ctx)
	require.Error(t, err)

	v := s.View()
	assert.Equal(t, StateEditing, v.State)
	require.NotNil(t, v.Draft)
	assert.Equal(t, "Baru", v.Draft.Title)
	assert.Equal(t, "jaringan putus", v.Error)

	// retry setelah pulih
	be.saveErr = nil
	require.NoError(t, s.Submit(ctx))
	assert.Equal(t, StateViewing, s.State())
	assert.Equal(t, 2, be.saves)
	assert.NoError(t, s.Err())
}

func TestSessionCancelDiscardsDraft(t *testing.T) {
	ctx := context.Background()
	be := &fakeBackend{rec: hero{Title: "Asli"}, ver: 1}
	s := New[hero](be, nil)
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.StartEdit())
	require.NoError(t, s.Change(setTitle("Coret")))

	require.NoError(t, s.Cancel())
	v := s.View()
	assert.Equal(t, StateViewing, v.State)
	assert.Equal(t, "Asli", v.Record.Title)
	assert.Nil(t, v.Draft)
	assert.Zero(t, be.saves)
}

func TestSessionLoadError(t *testing.T) {
	ctx := context.Background()
	be := &fakeBackend{loadErr: errors.New("db mati")}
	s := New[hero](be, nil)

	require.Error(t, s.Load(ctx))
	assert.Equal(t, StateError, s.State())
	assert.ErrorIs(t, s.StartEdit(), ErrInvalidTransition)

	be.loadErr = nil
	be.rec, be.ver = hero{Title: "Pulih"}, 1
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, StateViewing, s.State())
}

func TestSessionInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	s := New[hero](&fakeBackend{ver: 1}, nil)

	cases := []struct {
		name string
		run  func() error
	}{
		{"edit dari idle", s.StartEdit},
		{"submit dari idle", func() error { return s.Submit(ctx) }},
		{"cancel dari idle", s.Cancel},
		{"change dari idle", func() error { return s.Change(setTitle("x")) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.run(), ErrInvalidTransition)
		})
	}

	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.StartEdit())
	assert.ErrorIs(t, s.Load(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, s.StartEdit(), ErrInvalidTransition)
}

func TestSessionChangeRejected(t *testing.T) {
	ctx := context.Background()
	s := New[hero](&fakeBackend{rec: hero{Title: "A"}, ver: 1}, nil)
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.StartEdit())

	err := s.Change(func(h *hero) error {
		h.Title = "setengah jalan"
		return errors.New("ditolak")
	})
	require.Error(t, err)
	assert.Equal(t, "A", s.View().Draft.Title)
}
