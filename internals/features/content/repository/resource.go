package repository

import "context"

// Resource adalah akses tanpa tipe ke satu entitas, dipakai editor dan registry.
type Resource interface {
	Name() string
	Singleton() bool
	Topic() string
	WritableKeys() map[string]bool
	FileKeys() []string
	Managed() bool
	FindDocument(ctx context.Context, id string) (Document, error)
	PatchDocument(ctx context.Context, id string, doc Document, expectedVersion *int64) (Document, error)
}

func (r *Repository[T, PT]) FindDocument(ctx context.Context, id string) (Document, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocument(rec)
}

// PatchDocument: singleton di-upsert, entitas lain di-update.
func (r *Repository[T, PT]) PatchDocument(ctx context.Context, id string, doc Document, expectedVersion *int64) (Document, error) {
	var (
		rec *T
		err error
	)
	if r.schema.Singleton {
		rec, err = r.Upsert(ctx, id, doc, expectedVersion)
	} else {
		rec, err = r.Update(ctx, id, doc, expectedVersion)
	}
	if err != nil {
		return nil, err
	}
	return toDocument(rec)
}

// WritableKeys mengembalikan key yang boleh dikirim client.
func (r *Repository[T, PT]) WritableKeys() map[string]bool {
	out := make(map[string]bool, len(r.keys.writable))
	for k := range r.keys.writable {
		out[k] = true
	}
	return out
}

func (r *Repository[T, PT]) FileKeys() []string { return r.schema.Files }
func (r *Repository[T, PT]) Managed() bool      { return r.schema.Managed }
