package session

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"sekolahku_backend/internals/features/content/repository"
)

// Remover membuang object storage best effort (storage.Gateway).
type Remover interface {
	RemoveQuietly(ctx context.Context, urls ...string)
}

// DocumentBackend menghubungkan Session ke satu record dari Resource mana pun.
// Files opsional: object di key file yang diganti ikut dibuang setelah simpan.
type DocumentBackend struct {
	Res   repository.Resource
	ID    string
	Files Remover
}

// Load: singleton yang belum ada dianggap dokumen kosong versi 0.
func (b DocumentBackend) Load(ctx context.Context) (repository.Document, int64, error) {
	doc, err := b.Res.FindDocument(ctx, b.ID)
	if err != nil {
		if b.Res.Singleton() && errors.Is(err, repository.ErrNotFound) {
			return repository.Document{}, 0, nil
		}
		return nil, 0, err
	}
	return doc, repository.VersionOf(doc), nil
}

// Save hanya mengirim key writable yang berubah, dengan version saat StartEdit.
func (b DocumentBackend) Save(ctx context.Context, base, draft repository.Document, version int64) (repository.Document, int64, error) {
	patch := ChangedKeys(base, draft, b.Res.WritableKeys())
	if len(patch) == 0 && version > 0 {
		return base, version, nil
	}
	out, err := b.Res.PatchDocument(ctx, b.ID, patch, &version)
	if err != nil {
		return nil, 0, err
	}
	if b.Files != nil {
		if old := repository.ReplacedFiles(b.Res.FileKeys(), base, out); len(old) > 0 {
			b.Files.RemoveQuietly(context.WithoutCancel(ctx), old...)
		}
	}
	return out, repository.VersionOf(out), nil
}

// ChangedKeys: key writable di draft yang nilainya beda dari base.
func ChangedKeys(base, draft repository.Document, writable map[string]bool) repository.Document {
	out := repository.Document{}
	for k, v := range draft {
		if !writable[k] {
			continue
		}
		old, ok := base[k]
		if ok && sameJSON(old, v) {
			continue
		}
		out[k] = v
	}
	return out
}

func sameJSON(a, b any) bool {
	ja, err1 := sonic.Marshal(a)
	jb, err2 := sonic.Marshal(b)
	return err1 == nil && err2 == nil && string(ja) == string(jb)
}

// ApplyPatch menggabungkan patch ke draft; key yang tidak writable ditolak.
func ApplyPatch(writable map[string]bool, patch repository.Document) func(*repository.Document) error {
	return func(draft *repository.Document) error {
		fields := map[string]string{}
		for k := range patch {
			if !writable[k] {
				fields[k] = "field tidak bisa diedit"
			}
		}
		if len(fields) > 0 {
			return &repository.ValidationError{Fields: fields}
		}
		if *draft == nil {
			*draft = repository.Document{}
		}
		for k, v := range patch {
			(*draft)[k] = v
		}
		return nil
	}
}
