package sections

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"sekolahku_backend/internals/features/content/model"
	"sekolahku_backend/internals/features/content/repository"
)

// Names: section singleton yang di-seed, satu file JSON per nama.
var Names = []string{"hero", "about", "vision", "history"}

// SeedSectionsFromDir membuat baris "main" dari <dir>/<name>.json.
// Baris yang sudah ada dilewati; file yang tidak ada juga dilewati.
func SeedSectionsFromDir(ctx context.Context, cat *repository.Catalog, dir string) (int, error) {
	created := 0
	for _, name := range Names {
		res, ok := cat.Resource(name)
		if !ok {
			continue
		}
		path := filepath.Join(dir, name+".json")
		log.Println("📥 Membaca file:", path)

		file, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			log.Printf("ℹ️ %s tidak ada, dilewati.", path)
			continue
		}
		if err != nil {
			return created, errors.Wrapf(err, "baca %s", path)
		}

		if _, err := res.FindDocument(ctx, model.SingletonID); err == nil {
			log.Printf("ℹ️ Section '%s' sudah ada, dilewati.", name)
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return created, err
		}

		var doc repository.Document
		if err := sonic.Unmarshal(file, &doc); err != nil {
			return created, errors.Wrapf(err, "decode %s", path)
		}
		zero := int64(0)
		if _, err := res.PatchDocument(ctx, model.SingletonID, doc, &zero); err != nil {
			return created, errors.Wrapf(err, "seed %s", name)
		}
		created++
		log.Printf("✅ Section '%s' berhasil di-seed.", name)
	}
	return created, nil
}
