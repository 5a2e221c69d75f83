package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/content/repository"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/storage"
)

// CRUDController melayani list/detail/create/patch/delete untuk satu entitas.
type CRUDController[T any, PT repository.Model[T]] struct {
	Repo *repository.Repository[T, PT]

	// Files + FileURLs: object yang ikut dihapus saat record dihapus
	// atau saat URL-nya diganti.
	Files    *storage.Gateway
	FileURLs func(*T) []string
}

func NewCRUDController[T any, PT repository.Model[T]](repo *repository.Repository[T, PT]) *CRUDController[T, PT] {
	return &CRUDController[T, PT]{Repo: repo}
}

// WithFiles mengaktifkan pembersihan object storage.
func (ctrl *CRUDController[T, PT]) WithFiles(g *storage.Gateway, urls func(*T) []string) *CRUDController[T, PT] {
	ctrl.Files = g
	ctrl.FileURLs = urls
	return ctrl
}

// =============================
// 📄 List (admin: semua baris)
// =============================
func (ctrl *CRUDController[T, PT]) List(c *fiber.Ctx) error {
	return ctrl.list(c, false, helper.AdminOpts)
}

// =============================
// 📄 List publik (hanya yang aktif)
// =============================
func (ctrl *CRUDController[T, PT]) ListPublic(c *fiber.Ctx) error {
	return ctrl.list(c, true, helper.DefaultOpts)
}

func (ctrl *CRUDController[T, PT]) list(c *fiber.Ctx, activeOnly bool, opt helper.Options) error {
	q, p := helper.ParseListQuery(c, opt)
	if activeOnly {
		q.ActiveOnly = true
	}
	rows, total, err := ctrl.Repo.List(c.UserContext(), q)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "", rows, helper.BuildPagination(total, p.Page, p.PerPage, rows))
}

// =============================
// 🔍 Detail
// =============================
func (ctrl *CRUDController[T, PT]) Get(c *fiber.Ctx) error {
	rec, err := ctrl.Repo.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.FromError(c, err)
	}
	helper.SetETag(c, PT(rec).GetVersion())
	return helper.JsonOK(c, "", rec)
}

// =============================
// 🔍 Detail publik (baris non-aktif = 404)
// =============================
func (ctrl *CRUDController[T, PT]) GetPublic(c *fiber.Ctx) error {
	rec, err := ctrl.Repo.GetActive(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "", rec)
}

// =============================
// ➕ Create
// =============================
func (ctrl *CRUDController[T, PT]) Create(c *fiber.Ctx) error {
	doc, err := helper.ParseBody(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	rec, err := ctrl.Repo.Create(c.UserContext(), doc)
	if err != nil {
		return helper.FromError(c, err)
	}
	helper.SetETag(c, PT(rec).GetVersion())
	return helper.JsonCreated(c, ctrl.Repo.Name()+" dibuat", rec)
}

// =============================
// 🔄 Patch (If-Match opsional)
// =============================
func (ctrl *CRUDController[T, PT]) Update(c *fiber.Ctx) error {
	doc, err := helper.ParseBody(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	expected, err := helper.ParseIfMatch(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	ctx := c.UserContext()
	id := c.Params("id")
	var before []string
	if ctrl.Files != nil {
		if old, err := ctrl.Repo.Get(ctx, id); err == nil {
			before = ctrl.FileURLs(old)
		}
	}

	rec, err := ctrl.Repo.Update(ctx, id, doc, expected)
	if err != nil {
		return helper.FromError(c, err)
	}
	if ctrl.Files != nil {
		ctrl.cleanup(ctx, dropped(before, ctrl.FileURLs(rec)))
	}
	helper.SetETag(c, PT(rec).GetVersion())
	return helper.JsonUpdated(c, ctrl.Repo.Name()+" diperbarui", rec)
}

// =============================
// 🗑️ Delete
// =============================
func (ctrl *CRUDController[T, PT]) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")

	var urls []string
	if ctrl.Files != nil {
		rec, err := ctrl.Repo.Get(ctx, id)
		if err != nil {
			return helper.FromError(c, err)
		}
		urls = ctrl.FileURLs(rec)
	}
	if err := ctrl.Repo.Delete(ctx, id); err != nil {
		return helper.FromError(c, err)
	}
	ctrl.cleanup(ctx, urls)
	return helper.JsonDeleted(c, ctrl.Repo.Name()+" dihapus", fiber.Map{"id": id})
}

func (ctrl *CRUDController[T, PT]) cleanup(ctx context.Context, urls []string) {
	if ctrl.Files == nil || len(urls) == 0 {
		return
	}
	ctrl.Files.RemoveQuietly(context.WithoutCancel(ctx), urls...)
}

// dropped = URL di before yang tidak ada lagi di after.
func dropped(before, after []string) []string {
	keep := map[string]bool{}
	for _, u := range after {
		keep[u] = true
	}
	var out []string
	for _, u := range before {
		if u != "" && !keep[u] {
			out = append(out, u)
		}
	}
	return out
}
