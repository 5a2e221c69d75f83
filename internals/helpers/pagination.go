package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/content/repository"
)

type Options struct {
	DefaultPerPage int
	MaxPerPage     int
}

// ===== Preset =====
var (
	DefaultOpts = Options{DefaultPerPage: 20, MaxPerPage: 100}
	AdminOpts   = Options{DefaultPerPage: 50, MaxPerPage: 500}
)

// reserved: query key yang bukan filter kolom.
var reserved = map[string]bool{
	"page": true, "per_page": true, "limit": true,
	"sort_by": true, "order": true, "q": true, "active_only": true,
}

type Params struct {
	Page    int
	PerPage int
}

func (p Params) Limit() int  { return p.PerPage }
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

// ParsePaging membaca ?page= & ?per_page= (atau alias ?limit=).
func ParsePaging(c *fiber.Ctx, opt Options) Params {
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page", "1")))
	if page < 1 {
		page = 1
	}
	raw := strings.TrimSpace(c.Query("per_page"))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("limit"))
	}
	per, _ := strconv.Atoi(raw)
	if per <= 0 {
		per = opt.DefaultPerPage
	}
	if opt.MaxPerPage > 0 && per > opt.MaxPerPage {
		per = opt.MaxPerPage
	}
	return Params{Page: page, PerPage: per}
}

// ParseListQuery: paging + sort + ?q= + sisa query string sebagai filter equality.
// Whitelist filter/sort dicek oleh repository.
func ParseListQuery(c *fiber.Ctx, opt Options) (repository.ListQuery, Params) {
	p := ParsePaging(c, opt)
	q := repository.ListQuery{
		Filters:   map[string]string{},
		Search:    strings.TrimSpace(c.Query("q")),
		SortBy:    strings.TrimSpace(c.Query("sort_by")),
		SortOrder: strings.ToLower(strings.TrimSpace(c.Query("order", "asc"))),
		Limit:     p.Limit(),
		Offset:    p.Offset(),
	}
	q.ActiveOnly, _ = strconv.ParseBool(c.Query("active_only"))

	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if reserved[key] {
			return
		}
		if val := strings.TrimSpace(string(v)); val != "" {
			q.Filters[key] = val
		}
	})
	return q, p
}
