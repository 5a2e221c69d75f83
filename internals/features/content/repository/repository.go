package repository

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/content/model"
	"sekolahku_backend/internals/helpers/events"
	"sekolahku_backend/internals/helpers/metrics"
	"sekolahku_backend/internals/helpers/validation"
)

// maxLWWRetries: berapa kali Update tanpa expectedVersion mencoba ulang
// saat baris berubah di antara baca dan tulis.
const maxLWWRetries = 3

// Repository adalah CRUD generik untuk satu tabel konten.
type Repository[T any, PT Model[T]] struct {
	db     *gorm.DB
	schema Schema[T]
	bus    events.Publisher
	keys   keyRules
	now    func() time.Time
}

func New[T any, PT Model[T]](db *gorm.DB, schema Schema[T], bus events.Publisher) *Repository[T, PT] {
	if bus == nil {
		bus = events.Nop{}
	}
	return &Repository[T, PT]{
		db:     db,
		schema: schema,
		bus:    bus,
		keys:   newKeyRules[T](schema.ReadOnly),
		now:    time.Now,
	}
}

func (r *Repository[T, PT]) Name() string      { return r.schema.Name }
func (r *Repository[T, PT]) Singleton() bool   { return r.schema.Singleton }
func (r *Repository[T, PT]) Topic() string     { return r.schema.topic() }
func (r *Repository[T, PT]) DB() *gorm.DB      { return r.db }
func (r *Repository[T, PT]) Schema() Schema[T] { return r.schema }

func (r *Repository[T, PT]) fail(op string, err error) error {
	err = classify(err, r.schema.Name+"."+op)
	kind := Kind(err)
	metrics.RepositoryErrors.WithLabelValues(r.schema.Name, kind).Inc()
	if kind == "unavailable" {
		log.Printf("[REPO] ❌ %s.%s: %v", r.schema.Name, op, err)
	}
	return err
}

func (r *Repository[T, PT]) publish(id string, action events.Action) {
	metrics.ContentMutations.WithLabelValues(r.schema.Name, string(action)).Inc()
	r.bus.Publish(events.Event{
		Topic:  r.schema.topic(),
		Entity: r.schema.Name,
		ID:     id,
		Action: action,
		At:     r.now(),
	})
}

// Notify menerbitkan event untuk mutasi yang dijalankan di luar repository
// (mis. transaksi cascade di service).
func (r *Repository[T, PT]) Notify(id string, action events.Action) {
	r.publish(id, action)
}

// Fail mengklasifikasikan error gorm milik entitas ini.
func (r *Repository[T, PT]) Fail(op string, err error) error {
	return r.fail(op, err)
}

// Get mengembalikan ErrNotFound kalau id tidak ada.
func (r *Repository[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		return nil, r.fail("get", err)
	}
	return &rec, nil
}

// GetActive seperti Get, tapi baris non-aktif dianggap tidak ada (detail publik).
func (r *Repository[T, PT]) GetActive(ctx context.Context, id string) (*T, error) {
	if r.schema.ActiveColumn == "" {
		return r.Get(ctx, id)
	}
	var rec T
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where(r.schema.ActiveColumn+" = ?", true).
		Take(&rec).Error
	if err != nil {
		return nil, r.fail("get", err)
	}
	return &rec, nil
}

// List dengan filter whitelist, pencarian, sort dan paging.
func (r *Repository[T, PT]) List(ctx context.Context, q ListQuery) ([]T, int64, error) {
	tx := r.db.WithContext(ctx).Model(new(T))

	for key, val := range q.Filters {
		col, ok := r.schema.Filters[key]
		if !ok {
			return nil, 0, invalid(key, "filter tidak didukung")
		}
		tx = tx.Where(col+" = ?", val)
	}
	if q.ActiveOnly && r.schema.ActiveColumn != "" {
		tx = tx.Where(r.schema.ActiveColumn+" = ?", true)
	}
	if s := strings.TrimSpace(q.Search); s != "" && len(r.schema.Search) > 0 {
		like := "%" + strings.ToLower(s) + "%"
		conds := make([]string, 0, len(r.schema.Search))
		args := make([]any, 0, len(r.schema.Search))
		for _, col := range r.schema.Search {
			conds = append(conds, "LOWER("+col+") LIKE ?")
			args = append(args, like)
		}
		tx = tx.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, r.fail("count", err)
	}

	order, err := r.orderClause(q)
	if err != nil {
		return nil, 0, err
	}
	if order != "" {
		tx = tx.Order(order)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	rows := make([]T, 0)
	if err := tx.Find(&rows).Error; err != nil {
		return nil, 0, r.fail("list", err)
	}
	return rows, total, nil
}

func (r *Repository[T, PT]) orderClause(q ListQuery) (string, error) {
	if q.SortBy == "" {
		if r.schema.DefaultSort != "" {
			return r.schema.DefaultSort, nil
		}
		return "created_at DESC", nil
	}
	col, ok := r.schema.Sorts[q.SortBy]
	if !ok {
		return "", invalid("sort_by", "kolom sort tidak didukung")
	}
	dir := "ASC"
	if strings.EqualFold(q.SortOrder, "desc") {
		dir = "DESC"
	}
	// id sebagai tie-breaker supaya paging stabil
	return col + " " + dir + ", id ASC", nil
}

// Count semua baris (dipakai statistik dashboard).
func (r *Repository[T, PT]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, r.fail("count", err)
	}
	return n, nil
}

func (r *Repository[T, PT]) check(rec *T) error {
	if r.schema.Normalize != nil {
		r.schema.Normalize(rec)
	}
	fields := validation.Struct(rec)
	if r.schema.Validate != nil {
		for k, v := range r.schema.Validate(rec) {
			if _, dup := fields[k]; !dup {
				fields[k] = v
			}
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Create membuat record baru dari doc. Id, version dan timestamp diisi server.
func (r *Repository[T, PT]) Create(ctx context.Context, doc Document) (*T, error) {
	id := uuid.NewString()
	if r.schema.Singleton {
		id = model.SingletonID
	}
	return r.create(ctx, id, doc, nil)
}

// CreateWith seperti Create; assign mengisi field ReadOnly dari sisi server
// (mis. group_id foto) setelah body di-merge.
func (r *Repository[T, PT]) CreateWith(ctx context.Context, doc Document, assign func(*T)) (*T, error) {
	return r.create(ctx, uuid.NewString(), doc, assign)
}

func (r *Repository[T, PT]) create(ctx context.Context, id string, doc Document, assign func(*T)) (*T, error) {
	if err := r.keys.check(doc); err != nil {
		return nil, err
	}
	var rec T
	if r.schema.Defaults != nil {
		r.schema.Defaults(&rec)
	}
	if err := merge(&rec, doc); err != nil {
		return nil, err
	}
	if assign != nil {
		assign(&rec)
	}
	p := PT(&rec)
	p.SetID(id)
	p.SetVersion(1)
	if err := r.check(&rec); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, r.fail("create", err)
	}
	r.publish(id, events.ActionCreated)
	return &rec, nil
}

// Update menggabungkan doc ke baris yang ada (hanya key yang dikirim berubah).
// expectedVersion nil = last-write-wins; selain itu versi basi -> ErrConflict.
// Update yang tidak mengubah apa pun tidak menaikkan version.
func (r *Repository[T, PT]) Update(ctx context.Context, id string, doc Document, expectedVersion *int64) (*T, error) {
	if err := r.keys.check(doc); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		current, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		prev := PT(current).GetVersion()
		if expectedVersion != nil && *expectedVersion != prev {
			return nil, errors.Wrapf(ErrConflict, "%s/%s: versi %d, dikirim %d", r.schema.Name, id, prev, *expectedVersion)
		}

		// merge bisa memakai ulang backing array slice, jadi bandingkan snapshot
		before := snapshot(current)
		next := current
		if err := merge(next, doc); err != nil {
			return nil, err
		}
		p := PT(next)
		p.SetID(id)
		if err := r.check(next); err != nil {
			return nil, err
		}
		if before != "" && before == snapshot(next) {
			return next, nil
		}

		p.SetVersion(prev + 1)
		p.Touch(r.now())
		res := r.db.WithContext(ctx).
			Model(next).
			Where("id = ? AND version = ?", id, prev).
			Select("*").
			Omit("id", "created_at").
			Updates(next)
		if res.Error != nil {
			return nil, r.fail("update", res.Error)
		}
		if res.RowsAffected == 1 {
			r.publish(id, events.ActionUpdated)
			return next, nil
		}
		if expectedVersion != nil || attempt >= maxLWWRetries {
			return nil, errors.Wrapf(ErrConflict, "%s/%s berubah saat disimpan", r.schema.Name, id)
		}
	}
}

// Upsert membuat baris dengan id tsb kalau belum ada, selain itu Update.
func (r *Repository[T, PT]) Upsert(ctx context.Context, id string, doc Document, expectedVersion *int64) (*T, error) {
	_, err := r.Get(ctx, id)
	switch {
	case err == nil:
		return r.Update(ctx, id, doc, expectedVersion)
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	if expectedVersion != nil && *expectedVersion != 0 {
		return nil, errors.Wrapf(ErrConflict, "%s/%s belum ada", r.schema.Name, id)
	}
	rec, err := r.create(ctx, id, doc, nil)
	if errors.Is(err, ErrConflict) && expectedVersion == nil {
		// kalah balapan dengan create lain
		return r.Update(ctx, id, doc, nil)
	}
	return rec, err
}

// Delete mengembalikan ErrNotFound kalau tidak ada baris yang terhapus.
func (r *Repository[T, PT]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return r.fail("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "%s/%s", r.schema.Name, id)
	}
	r.publish(id, events.ActionDeleted)
	return nil
}
