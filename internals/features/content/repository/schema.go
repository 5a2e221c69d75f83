package repository

import (
	"time"
)

// Model dipenuhi pointer ke struct entitas yang meng-embed model.Base.
type Model[T any] interface {
	*T
	TableName() string
	GetID() string
	SetID(string)
	GetVersion() int64
	SetVersion(int64)
	Touch(time.Time)
}

// Schema mengatur perilaku Repository untuk satu entitas.
type Schema[T any] struct {
	// Name dipakai di URL, registry, log dan metrik (mis. "announcements").
	Name string
	// Topic event setelah mutasi; default Name+".updated".
	Topic string
	// Singleton: satu baris dengan id "main", di-upsert.
	Singleton bool

	// Defaults diisi sebelum body di-merge (nilai awal create).
	Defaults func(*T)
	// Normalize dipanggil setelah merge, sebelum validasi.
	Normalize func(*T)
	// Validate tambahan di luar tag `validate`.
	Validate func(*T) map[string]string

	// Filters: query key -> kolom (hanya equality).
	Filters map[string]string
	// Sorts: sort_by -> kolom.
	Sorts       map[string]string
	DefaultSort string
	// Search: kolom yang dicari dengan ?q=
	Search []string
	// ActiveColumn dipakai untuk ActiveOnly (mis. "is_active").
	ActiveColumn string
	// ReadOnly: key json yang tidak boleh diubah client (mis. counter).
	ReadOnly []string
	// Files: key json berisi URL object storage; object lama dibuang saat diganti.
	Files []string
	// Managed: hanya diubah lewat service khusus (gallery), tidak lewat editor generik.
	Managed bool
}

func (s Schema[T]) topic() string {
	if s.Topic != "" {
		return s.Topic
	}
	return s.Name + ".updated"
}

// ListQuery adalah parameter List yang sudah diparse dari query string.
type ListQuery struct {
	Filters    map[string]string
	ActiveOnly bool
	Search     string
	SortBy     string
	SortOrder  string // asc|desc
	Limit      int
	Offset     int
}
