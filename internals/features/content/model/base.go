package model

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// SingletonID adalah id tetap untuk section yang hanya punya satu baris.
const SingletonID = "main"

// Base berisi kolom yang dimiliki semua tabel konten.
// version naik satu setiap update; dipakai untuk If-Match.
type Base struct {
	ID        string    `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Version   int64     `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (b *Base) GetID() string       { return b.ID }
func (b *Base) SetID(id string)     { b.ID = id }
func (b *Base) GetVersion() int64   { return b.Version }
func (b *Base) SetVersion(v int64)  { b.Version = v }
func (b *Base) Touch(now time.Time) { b.UpdatedAt = now }

// ServerFields tidak boleh diisi dari body request.
var ServerFields = []string{"id", "version", "created_at", "updated_at"}

// Date disimpan sebagai kolom DATE, JSON-nya "YYYY-MM-DD" (RFC3339 juga diterima).
type Date struct {
	datatypes.Date
}

func NewDate(t time.Time) *Date {
	return &Date{Date: datatypes.Date(t)}
}

func (d Date) Time() time.Time { return time.Time(d.Date) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time().Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Date = datatypes.Date(t)
			return nil
		}
	}
	return fmt.Errorf("tanggal tidak valid %q (pakai YYYY-MM-DD)", s)
}
