package repository

import (
	"reflect"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"sekolahku_backend/internals/features/content/model"
)

// Document adalah record dalam bentuk JSON object (body request / respon).
type Document map[string]any

// VersionOf membaca field "version" dari dokumen hasil decode JSON.
func VersionOf(doc Document) int64 {
	switch v := doc["version"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Clone menyalin dokumen satu level (nilai nested dipakai bersama).
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// jsonFields mengumpulkan nama json field T, termasuk dari struct embedded.
func jsonFields(t reflect.Type) []string {
	var out []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			out = append(out, jsonFields(f.Type)...)
			continue
		}
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out = append(out, name)
	}
	return out
}

type keyRules struct {
	writable map[string]bool
	server   map[string]bool
}

func newKeyRules[T any](readOnly []string) keyRules {
	var zero T
	kr := keyRules{writable: map[string]bool{}, server: map[string]bool{}}
	for _, k := range model.ServerFields {
		kr.server[k] = true
	}
	for _, k := range readOnly {
		kr.server[k] = true
	}
	for _, k := range jsonFields(reflect.TypeOf(zero)) {
		if !kr.server[k] {
			kr.writable[k] = true
		}
	}
	return kr
}

func (kr keyRules) check(doc Document) error {
	fields := map[string]string{}
	for k := range doc {
		switch {
		case kr.writable[k]:
		case kr.server[k]:
			fields[k] = "field dikelola server, tidak boleh diisi"
		default:
			fields[k] = "field tidak dikenal"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// merge menimpa field rec dengan key yang ada di doc saja.
func merge[T any](rec *T, doc Document) error {
	if len(doc) == 0 {
		return nil
	}
	raw, err := sonic.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encode document")
	}
	if err := sonic.Unmarshal(raw, rec); err != nil {
		return invalid("body", "tipe data tidak sesuai: "+err.Error())
	}
	return nil
}

func toDocument(v any) (Document, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode record")
	}
	var doc Document
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "decode record")
	}
	return doc, nil
}

func snapshot(v any) string {
	raw, err := sonic.MarshalString(v)
	if err != nil {
		return ""
	}
	return raw
}

// ReplacedFiles: URL lama di key file yang nilainya berubah antara before dan after.
func ReplacedFiles(keys []string, before, after Document) []string {
	var out []string
	for _, k := range keys {
		old, _ := before[k].(string)
		if old == "" {
			continue
		}
		if now, _ := after[k].(string); now != old {
			out = append(out, old)
		}
	}
	return out
}
