package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Title string `json:"title" validate:"required,notblank"`
	Kind  string `json:"kind" validate:"omitempty,oneof=info urgent"`
	Link  string `json:"link" validate:"omitempty,url"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		want []string
	}{
		{"valid", sample{Title: "Ujian", Kind: "info"}, nil},
		{"missing title", sample{}, []string{"title"}},
		{"blank title", sample{Title: "   "}, []string{"title"}},
		{"bad enum and url", sample{Title: "x", Kind: "other", Link: "nope"}, []string{"kind", "link"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Struct(tc.in)
			assert.Len(t, got, len(tc.want))
			for _, k := range tc.want {
				assert.NotEmpty(t, got[k], k)
			}
		})
	}
}

func TestMessagesUseJSONNames(t *testing.T) {
	got := Struct(sample{})
	assert.Equal(t, "title is a required field", got["title"])
}
