package controller

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/helpers/events"
)

func TestWriteEventFormat(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	err := WriteEvent(w, events.Event{
		Topic:  "footer.updated",
		Entity: "footer-sections",
		ID:     "abc",
		Action: events.ActionUpdated,
		At:     time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "event: footer.updated\ndata: {"))
	assert.True(t, strings.HasSuffix(out, "}\n\n"))
	assert.Contains(t, out, `"entity":"footer-sections"`)
	assert.Contains(t, out, `"action":"updated"`)
}
