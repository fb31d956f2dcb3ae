package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole_Plain(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "plain")

	c.Success("List created successfully")
	c.Error("Failed to create list")

	assert.Equal(t, "✔ List created successfully\n✖ Failed to create list\n", buf.String())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	assert.False(t, ok)

	r.Success("a")
	r.Error("b")

	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, Notification{Kind: KindError, Message: "b"}, last)
	assert.Len(t, r.All(), 2)

	assert.Len(t, r.Drain(), 2)
	assert.Empty(t, r.All())
}
