package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadCache_SetGetFlush(t *testing.T) {
	rc := NewReadCache(time.Minute)

	_, ok := rc.Get("top:10")
	assert.False(t, ok)

	rc.Set("top:10", []string{"a"})
	v, ok := rc.Get("top:10")
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, v)
	assert.Equal(t, 1, rc.Len())

	rc.Flush()
	_, ok = rc.Get("top:10")
	assert.False(t, ok)
	assert.Equal(t, 0, rc.Len())
}

func TestReadCache_Expires(t *testing.T) {
	rc := NewReadCache(20 * time.Millisecond)
	rc.Set("k", 1)

	time.Sleep(40 * time.Millisecond)

	_, ok := rc.Get("k")
	assert.False(t, ok)
}

func TestReadCache_DisabledIsNilSafe(t *testing.T) {
	rc := NewReadCache(0)
	assert.Nil(t, rc)

	rc.Set("k", 1)
	_, ok := rc.Get("k")
	assert.False(t, ok)
	rc.Flush()
	assert.Equal(t, 0, rc.Len())
}
