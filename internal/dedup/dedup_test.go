package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentRegister_MissingFileIsEmpty(t *testing.T) {
	reg := NewSentRegister(filepath.Join(t.TempDir(), "sent_emails.json"))

	assert.Equal(t, 0, reg.Len())
	assert.False(t, reg.Contains("a@x.co"))
}

func TestSentRegister_FilterAndIdempotentAdd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "sent_emails.json")
	reg := NewSentRegister(path)
	reg.Add("a@x.co", "b@y.org")
	reg.Add("a@x.co")

	fresh, skipped := reg.Filter([]string{"c@z.io", "a@x.co", "d@w.net", "b@y.org"})

	assert.Equal(t, []string{"c@z.io", "d@w.net"}, fresh)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, 2, reg.Len())
}

func TestSentRegister_SaveThenReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_emails.json")
	reg := NewSentRegister(path)
	reg.Add("z@x.co", "a@x.co")
	require.NoError(t, reg.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk []string
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, []string{"a@x.co", "z@x.co"}, onDisk)

	reloaded := NewSentRegister(path)
	assert.True(t, reloaded.Contains("z@x.co"))
	assert.Equal(t, 2, reloaded.Len())
}

func TestSentRegister_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_emails.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	reg := NewSentRegister(path)

	assert.Equal(t, 0, reg.Len())
}
