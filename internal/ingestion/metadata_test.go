package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	meta := NewMetadata("新能源车", "https://zhuanlan.zhihu.com/p/1")

	assert.Equal(t, "https://zhuanlan.zhihu.com/p/1", meta.URL)
	assert.Equal(t, 4, meta.Chars, "chars counts runes")
	assert.Equal(t, textDigest("新能源车"), meta.Hash)
	assert.Len(t, meta.Hash, 64)
	assert.NotEqual(t, textDigest("新能源"), meta.Hash)

	ts, err := time.Parse(time.RFC3339, meta.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestMetadata_ToJSON_OmitsEmptySourceFields(t *testing.T) {
	data, err := NewMetadata("text", "").ToJSON()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"hash"`)
	assert.Contains(t, out, `"chars": 4`)
	assert.NotContains(t, out, `"url"`)
	assert.NotContains(t, out, `"platform"`)
	assert.NotContains(t, out, `"title"`)
}

func TestTextDigest_KnownValue(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", textDigest(""))
}
