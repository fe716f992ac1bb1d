package u

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert"
)

func TestCompressRoundTrip(t *testing.T) {
	d := bytes.Repeat([]byte("pk#sk meta value "), 200)

	zd, err := ZstdCompressData(d)
	assert.NoError(t, err)
	assert.True(t, len(zd) < len(d))
	got, err := ZstdDecompressData(zd)
	assert.NoError(t, err)
	assert.Equal(t, d, got)

	bd, err := BrCompressDataDefault(d)
	assert.NoError(t, err)
	assert.True(t, len(bd) < len(d))
	got, err = BrDecompressData(bd)
	assert.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestZstdDecompressGarbage(t *testing.T) {
	_, err := ZstdDecompressData([]byte("not zstd"))
	assert.Error(t, err)
}
