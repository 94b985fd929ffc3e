package compress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rockblock/isbd/compress"
)

func TestRoundTrip(t *testing.T) {
	in := "HELLO WORLD, this is a short burst data test message."
	c, err := compress.Compress(in)
	require.NoError(t, err)
	assert.NotEmpty(t, c)

	out, err := compress.Decompress(c)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEmpty(t *testing.T) {
	c, err := compress.Compress("")
	require.NoError(t, err)
	out, err := compress.Decompress(c)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
