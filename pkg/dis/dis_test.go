package dis

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSONListing(t *testing.T) {
	l, err := Load(filepath.Join("..", "..", "testdata", "sign.dis.json"))
	require.NoError(t, err)

	assert.Equal(t, "cpython-3.7", l.InstructionSet)
	require.Len(t, l.Callables, 2)

	sign, ok := l.Find("sign")
	require.True(t, ok)
	assert.Equal(t, "sign", sign.ID())
	assert.Equal(t, "testdata/sign.py", sign.File)
	require.Len(t, sign.Instructions, 14)

	branch := sign.Instructions[3]
	assert.Equal(t, "POP_JUMP_IF_FALSE", branch.OpName)
	require.NotNil(t, branch.JumpTarget)
	assert.Equal(t, 12, *branch.JumpTarget)

	_, ok = l.Find("missing")
	assert.False(t, ok)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(filepath.Join("..", "..", "testdata", "sign.py"))
	assert.ErrorContains(t, err, "unsupported listing format")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.dis.json"))
	assert.Error(t, err)
}

func TestMsgpackWriteReadRoundTrip(t *testing.T) {
	src, err := Load(filepath.Join("..", "..", "testdata", "sign.dis.json"))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = src.WriteTo(&buf)
	require.NoError(t, err)

	var got Listing
	n, err := got.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, src.InstructionSet, got.InstructionSet)
	assert.Equal(t, src.Callables, got.Callables)
}

func TestSaveAndLoadMsgpack(t *testing.T) {
	src, err := Load(filepath.Join("..", "..", "testdata", "nonzero.dis.json"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nonzero.dis.msgb")
	require.NoError(t, src.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, src.Callables, got.Callables)
}

func TestIsListingPath(t *testing.T) {
	assert.True(t, IsListingPath("pkg/sign.dis.json"))
	assert.True(t, IsListingPath("SIGN.DIS.MSGB"))
	assert.False(t, IsListingPath("sign.json"))
	assert.False(t, IsListingPath("sign.py"))
}
