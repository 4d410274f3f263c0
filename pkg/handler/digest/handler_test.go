package digest

import (
	"crypto"
	"crypto/md5"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerAll(t *testing.T) {
	t.Helper()
	for _, n := range GetRegisteredHashFunctions() {
		h, err := New(n)
		require.NoError(t, err)
		Register(h)
	}
}

func TestGetHashFunction(t *testing.T) {
	h, ok := GetHashFunction("sha256")
	require.True(t, ok)
	assert.Equal(t, crypto.SHA256, h)

	_, ok = GetHashFunction("sha3")
	assert.False(t, ok)
}

func TestGetRegisteredHashFunctions(t *testing.T) {
	assert.Equal(t, []string{"md5", "sha1", "sha224", "sha256", "sha384", "sha512"}, GetRegisteredHashFunctions())
}

func TestNewUnknownAlgorithm(t *testing.T) {
	_, err := New("sha3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown digest algorithm "sha3"`)
}

func TestSum(t *testing.T) {
	h, err := New("sha256")
	require.NoError(t, err)
	assert.Equal(t, "sha256", h.Name())

	want := sha256.Sum256([]byte("deadbeef"))
	got, err := h.Sum([]byte("deadbeef"))
	require.NoError(t, err)
	assert.Equal(t, want[:], got)

	m, err := New("md5")
	require.NoError(t, err)
	wantMD5 := md5.Sum([]byte("deadbeef"))
	gotMD5, err := m.Sum([]byte("deadbeef"))
	require.NoError(t, err)
	assert.Equal(t, wantMD5[:], gotMD5)
}

func TestRegistry(t *testing.T) {
	registerAll(t)

	assert.Equal(t, []string{"md5", "sha1", "sha224", "sha256", "sha384", "sha512"}, SupportedDigests())

	h, err := Get("sha512")
	require.NoError(t, err)
	assert.Equal(t, "sha512", h.Name())

	_, err = Get("sha3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown digest algorithm")

	assert.Len(t, All(), 6)

	sel := All("sha256", "md5", "nope")
	require.Len(t, sel, 2)
	assert.Equal(t, "sha256", sel[0].Name())
	assert.Equal(t, "md5", sel[1].Name())
}
