package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	assert.Equal(t, "1700000000123-file.jpg", ObjectKey(now, "file.jpg"))
	assert.Equal(t, "1700000000123-my-photo.png", ObjectKey(now, "my photo.png"))
	assert.Equal(t, "1700000000123-evil.jpg", ObjectKey(now, "../../evil.jpg"))
	assert.Equal(t, "1700000000123-pic.gif", ObjectKey(now, `C:\Users\me\pic.gif`))
	assert.Equal(t, "1700000000123-upload", ObjectKey(now, ""))
	assert.Equal(t, "1700000000123-upload", ObjectKey(now, ".."))

	// Characters that would break the public URL never reach the key.
	assert.Equal(t, "1700000000123-foto-1.jpg", ObjectKey(now, "foto#1.jpg"))
	assert.Equal(t, "1700000000123-foto-1.jpg", ObjectKey(now, "foto #1.jpg"))
	assert.Equal(t, "1700000000123-mutir-o.png", ObjectKey(now, "mutirão.png"))
	assert.Equal(t, "1700000000123-a-b-20.jpg", ObjectKey(now, "a?b%20.jpg"))
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t,
		"https://ong-connect.s3.sa-east-1.amazonaws.com",
		BaseURL(Config{Bucket: "ong-connect", Region: "sa-east-1"}),
	)
	assert.Equal(t,
		"http://localhost:9000/ong-connect",
		BaseURL(Config{Bucket: "ong-connect", Region: "us-east-1", Endpoint: "http://localhost:9000/"}),
	)
}

func TestKeyFromURL(t *testing.T) {
	base := "https://ong-connect.s3.sa-east-1.amazonaws.com"

	key, err := KeyFromURL(base, base+"/1700000000123-file.jpg")
	require.NoError(t, err)
	assert.Equal(t, "1700000000123-file.jpg", key)

	_, err = KeyFromURL(base, "https://elsewhere.example/file.jpg")
	require.ErrorIs(t, err, ErrUnknownObject)

	_, err = KeyFromURL(base, base+"/")
	require.ErrorIs(t, err, ErrUnknownObject)
}

func TestNewS3Storage_RequiresCredentials(t *testing.T) {
	_, err := NewS3Storage(Config{Bucket: "ong-connect"})
	require.Error(t, err)
}
