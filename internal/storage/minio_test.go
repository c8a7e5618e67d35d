package storage

import (
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/config"
)

func newTestClient(t *testing.T, endpoint string) *minio.Client {
	t.Helper()
	mc, err := minio.New(endpoint, &minio.Options{Creds: credentials.NewStaticV4("k", "s", "")})
	require.NoError(t, err)
	return mc
}

func TestPublicURL(t *testing.T) {
	cfg := config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "realty-uploads"}
	s := newMinIOStorage(newTestClient(t, cfg.Endpoint), cfg)
	require.Equal(t, "http://localhost:9000/realty-uploads/properties/a.jpg", s.PublicURL("properties/a.jpg"))

	cfg.UseSSL = true
	cfg.PublicBaseURL = "https://cdn.example.com/media/"
	s = newMinIOStorage(newTestClient(t, cfg.Endpoint), cfg)
	require.Equal(t, "https://cdn.example.com/media/properties/a.jpg", s.PublicURL("properties/a.jpg"))
}

func TestNewObjectKey(t *testing.T) {
	k1 := NewObjectKey(".JPG")
	k2 := NewObjectKey(".JPG")
	require.True(t, strings.HasPrefix(k1, KeyPrefix))
	require.True(t, strings.HasSuffix(k1, ".jpg"))
	require.NotEqual(t, k1, k2)
}

func TestNewMinIOStorage_NotConfigured(t *testing.T) {
	_, err := NewMinIOStorage(t.Context(), config.MinIOConfig{})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestValidKey(t *testing.T) {
	cases := map[string]bool{
		"properties/a.jpg":       true,
		"properties/2024/a.webp": true,
		"properties/":            false,
		"other/a.jpg":            false,
		"":                       false,
		"properties/../other/a":  false,
		"properties//a.jpg":      false,
		"/properties/a.jpg":      false,
	}
	for key, want := range cases {
		require.Equal(t, want, ValidKey(key), key)
	}
}
