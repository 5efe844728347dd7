package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPresigned(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		presigned bool
	}{
		{"s3 host", "https://bucket.s3.amazonaws.com/file.png", true},
		{"amz signature param", "https://files.example.com/f.png?X-Amz-Algorithm=AWS4-HMAC-SHA256", true},
		{"platform url", "https://example.monday.com/resources/1/f.png", false},
		{"plain cdn", "https://cdn.example.com/f.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.presigned, IsPresigned(tt.url))
		})
	}
}

func TestDownloader_Fetch_AttachesTokenToPlatformURLs(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("bytes"))
	}))
	defer server.Close()

	d := NewDownloader("secret-token")
	dest := filepath.Join(t.TempDir(), "out.bin")

	outcome := d.Fetch(context.Background(), server.URL+"/file.png", dest)

	require.True(t, outcome.Downloaded, outcome.Reason)
	assert.Equal(t, "secret-token", gotAuth)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))
}

func TestDownloader_Fetch_OmitsTokenForPresignedURLs(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("signed bytes"))
	}))
	defer server.Close()

	d := NewDownloader("secret-token")
	dest := filepath.Join(t.TempDir(), "out.bin")

	// Signature marker in the query string flags the URL as pre-signed
	outcome := d.Fetch(context.Background(), server.URL+"/f.png?X-Amz-Algorithm=AWS4-HMAC-SHA256", dest)

	require.True(t, outcome.Downloaded, outcome.Reason)
	assert.Empty(t, gotAuth)
}

func TestDownloader_Fetch_CreatesParentDirectories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	d := NewDownloader("")
	dest := filepath.Join(t.TempDir(), "export", "images", "a.png")

	outcome := d.Fetch(context.Background(), server.URL, dest)

	require.True(t, outcome.Downloaded, outcome.Reason)
	assert.FileExists(t, dest)
}

func TestDownloader_Fetch_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	d := NewDownloader("token")
	dest := filepath.Join(t.TempDir(), "out.bin")

	outcome := d.Fetch(context.Background(), server.URL, dest)

	assert.False(t, outcome.Downloaded)
	assert.Contains(t, outcome.Reason, "404")
	assert.NoFileExists(t, dest)
}

func TestDownloader_Fetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	d := NewDownloader("token")
	dest := filepath.Join(t.TempDir(), "out.bin")

	outcome := d.Fetch(context.Background(), server.URL, dest)

	assert.False(t, outcome.Downloaded)
	assert.NotEmpty(t, outcome.Reason)
}

func TestDownloader_Fetch_InvalidURL(t *testing.T) {
	d := NewDownloader("token")

	outcome := d.Fetch(context.Background(), "://not-a-url", filepath.Join(t.TempDir(), "x"))

	assert.False(t, outcome.Downloaded)
	assert.NotEmpty(t, outcome.Reason)
}
