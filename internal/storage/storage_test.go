package storage

import (
	"bytes"
	"context"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkwell/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	require.NoError(t, gif.Encode(buf, image.NewPaletted(image.Rect(0, 0, 3, 2), palette.Plan9), nil))
	return buf.Bytes()
}

func TestInspect(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		info, err := Inspect(Image{Data: pngBytes(t, 4, 3)}, 1024*1024)
		require.NoError(t, err)
		assert.Equal(t, "image/png", info.MIME)
		assert.Equal(t, ".png", info.Extension)
		assert.Equal(t, 4, info.Width)
		assert.Equal(t, 3, info.Height)
	})

	t.Run("gif", func(t *testing.T) {
		info, err := Inspect(Image{Data: gifBytes(t)}, 0)
		require.NoError(t, err)
		assert.Equal(t, ".gif", info.Extension)
	})

	t.Run("declared type is ignored", func(t *testing.T) {
		_, err := Inspect(Image{ContentType: "image/png", Data: []byte("plain text, not an image")}, 0)
		assert.ErrorIs(t, err, ErrUnsupportedImage)
	})

	t.Run("truncated image", func(t *testing.T) {
		data := pngBytes(t, 4, 4)
		_, err := Inspect(Image{Data: data[:20]}, 0)
		assert.ErrorIs(t, err, ErrUnsupportedImage)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := Inspect(Image{Data: pngBytes(t, 64, 64)}, 10)
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Inspect(Image{}, 0)
		assert.ErrorIs(t, err, ErrEmptyImage)
	})
}

func TestMaxUploadBytes(t *testing.T) {
	assert.Equal(t, int64(10*1024*1024), MaxUploadBytes(nil))
	assert.Equal(t, int64(2*1024*1024), MaxUploadBytes(&config.Config{ImageMaxUploadSizeMB: 2}))
}

func TestNew(t *testing.T) {
	s, err := New(&config.Config{ImageStore: "local", ImageUploadDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	s, err = New(&config.Config{ImageStore: "remote", ImageUploadURL: "http://example.test/upload"})
	require.NoError(t, err)
	assert.IsType(t, &RemoteStore{}, s)

	_, err = New(&config.Config{ImageStore: "remote"})
	assert.Error(t, err)

	_, err = New(&config.Config{ImageStore: "s3"})
	assert.Error(t, err)
}

func TestLocalStore_Upload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	store := NewLocalStore(dir, "/uploads/")
	data := pngBytes(t, 2, 2)

	url, err := store.Upload(context.Background(), Image{Filename: "cat.png", Data: data})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	written, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, data, written)
}

func TestLocalStore_UploadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocalStore(t.TempDir(), "").Upload(ctx, Image{Data: []byte("x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemoteStore_Upload(t *testing.T) {
	data := pngBytes(t, 2, 2)

	var gotPreset, gotKey, gotName string
	var gotData []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotPreset = r.FormValue("upload_preset")
		gotKey = r.FormValue("api_key")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		gotName = hdr.Filename
		gotData, _ = io.ReadAll(f)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"secure_url":"https://cdn.example.test/abc.png","url":"http://cdn.example.test/abc.png"}`)
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.URL+"/upload", "blog", "key-123")
	url, err := store.Upload(context.Background(), Image{Filename: "cat.png", Data: data})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.test/abc.png", url)
	assert.Equal(t, "blog", gotPreset)
	assert.Equal(t, "key-123", gotKey)
	assert.Equal(t, "cat.png", gotName)
	assert.Equal(t, data, gotData)
}

func TestRemoteStore_FallsBackToURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"url":"http://cdn.example.test/x.png"}`)
	}))
	defer srv.Close()

	url, err := NewRemoteStore(srv.URL, "", "").Upload(context.Background(), Image{Data: pngBytes(t, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.example.test/x.png", url)
}

func TestRemoteStore_Errors(t *testing.T) {
	t.Run("store rejects upload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"message":"Upload preset not found"}}`)
		}))
		defer srv.Close()

		_, err := NewRemoteStore(srv.URL, "missing", "").Upload(context.Background(), Image{Data: pngBytes(t, 1, 1)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Upload preset not found")
	})

	t.Run("no url in response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{}`)
		}))
		defer srv.Close()

		_, err := NewRemoteStore(srv.URL, "", "").Upload(context.Background(), Image{Data: pngBytes(t, 1, 1)})
		assert.Error(t, err)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := NewRemoteStore("ftp://example.test", "", "").Upload(context.Background(), Image{Data: []byte("x")})
		assert.Error(t, err)
	})
}
