package materialize

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
var pngPixel = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89, 0x00, 0x00, 0x00,
	0x0A, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82,
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestBinaryKeepsDeclaredType(t *testing.T) {
	img, err := Binary(context.Background(), FromBytes("icon.webp", "image/webp", []byte("RIFF....")))
	require.NoError(t, err)
	assert.Equal(t, "image/webp", img.MIMEType)
	assert.Equal(t, []byte("RIFF...."), img.Data)
}

func TestBinarySniffsMissingType(t *testing.T) {
	for _, declared := range []string{"", "application/octet-stream"} {
		img, err := Binary(context.Background(), FromBytes("icon", declared, pngPixel))
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.MIMEType)
		assert.Equal(t, pngPixel, img.Data)
	}
}

func TestBinaryReadError(t *testing.T) {
	src := Source{
		Name: "broken.png",
		Open: func() (io.ReadCloser, error) { return io.NopCloser(failingReader{}), nil },
	}
	_, err := Binary(context.Background(), src)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "broken.png")
}

func TestTextStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("héllo")...)
	got, err := Text(context.Background(), FromBytes("a.txt", "text/plain", data))
	require.NoError(t, err)
	assert.Equal(t, "héllo", got)
}

func TestTextRejectsInvalidUTF8(t *testing.T) {
	_, err := Text(context.Background(), FromBytes("bad.txt", "", []byte{0xff, 0xfe, 0x00}))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestTextOpenError(t *testing.T) {
	_, err := Text(context.Background(), FromPath(filepath.Join(t.TempDir(), "missing.txt")))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# notes"), 0o644))

	files, err := TextFiles(context.Background(), []Source{FromPath(path)})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "notes.md", files[0].Name)
	assert.Equal(t, "# notes", files[0].Content)
}

func delayedSource(name, content string, delay time.Duration, done chan<- string) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			time.Sleep(delay)
			done <- name
			return io.NopCloser(bytes.NewBufferString(content)), nil
		},
	}
}

func TestTextFilesPreservesInputOrder(t *testing.T) {
	done := make(chan string, 2)
	srcs := []Source{
		delayedSource("a.txt", "first", 50*time.Millisecond, done),
		delayedSource("b.txt", "second", 0, done),
	}

	files, err := TextFiles(context.Background(), srcs)
	require.NoError(t, err)

	// b.txt finished first, the result still follows input order
	assert.Equal(t, "b.txt", <-done)
	assert.Equal(t, "a.txt", <-done)
	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, "first", files[0].Content)
	assert.Equal(t, "b.txt", files[1].Name)
	assert.Equal(t, "second", files[1].Content)
}

func TestTextFilesEmpty(t *testing.T) {
	files, err := TextFiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestTextFilesFailure(t *testing.T) {
	srcs := []Source{
		FromBytes("ok.txt", "", []byte("fine")),
		FromBytes("bad.txt", "", []byte{0xc3, 0x28}),
	}
	files, err := TextFiles(context.Background(), srcs)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Nil(t, files)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Text(ctx, FromBytes("a.txt", "", []byte("x")))
	assert.ErrorIs(t, err, context.Canceled)
}
