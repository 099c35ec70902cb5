// Package materialize turns user supplied files into payloads the generator can send:
// binary files become inline images, text files become decoded strings.
package materialize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"easyapp_server/internal/types"
)

// ErrDecode is returned when a file's bytes cannot be read or decoded.
var ErrDecode = errors.New("file could not be decoded")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source is a file handle that has not been read yet.
type Source struct {
	Name        string
	ContentType string // declared type, may be empty
	Open        func() (io.ReadCloser, error)
}

// FromMultipart wraps an uploaded form file.
func FromMultipart(fh *multipart.FileHeader) Source {
	return Source{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FromPath wraps a file on local disk.
func FromPath(path string) Source {
	return Source{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// FromBytes wraps an in-memory file.
func FromBytes(name, contentType string, data []byte) Source {
	return Source{
		Name:        name,
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func readAll(ctx context.Context, src Source) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src.Open == nil {
		return nil, fmt.Errorf("%w: %s has no content", ErrDecode, src.Name)
	}
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDecode, src.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrDecode, src.Name, err)
	}
	return data, nil
}

// Binary reads src fully and pairs the bytes with a MIME type. The declared content type
// wins unless it is missing or generic, in which case the type is sniffed from the bytes.
func Binary(ctx context.Context, src Source) (types.InlineImage, error) {
	data, err := readAll(ctx, src)
	if err != nil {
		return types.InlineImage{}, err
	}

	mimeType := strings.TrimSpace(src.ContentType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimetype.Detect(data).String()
	}
	return types.InlineImage{Data: data, MIMEType: mimeType}, nil
}

// Text reads src fully as UTF-8, dropping a leading byte order mark.
func Text(ctx context.Context, src Source) (string, error) {
	data, err := readAll(ctx, src)
	if err != nil {
		return "", err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8 text", ErrDecode, src.Name)
	}
	return string(data), nil
}

// TextFiles decodes every source concurrently. The result keeps the input order no matter
// which file finishes first; the first failure cancels the remaining reads.
func TextFiles(ctx context.Context, srcs []Source) ([]types.ReferenceFile, error) {
	files := make([]types.ReferenceFile, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		g.Go(func() error {
			content, err := Text(gctx, src)
			if err != nil {
				return err
			}
			files[i] = types.ReferenceFile{Name: src.Name, Content: content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
