package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easyapp_server/internal/build"
	"easyapp_server/internal/packager"
	"easyapp_server/internal/types"
)

type stubGenerator struct {
	req types.GenerationRequest
}

func (s *stubGenerator) Generate(ctx context.Context, req types.GenerationRequest) (types.ProjectFiles, error) {
	s.req = req
	return types.ProjectFiles{
		GoogleServices: "{}",
		AppIcon:        "<vector/>",
		Item1Icon:      "<vector/>",
		Item2Icon:      "<vector/>",
		Settings:       "<vector/>",
		AppTree:        `{"appName":"Recipe Box"}`,
	}, nil
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunGenerate(t *testing.T) {
	dir := t.TempDir()
	gen := &stubGenerator{}
	opts := generateOptions{
		name:        "Recipe Box",
		description: "Save recipes",
		iconPath:    writeFile(t, dir, "icon.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")),
		adID:        "ca-app-pub-1~2",
		refs:        []string{writeFile(t, dir, "notes.md", []byte("# notes"))},
		out:         filepath.Join(dir, "out.zip"),
		outDir:      filepath.Join(dir, "unpacked"),
	}

	var stdout bytes.Buffer
	require.NoError(t, runGenerate(context.Background(), build.NewService(gen), opts, &stdout))
	assert.Contains(t, stdout.String(), "out.zip")

	assert.Equal(t, "image/png", gen.req.Icon.MIMEType)
	require.Len(t, gen.req.ReferenceFiles, 1)
	assert.Equal(t, "notes.md", gen.req.ReferenceFiles[0].Name)
	assert.Equal(t, "# notes", gen.req.ReferenceFiles[0].Content)

	f, err := os.Open(opts.out)
	require.NoError(t, err)
	defer f.Close()
	info, err := f.Stat()
	require.NoError(t, err)
	entries, err := packager.ReadArchive(f, info.Size())
	require.NoError(t, err)
	assert.Len(t, entries, 6)

	data, err := os.ReadFile(filepath.Join(opts.outDir, "tree", "app.easy"))
	require.NoError(t, err)
	assert.Equal(t, `{"appName":"Recipe Box"}`, string(data))
}

func TestRunGenerateValidation(t *testing.T) {
	dir := t.TempDir()
	gen := &stubGenerator{}
	opts := generateOptions{name: "Recipe Box", description: "Save recipes", adID: "x", out: filepath.Join(dir, "out.zip")}

	var verr *build.ValidationError
	err := runGenerate(context.Background(), build.NewService(gen), opts, &bytes.Buffer{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "icon", verr.Field)
	assert.NoFileExists(t, opts.out)
}

func TestRunValidate(t *testing.T) {
	doc := `{"appName":"A","appVersion":"1.0.0","startScreen":"home","admobAppId":"ad",
	"toolbar":{"title":"A"},"screens":[{"name":"home"},{"name":"about"}],
	"actions":[{"id":"go","type":"navigate","screen":"about"}]}`

	var out bytes.Buffer
	require.NoError(t, runValidate(doc, "ad", &out))
	assert.Contains(t, out.String(), "ok")

	out.Reset()
	err := runValidate(doc, "other", &out)
	assert.ErrorIs(t, err, errInvalidAppTree)
	assert.Contains(t, out.String(), "admobAppId")

	assert.Error(t, runValidate("{", "", &out))
}
