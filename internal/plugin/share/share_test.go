package share

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xcenweb/delin-ocr/internal/plugin"
	"go.uber.org/zap/zaptest"
)

type fakeClipboard struct {
	text     string
	files    []string
	filesErr error
}

func newPlugin(t *testing.T, cb *fakeClipboard) (*Plugin, string) {
	t.Helper()
	dir := t.TempDir()
	p := New(&plugin.Host{Log: zaptest.NewLogger(t), DataDir: dir})
	p.setText = func(ctx context.Context, text string) error {
		cb.text = text
		return nil
	}
	p.setFiles = func(paths []string) error {
		if cb.filesErr != nil {
			return cb.filesErr
		}
		cb.files = paths
		return nil
	}
	require.NoError(t, p.Init())
	p.Startup(context.Background())
	return p, dir
}

func TestShareBeforeStartup(t *testing.T) {
	p := New(&plugin.Host{Log: zaptest.NewLogger(t), DataDir: t.TempDir()})
	require.NoError(t, p.Init())
	_, err := p.ShareText("x")
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = p.ShareFiles([]string{"a"})
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestShareText(t *testing.T) {
	cb := &fakeClipboard{}
	p, _ := newPlugin(t, cb)

	res, err := p.ShareText("recognized text")
	require.NoError(t, err)
	assert.Equal(t, "recognized text", cb.text)
	assert.Equal(t, MethodText, res.Method)
	assert.Equal(t, 1, res.Count)
	_, err = uuid.Parse(res.ID)
	assert.NoError(t, err)
}

func TestShareFilesAsFileList(t *testing.T) {
	cb := &fakeClipboard{}
	p, dir := newPlugin(t, cb)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), nil, 0644))

	res, err := p.ShareFiles([]string{"a.png", "b.png"})
	require.NoError(t, err)
	assert.Equal(t, MethodFileList, res.Method)
	assert.Equal(t, 2, res.Count)
	require.Len(t, cb.files, 2)
	assert.True(t, filepath.IsAbs(cb.files[0]))
	assert.Equal(t, "a.png", filepath.Base(cb.files[0]))
	assert.Empty(t, cb.text)
}

func TestShareFilesFallsBackToText(t *testing.T) {
	for _, filesErr := range []error{errFileListUnsupported, errors.New("clipboard busy")} {
		cb := &fakeClipboard{filesErr: filesErr}
		p, dir := newPlugin(t, cb)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), nil, 0644))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.png"), nil, 0644))

		res, err := p.ShareFiles([]string{"a.png", "sub/b.png"})
		require.NoError(t, err)
		assert.Equal(t, MethodText, res.Method)
		assert.Equal(t, 2, res.Count)

		lines := strings.Split(cb.text, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "b.png", filepath.Base(lines[1]))
	}
}

func TestShareFilesValidation(t *testing.T) {
	cb := &fakeClipboard{}
	p, _ := newPlugin(t, cb)

	_, err := p.ShareFiles(nil)
	assert.Error(t, err)
	_, err = p.ShareFiles([]string{"missing.png"})
	assert.Error(t, err)
	_, err = p.ShareFiles([]string{"../outside.png"})
	assert.Error(t, err)
	assert.Nil(t, cb.files)
	assert.Empty(t, cb.text)
}
