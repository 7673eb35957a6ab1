package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ldmcsv/internal/logging"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

func newPipeline(t *testing.T) (*Pipeline, string) {
	t.Helper()
	tmp := t.TempDir()
	return &Pipeline{Logger: logging.NewNullLogger(), TempDir: tmp, Delimiter: ','}, tmp
}

func writeData(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary files must be removed")
}

func TestRun_StripsHeaderAndCleansUp(t *testing.T) {
	p, tmp := newPipeline(t)
	data := writeData(t, "h1,h2\nr1a,r1b\nr2a,r2b\n")

	var seenPath string
	var seen []byte
	sink := ldmcsv.SinkFunc(func(_ context.Context, path string) error {
		seenPath = path
		var err error
		seen, err = os.ReadFile(path)
		return err
	})

	require.NoError(t, p.Run(context.Background(), data, true, sink))

	assert.Equal(t, "r1a,r1b\nr2a,r2b\n", string(seen))
	assert.Equal(t, tmp, filepath.Dir(seenPath))
	_, err := os.Stat(seenPath)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assertEmptyDir(t, tmp)

	original, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, "h1,h2\nr1a,r1b\nr2a,r2b\n", string(original), "the source file is not modified")
}

func TestRun_NoHeaderIsNoOp(t *testing.T) {
	p, tmp := newPipeline(t)
	called := false
	sink := ldmcsv.SinkFunc(func(context.Context, string) error {
		called = true
		return nil
	})

	require.NoError(t, p.Run(context.Background(), writeData(t, "a,b\n1,2\n"), false, sink))
	assert.False(t, called)
	assertEmptyDir(t, tmp)
}

func TestRun_NoHeaderIgnoresMissingFile(t *testing.T) {
	p, _ := newPipeline(t)
	sink := ldmcsv.SinkFunc(func(context.Context, string) error { return nil })

	assert.NoError(t, p.Run(context.Background(), "/does/not/exist.csv", false, sink))
}

func TestRun_CleansUpWhenSinkFails(t *testing.T) {
	p, tmp := newPipeline(t)
	boom := errors.New("backend down")
	sink := ldmcsv.SinkFunc(func(context.Context, string) error { return boom })

	err := p.Run(context.Background(), writeData(t, "h\n1\n"), true, sink)
	assert.ErrorIs(t, err, boom)
	assertEmptyDir(t, tmp)
}

func TestRun_ModelErrorSurfaces(t *testing.T) {
	p, tmp := newPipeline(t)
	sink := ldmcsv.SinkFunc(func(context.Context, string) error {
		return fmt.Errorf("row 2 has 3 fields: %w", ldmcsv.ErrModel)
	})

	err := p.Run(context.Background(), writeData(t, "h\n1\n"), true, sink)
	assert.ErrorIs(t, err, ldmcsv.ErrModel)
	assertEmptyDir(t, tmp)
}

func TestRun_SinkMayRemoveFile(t *testing.T) {
	var out bytes.Buffer
	p, tmp := newPipeline(t)
	p.Logger = logging.NewWriterLogger(&out, false)

	sink := ldmcsv.SinkFunc(func(_ context.Context, path string) error { return os.Remove(path) })

	require.NoError(t, p.Run(context.Background(), writeData(t, "h\n1\n"), true, sink))
	assertEmptyDir(t, tmp)
	assert.Empty(t, out.String(), "an already removed file is not an error")
}

func TestRun_IOErrors(t *testing.T) {
	p, _ := newPipeline(t)
	sink := ldmcsv.SinkFunc(func(context.Context, string) error {
		t.Fatal("sink must not be called")
		return nil
	})

	err := p.Run(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), true, sink)
	assert.ErrorIs(t, err, ldmcsv.ErrIO)

	err = p.Run(context.Background(), writeData(t, ""), true, sink)
	assert.ErrorIs(t, err, ldmcsv.ErrIO)

	p.TempDir = filepath.Join(t.TempDir(), "no", "such", "dir")
	err = p.Run(context.Background(), writeData(t, "h\n1\n"), true, sink)
	assert.ErrorIs(t, err, ldmcsv.ErrIO)
}

func TestRun_ZeroValuePipeline(t *testing.T) {
	var p Pipeline
	data := writeData(t, "h1\nr1\n")

	var seen []byte
	sink := ldmcsv.SinkFunc(func(_ context.Context, path string) error {
		var err error
		seen, err = os.ReadFile(path)
		return err
	})

	require.NotPanics(t, func() {
		require.NoError(t, p.Run(context.Background(), data, true, sink))
		require.NoError(t, p.Run(context.Background(), data, false, sink))
	})
	assert.Equal(t, "r1\n", string(seen))
}
