package aggregate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/capnp-import/errors"
	"github.com/cloudposse/capnp-import/pkg/events"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func rust(t *testing.T) Target {
	t.Helper()
	target, err := TargetByName(TargetRust)
	require.NoError(t, err)
	return target
}

func TestAggregate_SingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"example.rs": "pub struct Example;"})

	out, err := New(rust(t)).Aggregate(context.Background(), dir)
	require.NoError(t, err)

	want := "mod example {\npub struct Example;\n}\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("blob mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []Unit{{Name: "example", Path: "example.rs", Content: "pub struct Example;"}}, out.Units)
}

func TestAggregate_OrderedAcrossDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"schemas/b/b.rs": "// b",
		"schemas/a/a.rs": "// a",
		"top.rs":         "// top",
	})

	out, err := New(rust(t)).Aggregate(context.Background(), dir)
	require.NoError(t, err)

	names := make([]string, 0, len(out.Units))
	for _, u := range out.Units {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"a", "b", "top"}, names)
	assert.Equal(t, "mod a {\n// a\n}\nmod b {\n// b\n}\nmod top {\n// top\n}\n", out.String())
}

func TestAggregate_EmptyDirectory(t *testing.T) {
	out, err := New(rust(t)).Aggregate(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, out.Units)
	assert.Equal(t, "", out.String())
}

func TestAggregate_ContentIsVerbatim(t *testing.T) {
	dir := t.TempDir()
	body := "// line 1\r\n\tfn f() {}\n\n"
	writeFiles(t, dir, map[string]string{"verbatim.rs": body})

	out, err := New(rust(t)).Aggregate(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "mod verbatim {\n"+body+"\n}\n", out.String())
}

func TestAggregate_InvalidModuleName(t *testing.T) {
	tests := []struct {
		file string
		name string
	}{
		{file: "my-schema.rs", name: "my-schema"},
		{file: "1st.rs", name: "1st"},
		{file: "type.rs", name: "type"},
		{file: ".rs", name: ".rs"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, map[string]string{tt.file: "// x"})

			out, err := New(rust(t)).Aggregate(context.Background(), dir)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, errUtils.ErrInvalidModuleName)

			var nameErr *errUtils.InvalidModuleNameError
			require.True(t, errors.As(err, &nameErr))
			assert.Equal(t, tt.name, nameErr.Name)
			assert.Equal(t, tt.file, nameErr.Path)
			assert.NotEmpty(t, nameErr.Reason)
		})
	}
}

func TestAggregate_NonTextOutput(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"blob.rs": string([]byte{0x00, 0x01, 0xff, 0xfe, 0x00})})

	out, err := New(rust(t)).Aggregate(context.Background(), dir)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, errUtils.ErrAggregation)
	assert.ErrorIs(t, err, errUtils.ErrNonTextOutput)
}

func TestAggregate_MissingDirectory(t *testing.T) {
	_, err := New(rust(t)).Aggregate(context.Background(), filepath.Join(t.TempDir(), "gone"))
	var aggErr *errUtils.AggregationError
	require.True(t, errors.As(err, &aggErr))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAggregate_Collision(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a/person.rs": "// first",
		"b/person.rs": "// second",
	})

	var rec events.Recorder
	out, err := New(rust(t), WithObserver(rec.Observe)).Aggregate(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, out.Units, 2)
	assert.Equal(t, "person", out.Units[0].Name)
	assert.Equal(t, "person", out.Units[1].Name)
	assert.Equal(t, "mod person {\n// first\n}\nmod person {\n// second\n}\n", out.String())

	collisions := rec.OfKind(events.KindCollision)
	require.Len(t, collisions, 1)
	assert.Equal(t, "b/person.rs", collisions[0].Path)
	assert.Equal(t, "person", collisions[0].Name)
	assert.Len(t, rec.OfKind(events.KindUnit), 2)
}

func TestAggregate_CppTarget(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"point.h": "struct Point {};"})

	target, err := TargetByName("cpp")
	require.NoError(t, err)
	out, err := New(target).Aggregate(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "namespace point {\nstruct Point {};\n}  // namespace point\n", out.String())
}

func TestAggregate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(rust(t)).Aggregate(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
