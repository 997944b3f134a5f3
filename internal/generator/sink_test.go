package generator

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/dtogen/internal/model"
)

func TestSinkOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := filepath.Join("/out", "pkg", "dto")
	sink := NewSink(fs, dir, "DTO", ".java")

	bean := beanDef()
	a, err := sink.Open(bean)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "BeanDTO.java"), a.Path)

	again, err := sink.Open(beanDef())
	require.NoError(t, err)
	assert.Same(t, a, again, "one handle per type within a run")

	_, err = a.Write([]byte("part one\n"))
	require.NoError(t, err)
	_, err = again.Write([]byte("part two\n"))
	require.NoError(t, err)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close(), "close is idempotent")
	require.NoError(t, sink.Close())

	content, err := afero.ReadFile(fs, a.Path)
	require.NoError(t, err)
	assert.Equal(t, "part one\npart two\n", string(content))
	assert.Len(t, sink.Artifacts(), 1)
	assert.Len(t, a.Checksum(), 64)

	_, err = a.Write([]byte("late"))
	require.Error(t, err)
	assert.True(t, IsResourceError(err))
}

func TestSinkRecreatesStaleArtifact(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/out/pkg/dto"
	require.NoError(t, fs.MkdirAll(dir, 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "BeanDTO.java"), []byte("stale content that is longer"), 0o644))

	sink := NewSink(fs, dir, "DTO", ".java")
	a, err := sink.Open(beanDef())
	require.NoError(t, err)
	_, err = a.Write([]byte("fresh"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	content, err := afero.ReadFile(fs, a.Path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(content))
}

func TestSinkResourceErrors(ttt *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) afero.Fs
		op    string
	}{
		{
			name: "directory cannot be created",
			setup: func(t *testing.T) afero.Fs {
				return afero.NewReadOnlyFs(afero.NewMemMapFs())
			},
			op: "mkdir",
		},
		{
			name: "directory path is a file",
			setup: func(t *testing.T) afero.Fs {
				fs := afero.NewMemMapFs()
				require.NoError(t, afero.WriteFile(fs, "/out/pkg/dto", []byte("x"), 0o644))
				return fs
			},
			op: "mkdir",
		},
		{
			name: "stale artifact cannot be deleted",
			setup: func(t *testing.T) afero.Fs {
				base := afero.NewMemMapFs()
				require.NoError(t, afero.WriteFile(base, "/out/pkg/dto/BeanDTO.java", []byte("stale"), 0o644))
				return afero.NewReadOnlyFs(base)
			},
			op: "delete",
		},
		{
			name: "artifact cannot be created",
			setup: func(t *testing.T) afero.Fs {
				base := afero.NewMemMapFs()
				require.NoError(t, base.MkdirAll("/out/pkg/dto", 0o755))
				return afero.NewReadOnlyFs(base)
			},
			op: "create",
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			sink := NewSink(tt.setup(t), "/out/pkg/dto", "DTO", ".java")
			_, err := sink.Open(beanDef())
			require.Error(t, err)

			var re *ResourceError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.op, re.Op)
			assert.Empty(t, sink.Artifacts())
		})
	}
}

func TestSinkDiscard(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := NewSink(fs, "/out/pkg/dto", "DTO", ".java")
	a, err := sink.Open(beanDef())
	require.NoError(t, err)
	_, err = a.Write([]byte("half"))
	require.NoError(t, err)

	require.NoError(t, sink.Discard(a))

	exists, err := afero.Exists(fs, a.Path)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, sink.Artifacts())

	b, err := sink.Open(beanDef())
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestSinkRejectsSharedPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := NewSink(fs, "/out/pkg/dto", "DTO", ".java")
	first, err := sink.Open(beanDef())
	require.NoError(t, err)
	_, err = first.Write([]byte("from fr.maven.dto.bean.Bean"))
	require.NoError(t, err)

	other := &model.TypeDefinition{Name: "Bean", Namespace: otherNS, Kind: model.KindClass}
	_, err = sink.Open(other)
	require.Error(t, err)

	var re *ResourceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "create", re.Op)
	assert.Equal(t, first.Path, re.Path)
	assert.Contains(t, err.Error(), "fr.maven.dto.bean.Bean and fr.maven.dto.other.Bean")
	assert.Len(t, sink.Artifacts(), 1)

	require.NoError(t, sink.Close())
	content, err := afero.ReadFile(fs, first.Path)
	require.NoError(t, err)
	assert.Equal(t, "from fr.maven.dto.bean.Bean", string(content), "the first artifact is left intact")
}
