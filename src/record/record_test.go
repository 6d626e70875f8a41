package record

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleList = `{
  "kind": "List",
  "items": [
    {
      "metadata": {
        "name": "app-1",
        "creationTimestamp": "2016-03-01T10:00:00Z",
        "annotations": {
          "base-image-name": "registry.example.com/fedora:23",
          "repositories": "{\"primary\": [\"registry.example.com/app:1.0\", \"registry.example.com/app:latest\"], \"unique\": []}",
          "tar_metadata": "{\"size\": 10485760, \"md5sum\": \"x\"}"
        }
      },
      "status": {
        "phase": "Complete",
        "startTimestamp": "2016-03-01T10:01:00Z",
        "completionTimestamp": "2016-03-01T10:11:00Z",
        "duration": 600000000000
      }
    },
    {
      "metadata": {"name": "app-2"},
      "status": {"phase": "New"}
    }
  ]
}`

func TestLoadList(t *testing.T) {
	builds, err := Load(strings.NewReader(sampleList))
	require.NoError(t, err)
	require.Len(t, builds, 2)

	b := builds[0]
	assert.Equal(t, "app-1", b.Name())
	assert.Equal(t, PhaseComplete, b.Phase())
	assert.Equal(t, time.Date(2016, 3, 1, 10, 0, 0, 0, time.UTC), b.Created())

	start, ok := b.Started()
	require.True(t, ok)
	assert.Equal(t, time.Date(2016, 3, 1, 10, 1, 0, 0, time.UTC), start)
	assert.Equal(t, "2016-03-01T10:01:00Z", b.StartTimestamp())

	done, ok := b.Completed()
	require.True(t, ok)
	assert.Equal(t, 10*time.Minute, done.Sub(start))
	assert.Equal(t, 10*time.Minute, b.Duration())

	base, ok := b.BaseImage()
	require.True(t, ok)
	assert.Equal(t, "fedora:23", base)

	repos, err := b.PrimaryRepositories()
	require.NoError(t, err)
	assert.Equal(t, []string{"app:1.0", "app:latest"}, repos)

	size, ok := b.TarSize()
	require.True(t, ok)
	assert.EqualValues(t, 10*1024*1024, size)
}

func TestMissingFieldsAreTolerated(t *testing.T) {
	builds, err := Load(strings.NewReader(sampleList))
	require.NoError(t, err)

	b := builds[1]
	_, ok := b.Started()
	assert.False(t, ok)
	_, ok = b.Completed()
	assert.False(t, ok)
	_, ok = b.BaseImage()
	assert.False(t, ok)
	_, ok = b.TarSize()
	assert.False(t, ok)
	assert.True(t, b.Created().IsZero())
	assert.Zero(t, b.Duration())

	_, err = b.PrimaryRepositories()
	assert.ErrorIs(t, err, ErrNoRepositories)
}

func TestMalformedRepositories(t *testing.T) {
	b := Build{Metadata: Metadata{Annotations: map[string]string{
		AnnotationRepositories: "{not json",
		AnnotationTarMetadata:  "{}",
	}}}

	_, err := b.PrimaryRepositories()
	assert.True(t, errors.Is(err, ErrNoRepositories))

	_, ok := b.TarSize()
	assert.False(t, ok)
}

func TestRepositoriesWithoutPrimary(t *testing.T) {
	for _, raw := range []string{`{}`, `{"unique": ["reg.example.com/app:1.0-1"]}`, `{"primary": null}`} {
		b := Build{Metadata: Metadata{Annotations: map[string]string{AnnotationRepositories: raw}}}
		_, err := b.PrimaryRepositories()
		assert.ErrorIs(t, err, ErrNoRepositories, raw)
	}

	b := Build{Metadata: Metadata{Annotations: map[string]string{AnnotationRepositories: `{"primary": []}`}}}
	repos, err := b.PrimaryRepositories()
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestUnparseableTimestampIsAbsent(t *testing.T) {
	b := Build{Status: Status{StartTimestamp: "yesterday"}}
	_, ok := b.Started()
	assert.False(t, ok)
}

func TestLoadArray(t *testing.T) {
	builds, err := Load(strings.NewReader(`[{"metadata":{"name":"a"}},{"metadata":{"name":"b"}}]`))
	require.NoError(t, err)
	require.Len(t, builds, 2)
	assert.Equal(t, "b", builds[1].Name())

	builds, err = Load(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, builds)

	_, err = Load(strings.NewReader(`"nope"`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builds.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleList), 0o644))

	builds, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, builds, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
