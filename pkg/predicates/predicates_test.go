package predicates_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/predicates"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, fsys afero.Fs, path string) types.PathRecord {
	t.Helper()
	rec, err := filesystem.Record(fsys, path)
	require.NoError(t, err)
	return rec
}

func TestIsOlderThan(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, predicates.IsOlderThan(now.Add(-10*types.Day), types.Week, now))
	assert.True(t, predicates.IsOlderThan(now.Add(-types.Week), types.Week, now), "boundary is inclusive")
	assert.False(t, predicates.IsOlderThan(now.Add(-6*types.Day), types.Week, now))
	assert.False(t, predicates.IsOlderThan(time.Time{}, types.Week, now))
}

func TestEvaluator_AgeSince(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.tmp.2024")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	now := time.Now()
	accessed := now.Add(-10 * types.Day)
	require.NoError(t, os.Chtimes(path, accessed, now.Add(-time.Hour)))

	fsys := afero.NewOsFs()
	e := predicates.NewEvaluator(fsys)
	rec := record(t, fsys, path)

	age, err := e.AgeSince(rec, types.Accessed, now)
	require.NoError(t, err)
	assert.InDelta(t, float64(10*types.Day), float64(age), float64(time.Second))

	assert.True(t, e.OlderThan(rec, types.Accessed, types.Week, now))
	assert.False(t, e.OlderThan(rec, types.Modified, types.Week, now))

	t.Run("vanished_path", func(t *testing.T) {
		require.NoError(t, os.Remove(path))

		_, err := e.AgeSince(rec, types.Accessed, now)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
		assert.False(t, e.OlderThan(rec, types.Accessed, types.Week, now))
	})
}

func TestEvaluator_AgeSince_SeesFreshTimestamps(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/f.log", []byte("x"), 0644))
	rec := record(t, fsys, "/f.log")

	now := time.Now()
	old := now.Add(-30 * types.Day)
	require.NoError(t, fsys.Chtimes("/f.log", old, old))

	e := predicates.NewEvaluator(fsys)
	// rec was captured before the change; the evaluator must re-read.
	assert.True(t, e.OlderThan(rec, types.Modified, types.Week, now))
}

func TestContentTypeByExtension(t *testing.T) {
	tests := map[string]types.ContentType{
		"video.mp4":       types.ContentVideo,
		"Clip.MOV":        types.ContentVideo,
		"song.flac":       types.ContentAudio,
		"photo.JPeg":      types.ContentImage,
		"notes.md":        types.ContentText,
		"backup.tar.gz":   types.ContentArchive,
		"installer.dmg":   types.ContentArchive,
		"binary":          types.ContentUnknown,
		"report.tmp.2024": types.ContentUnknown,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, predicates.ContentTypeByExtension(name))
		})
	}
}

func TestEvaluator_ContentType(t *testing.T) {
	fsys := afero.NewMemMapFs()
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	require.NoError(t, afero.WriteFile(fsys, "/d/screenshot", png, 0644))
	require.NoError(t, afero.WriteFile(fsys, "/d/readme", []byte("plain words\nmore words\n"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/d/bundle", []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/d/video.mp4", []byte("not really a video"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/d/blob", []byte{0x13, 0x37, 0x00, 0x42, 0x99, 0x00, 0x7f}, 0644))
	require.NoError(t, fsys.MkdirAll("/d/folder.mp4", 0755))

	e := predicates.NewEvaluator(fsys)

	assert.Equal(t, types.ContentImage, e.ContentType(record(t, fsys, "/d/screenshot")))
	assert.Equal(t, types.ContentText, e.ContentType(record(t, fsys, "/d/readme")))
	assert.Equal(t, types.ContentArchive, e.ContentType(record(t, fsys, "/d/bundle")))
	assert.Equal(t, types.ContentVideo, e.ContentType(record(t, fsys, "/d/video.mp4")), "extension wins over content")
	assert.Equal(t, types.ContentUnknown, e.ContentType(record(t, fsys, "/d/blob")))
	assert.Equal(t, types.ContentUnknown, e.ContentType(record(t, fsys, "/d/folder.mp4")))
	assert.Equal(t, types.ContentUnknown, e.ContentType(types.PathRecord{Path: "/d/gone", Kind: types.KindFile}))

	noSniff := predicates.NewEvaluator(fsys, predicates.WithSniffing(false))
	assert.Equal(t, types.ContentUnknown, noSniff.ContentType(record(t, fsys, "/d/screenshot")))
}

func TestEvaluator_Provenance(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/dl/a.pdf", []byte("x"), 0644))
	rec := record(t, fsys, "/dl/a.pdf")

	e := predicates.NewEvaluator(fsys, predicates.WithSourceURLReader(func(path string) []string {
		if path == "/dl/a.pdf" {
			return []string{"https://Mail.Example.com/attachment/123"}
		}
		return nil
	}))

	assert.Equal(t, []string{"https://Mail.Example.com/attachment/123"}, e.SourceURLs(rec))
	assert.True(t, e.DownloadedFrom(rec, "mail.example.com"))
	assert.False(t, e.DownloadedFrom(rec, "github.com", ""))

	none := predicates.NewEvaluator(fsys, predicates.WithSourceURLReader(nil))
	assert.Empty(t, none.SourceURLs(rec))
}

func TestEvaluator_ShapePredicates(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/x/empty", 0755))
	require.NoError(t, afero.WriteFile(fsys, "/x/big.iso", make([]byte, 2048), 0644))

	e := predicates.NewEvaluator(fsys)
	empty := record(t, fsys, "/x/empty")
	big := record(t, fsys, "/x/big.iso")

	assert.True(t, e.IsEmptyDir(empty))
	assert.False(t, e.IsEmptyDir(big))
	assert.True(t, predicates.LargerThan(big, 1024))
	assert.False(t, predicates.LargerThan(empty, 0))
	assert.True(t, predicates.SmallerThan(big, 4096))
}
