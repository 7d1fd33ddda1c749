package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/ptpimg-uploader/internal/config"
	"github.com/phambaophuc/ptpimg-uploader/internal/models"
	"github.com/phambaophuc/ptpimg-uploader/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClipboard struct {
	copied []string
}

func (c *recordingClipboard) Copy(text string) error {
	c.copied = append(c.copied, text)
	return nil
}

func setupEnv(t *testing.T, host *testutil.FakeHost) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("PTPIMG_API_KEY", "")
	t.Setenv("PTPIMG_ENDPOINT", host.Endpoint())
	t.Setenv("PTPIMG_HOST", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, clipboard *recordingClipboard, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(clipboard)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRoot_UploadPrintsAndCopies(t *testing.T) {
	host := testutil.NewFakeHost(t)
	dir := setupEnv(t, host)
	a := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(a, []byte("png"), 0644))
	remote := host.ServeImage("r.jpg", "image/jpeg", []byte("jpg"))

	clip := &recordingClipboard{}
	stdout, _, err := execute(t, clip, "-k", "key", "--nobell", remote, a)
	require.NoError(t, err)

	assert.Equal(t, "https://ptpimg.me/img1.png\n\nhttps://ptpimg.me/img2.jpeg\n", stdout)
	assert.Equal(t, []string{"https://ptpimg.me/img1.png\nhttps://ptpimg.me/img2.jpeg"}, clip.copied)

	uploads := host.Uploads()
	require.Len(t, uploads, 2)
	assert.Equal(t, "key", uploads[0].APIKey)
}

func TestRoot_BBCodeWithoutClipboard(t *testing.T) {
	host := testutil.NewFakeHost(t)
	dir := setupEnv(t, host)
	t.Setenv("PTPIMG_API_KEY", "env-key")
	a := filepath.Join(dir, "a.gif")
	require.NoError(t, os.WriteFile(a, []byte("gif"), 0644))

	clip := &recordingClipboard{}
	stdout, _, err := execute(t, clip, "-b", "-n", a)
	require.NoError(t, err)

	assert.Equal(t, "[img]https://ptpimg.me/img1.gif[/img]\n", stdout)
	assert.Empty(t, clip.copied)
	assert.Equal(t, "env-key", host.Uploads()[0].APIKey)
}

func TestRoot_MissingAPIKey(t *testing.T) {
	host := testutil.NewFakeHost(t)
	dir := setupEnv(t, host)
	a := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(a, []byte("png"), 0644))

	_, stderr, err := execute(t, &recordingClipboard{}, a)
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
	assert.Contains(t, stderr, "please specify an API key")
	assert.Empty(t, host.Uploads())
}

func TestRoot_RequiresAnInput(t *testing.T) {
	host := testutil.NewFakeHost(t)
	setupEnv(t, host)

	_, _, err := execute(t, &recordingClipboard{}, "-k", "key")
	assert.Error(t, err)
}

func TestRoot_ReportsUploadError(t *testing.T) {
	host := testutil.NewFakeHost(t)
	setupEnv(t, host)

	_, _, err := execute(t, &recordingClipboard{}, "-k", "key", "-n", "--nobell", host.ImageURL("missing.png"))
	assert.ErrorIs(t, err, models.ErrFetchFailed)
	assert.Empty(t, host.Uploads())
}

func TestRoot_Thumbnails(t *testing.T) {
	host := testutil.NewFakeHost(t)
	dir := setupEnv(t, host)

	for _, name := range []string{"a.png", "b.png", "c.png"} {
		img := imaging.New(640, 480, color.NRGBA{B: 255, A: 255})
		require.NoError(t, imaging.Save(img, filepath.Join(dir, name)))
	}
	remote := host.ServeImage("r.jpg", "image/jpeg", []byte("jpg"))

	stdout, stderr, err := execute(t, &recordingClipboard{}, "-k", "key", "--thumbnails", "--max-scale", "64",
		filepath.Join(dir, "a.png"), remote, filepath.Join(dir, "b.png"), filepath.Join(dir, "c.png"))
	require.NoError(t, err)

	assert.Contains(t, stderr, "skipping "+remote)
	assert.FileExists(t, filepath.Join(dir, "a_64x48.png"))

	uploads := host.Uploads()
	require.Len(t, uploads, 3)
	require.Len(t, uploads[0].Parts, 3)
	assert.Equal(t, "a_64x48.png", uploads[0].Parts[0].Filename)
	assert.Equal(t, "c_64x48.png", uploads[0].Parts[2].Filename)
	assert.Len(t, uploads[1].Parts, 3)
	assert.Len(t, uploads[2].Parts, 1)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "[url=https://ptpimg.me/img4.png][img]https://ptpimg.me/img1.png[/img][/url] "+
		"[url=https://ptpimg.me/img5.png][img]https://ptpimg.me/img2.png[/img][/url]", lines[len(lines)-2])
	assert.Equal(t, "[url=https://ptpimg.me/img6.png][img]https://ptpimg.me/img3.png[/img][/url]", lines[len(lines)-1])
	assert.Contains(t, stdout, "https://ptpimg.me/img7.jpeg")
}

func TestRoot_ThumbnailSizeSelection(t *testing.T) {
	tests := []struct {
		opts options
		want int
	}{
		{options{}, 320},
		{options{large: true}, 480},
		{options{xlarge: true, large: true}, 640},
		{options{maxScale: 100, xlarge: true}, 100},
	}
	for _, tt := range tests {
		opts := tt.opts
		size, err := (&app{opts: &opts}).thumbnailSize()
		require.NoError(t, err)
		assert.Equal(t, tt.want, size.Target)
	}

	_, err := (&app{opts: &options{maxScale: -5}}).thumbnailSize()
	assert.Error(t, err)
}
