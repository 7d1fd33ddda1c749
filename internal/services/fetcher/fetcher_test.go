package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/ptpimg-uploader/internal/models"
	"github.com/phambaophuc/ptpimg-uploader/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOrigin(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/cat.png", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/png; charset=binary", []byte("png-bytes"))
	})
	router.GET("/page.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html", []byte("<html></html>"))
	})
	router.GET("/untyped", func(c *gin.Context) {
		c.Writer.Header()["Content-Type"] = nil
		c.Status(http.StatusOK)
		_, _ = c.Writer.Write([]byte{})
	})
	router.GET("/slow.png", func(c *gin.Context) {
		time.Sleep(200 * time.Millisecond)
		c.Data(http.StatusOK, "image/png", []byte("late"))
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newFetcher() *Fetcher {
	return NewFetcher(&http.Client{}, zap.NewNop())
}

func TestValidateMediaType(t *testing.T) {
	assert.NoError(t, ValidateMediaType("a.png", "image/png"))
	assert.ErrorIs(t, ValidateMediaType("a.txt", "text/plain"), models.ErrUnknownMediaType)
	assert.ErrorIs(t, ValidateMediaType("a", ""), models.ErrUnknownMediaType)
}

func TestFetchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0644))

	item, err := newFetcher().FetchFile(path)
	require.NoError(t, err)
	defer item.Payload.Close()

	assert.Equal(t, "shot.jpg", item.Name)
	assert.Equal(t, "image/jpeg", item.MediaType)

	data, err := io.ReadAll(item.Payload)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestFetchFile_NonLatinNameUsesPlaceholder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "截图.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0644))

	item, err := newFetcher().FetchFile(path)
	require.NoError(t, err)
	defer item.Payload.Close()

	assert.Equal(t, utils.PlaceholderFilename, item.Name)
	assert.Equal(t, "image/png", item.MediaType)
}

func TestFetchFile_RejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	_, err := newFetcher().FetchFile(path)
	require.Error(t, err)

	var mediaErr *models.UnknownMediaTypeError
	require.ErrorAs(t, err, &mediaErr)
	assert.Equal(t, "text/plain", mediaErr.MediaType)
}

func TestFetchFile_UnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	_, err := newFetcher().FetchFile(path)
	assert.ErrorIs(t, err, models.ErrUnknownMediaType)
}

func TestFetchURL(t *testing.T) {
	srv := newOrigin(t)

	item, err := newFetcher().FetchURL(context.Background(), srv.URL+"/cat.png", 3, 0)
	require.NoError(t, err)
	defer item.Payload.Close()

	assert.Equal(t, "file-3", item.Name)
	assert.Equal(t, "image/png", item.MediaType)

	data, err := io.ReadAll(item.Payload)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestFetchURL_NotFound(t *testing.T) {
	srv := newOrigin(t)
	url := srv.URL + "/missing.png"

	_, err := newFetcher().FetchURL(context.Background(), url, 0, 0)
	require.Error(t, err)

	var fetchErr *models.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, url, fetchErr.URL)
	assert.False(t, fetchErr.Timeout)
}

func TestFetchURL_RejectsNonImage(t *testing.T) {
	srv := newOrigin(t)

	_, err := newFetcher().FetchURL(context.Background(), srv.URL+"/page.html", 0, 0)
	assert.ErrorIs(t, err, models.ErrUnknownMediaType)
}

func TestFetchURL_MissingContentType(t *testing.T) {
	srv := newOrigin(t)

	_, err := newFetcher().FetchURL(context.Background(), srv.URL+"/untyped", 0, 0)
	require.Error(t, err)

	var mediaErr *models.UnknownMediaTypeError
	require.ErrorAs(t, err, &mediaErr)
	assert.Empty(t, mediaErr.MediaType)
}

func TestFetchURL_Timeout(t *testing.T) {
	srv := newOrigin(t)

	_, err := newFetcher().FetchURL(context.Background(), srv.URL+"/slow.png", 0, 20*time.Millisecond)
	require.Error(t, err)

	var fetchErr *models.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, fetchErr.Timeout)
	assert.Zero(t, fetchErr.StatusCode)
}

func TestFetchURL_TransportFailure(t *testing.T) {
	srv := newOrigin(t)
	url := srv.URL + "/cat.png"
	srv.Close()

	_, err := newFetcher().FetchURL(context.Background(), url, 0, 0)
	assert.ErrorIs(t, err, models.ErrFetchFailed)
}
