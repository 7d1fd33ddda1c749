// Package testutil provides an in-process stand-in for ptpimg.me and for the
// remote servers images are fetched from.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/ptpimg-uploader/internal/models"
)

type Part struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Upload is one request received on upload.php.
type Upload struct {
	APIKey  string
	Referer string
	Parts   []Part
}

type image struct {
	contentType string
	data        []byte
}

type FakeHost struct {
	Server *httptest.Server

	mu       sync.Mutex
	uploads  []Upload
	fetches  []string
	images   map[string]image
	status   int
	body     string
	sequence int
}

func NewFakeHost(t testing.TB) *FakeHost {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeHost{images: make(map[string]image)}

	router := gin.New()
	router.POST("/upload.php", f.handleUpload)
	router.GET("/images/*name", f.handleImage)

	f.Server = httptest.NewServer(router)
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeHost) Endpoint() string {
	return f.Server.URL + "/upload.php"
}

// ServeImage publishes data under /images/<name> and returns its URL.
func (f *FakeHost) ServeImage(name, contentType string, data []byte) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images["/"+name] = image{contentType: contentType, data: data}
	return f.Server.URL + "/images/" + name
}

// ImageURL returns the address of an image that may not exist.
func (f *FakeHost) ImageURL(name string) string {
	return f.Server.URL + "/images/" + name
}

// Respond replaces the upload response for every following request.
func (f *FakeHost) Respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

func (f *FakeHost) Uploads() []Upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Upload(nil), f.uploads...)
}

func (f *FakeHost) Fetches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetches...)
}

func (f *FakeHost) handleImage(c *gin.Context) {
	f.mu.Lock()
	f.fetches = append(f.fetches, c.Param("name"))
	img, ok := f.images[c.Param("name")]
	f.mu.Unlock()

	if !ok {
		c.String(http.StatusNotFound, "not found")
		return
	}
	c.Data(http.StatusOK, img.contentType, img.data)
}

func (f *FakeHost) handleUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	upload := Upload{
		APIKey:  c.PostForm("api_key"),
		Referer: c.GetHeader("Referer"),
	}
	for i := 0; ; i++ {
		field := fmt.Sprintf("file-upload[%d]", i)
		headers := form.File[field]
		if len(headers) == 0 {
			break
		}
		fh := headers[0]
		file, err := fh.Open()
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		upload.Parts = append(upload.Parts, Part{
			Field:       field,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	f.mu.Lock()
	f.uploads = append(f.uploads, upload)
	status, body := f.status, f.body
	images := make([]models.HostedImage, 0, len(upload.Parts))
	for _, part := range upload.Parts {
		f.sequence++
		images = append(images, models.HostedImage{
			Code: fmt.Sprintf("img%d", f.sequence),
			Ext:  extension(part),
		})
	}
	f.mu.Unlock()

	if status != 0 {
		c.String(status, body)
		return
	}
	c.JSON(http.StatusOK, images)
}

func extension(part Part) string {
	if ext := strings.TrimPrefix(path.Ext(part.Filename), "."); ext != "" {
		return ext
	}
	_, subtype, _ := strings.Cut(part.ContentType, "/")
	return subtype
}
