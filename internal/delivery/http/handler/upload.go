package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// formFile opens an optional multipart file field. The file is nil when the
// request is not multipart or the field is absent.
func formFile(c *gin.Context, field string) (string, multipart.File, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return "", nil, nil
	}

	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, nil
		}
		return "", nil, err
	}

	f, err := header.Open()
	if err != nil {
		return "", nil, err
	}
	return header.Filename, f, nil
}

// serveFile streams a stored file as a download and closes it.
func serveFile(c *gin.Context, f *os.File, contentType, name string) {
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.DataFromReader(http.StatusOK, info.Size(), contentType, f, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", name),
	})
}
