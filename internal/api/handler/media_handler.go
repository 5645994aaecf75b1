package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/theline-social/theline/pkg/response"
)

const maxUploadBytes = 64 << 20

var allowedUploadTypes = map[string]string{
	"image/jpeg": "images",
	"image/png":  "images",
	"image/webp": "images",
	"image/gif":  "images",
	"video/mp4":  "videos",
	"video/webm": "videos",
}

// Upload receives one multipart file and returns the URL the storage backend
// handed out. Clients attach the URL to content they create afterwards.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file field")
		return
	}
	if file.Size > maxUploadBytes {
		response.BadRequest(c, "file too large")
		return
	}
	contentType := file.Header.Get("Content-Type")
	folder, ok := allowedUploadTypes[contentType]
	if !ok {
		response.BadRequest(c, "unsupported file type")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	url, err := h.Storage.Save(c.Request.Context(), folder, file.Filename, contentType, src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{
		"url":  url,
		"type": strings.SplitN(contentType, "/", 2)[0],
	})
}
