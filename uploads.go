package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var billMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
}

var billExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".pdf":  true,
}

func uploadDir() string {
	dir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if dir == "" {
		dir = "uploads"
	}
	return dir
}

// uploadBillHandler stores a purchase bill image on disk and returns the
// filename to attach to the purchase record. Raster images get a thumbnail
// next to the original for the purchase list view.
func uploadBillHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		file, err := c.FormFile("bill_image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bill_image file is required"})
			return
		}
		if file.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		mimeType := file.Header.Get("Content-Type")
		if !billExtensions[ext] && !billMimeTypes[mimeType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
			return
		}

		dir := uploadDir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logUploadError(logger, err, file.Filename)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
			return
		}

		filename := utils.GenerateUniqueFilename(file.Filename)
		dst := filepath.Join(dir, filename)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			logUploadError(logger, err, file.Filename)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
			return
		}

		response := gin.H{"filename": filename}
		if ext != ".pdf" {
			thumbName, err := createBillThumbnail(dir, filename)
			if err != nil {
				// the original is stored either way
				logUploadError(logger, err, filename)
			} else {
				response["thumbnail"] = thumbName
			}
		}

		logger.WithFields(logrus.Fields{
			"filename": filename,
			"size":     file.Size,
		}).Info("[upload.bill]")

		c.JSON(http.StatusCreated, response)
	}
}

// billImageHandler serves a stored bill image or thumbnail by filename.
func billImageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := filepath.Base(strings.TrimSpace(c.Param("filename")))
		if name == "" || name == "." || strings.HasPrefix(name, ".") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
			return
		}
		path := filepath.Join(uploadDir(), name)
		if _, err := os.Stat(path); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		c.File(path)
	}
}

func createBillThumbnail(dir string, filename string) (string, error) {
	img, err := imaging.Open(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)

	ext := filepath.Ext(filename)
	thumbName := fmt.Sprintf("%s_thumb.jpg", strings.TrimSuffix(filename, ext))
	if err := imaging.Save(thumbnail, filepath.Join(dir, thumbName)); err != nil {
		return "", err
	}
	return thumbName, nil
}

func logUploadError(logger *logrus.Logger, err error, filename string) {
	logger.WithFields(logrus.Fields{
		"error":    err.Error(),
		"filename": filename,
	}).Error("[upload.error]")
}
