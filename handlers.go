package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"filenode/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	maxUploadFiles = 10
	maxFileBytes   = 25 << 20 // per file
)

// Server carries the request-scoped collaborators: the database handle and
// the blob store. There is no other shared state between requests.
type Server struct {
	db    *gorm.DB
	store BlobStore
}

func NewServer(db *gorm.DB, store BlobStore) *Server {
	return &Server{db: db, store: store}
}

func (s *Server) setupRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Backend is running!")
	})
	r.POST("/uploads/files", s.uploadFilesHandler)
	r.GET("/files", s.listFilesHandler)
	r.PUT("/files/:id", s.updateFileHandler)
	r.DELETE("/files/:id", s.deleteFileHandler)
	r.GET("/files/:id/download", s.downloadFileHandler)
}

// uploadFilesHandler accepts a multipart batch (field "datas", up to 10
// files) plus a "descriptions" JSON payload and persists one metadata row
// per file. The response is all-or-nothing even though persistence is not:
// see persistBatch.
func (s *Server) uploadFilesHandler(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	files := form.File["datas"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}
	if len(files) > maxUploadFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many files (max 10)"})
		return
	}
	for _, fh := range files {
		if fh.Size > maxFileBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 25MB): " + fh.Filename})
			return
		}
	}
	descriptions, err := normalizeDescriptions(c.PostForm("descriptions"), len(files))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inserted, err := s.persistBatch(c.Request.Context(), files, descriptions)
	if err != nil {
		log.Printf("batch upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error saving files"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "files uploaded successfully", "files": inserted})
}

// listFilesHandler returns every record ordered by ascending id.
func (s *Server) listFilesHandler(c *gin.Context) {
	files := []models.File{}
	if err := s.db.Order("id asc").Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching files"})
		return
	}
	c.JSON(http.StatusOK, files)
}

// updateFileHandler overwrites filename and description of one record. The
// location and media type are immutable after creation.
func (s *Server) updateFileHandler(c *gin.Context) {
	id, ok := fileIDParam(c)
	if !ok {
		return
	}
	var req struct {
		FileName    string `json:"filename" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var rec models.File
	if err := s.db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating file"})
		}
		return
	}
	rec.FileName = req.FileName
	rec.Description = req.Description
	updates := map[string]any{"filename": req.FileName, "description": req.Description}
	if err := s.db.Model(&rec).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating file"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "file updated successfully", "file": rec})
}

// deleteFileHandler removes one record and releases its bytes. Byte release
// is best-effort and never blocks row removal, but any failure in either
// step is surfaced as a 500 — a delete is only reported successful when both
// steps succeeded.
func (s *Server) deleteFileHandler(c *gin.Context) {
	id, ok := fileIDParam(c)
	if !ok {
		return
	}
	var rec models.File
	if err := s.db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting file"})
		}
		return
	}
	releaseErr := s.store.Remove(c.Request.Context(), rec.FilePath)
	if releaseErr != nil {
		log.Printf("byte release failed for %s: %v", rec.FilePath, releaseErr)
	}
	if err := s.db.Delete(&models.File{}, rec.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting file"})
		return
	}
	if releaseErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "file removed from index but byte release failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "file deleted successfully"})
}

// downloadFileHandler streams local bytes under the record's original
// filename, or redirects to the remote location. A present record whose
// bytes are gone answers 404 with a reason distinct from an unknown id.
func (s *Server) downloadFileHandler(c *gin.Context) {
	id, ok := fileIDParam(c)
	if !ok {
		return
	}
	var rec models.File
	if err := s.db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error downloading file"})
		}
		return
	}
	blob, err := s.store.Resolve(c.Request.Context(), rec.FilePath)
	if err != nil {
		if errors.Is(err, ErrBlobMissing) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file missing on server"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error downloading file"})
		}
		return
	}
	if blob.RedirectURL != "" {
		c.Redirect(http.StatusFound, blob.RedirectURL)
		return
	}
	c.FileAttachment(blob.Path, rec.FileName)
}

// fileIDParam parses :id; anything non-numeric cannot name a record, so it
// gets the same not-found answer as an unknown id.
func fileIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return 0, false
	}
	return uint(id), true
}
