package util

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// FileStore saves prescription uploads under a single directory and serves
// them back by stored name. Stored names are "<appointmentID>_<original>";
// re-uploading the same file name for the same appointment overwrites the
// previous copy.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir, creating the directory if
// it does not exist yet.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &FileStore{Dir: dir}, nil
}

// StoredName derives the on-disk name for an upload. Only the base of the
// original name is kept so a crafted filename cannot escape the directory.
func (fs *FileStore) StoredName(appointmentID uint, original string) string {
	return fmt.Sprintf("%d_%s", appointmentID, filepath.Base(original))
}

// Path returns the absolute path for a stored name, again reduced to its
// base to keep lookups inside the upload directory.
func (fs *FileStore) Path(storedName string) string {
	return filepath.Join(fs.Dir, filepath.Base(storedName))
}

// Save writes the multipart file under the derived stored name and returns
// that name.
func (fs *FileStore) Save(c *gin.Context, file *multipart.FileHeader, appointmentID uint) (string, error) {
	storedName := fs.StoredName(appointmentID, file.Filename)
	if err := c.SaveUploadedFile(file, fs.Path(storedName)); err != nil {
		return "", fmt.Errorf("failed to save uploaded file: %w", err)
	}
	return storedName, nil
}

// Exists reports whether a stored name is present on disk.
func (fs *FileStore) Exists(storedName string) bool {
	info, err := os.Stat(fs.Path(storedName))
	return err == nil && !info.IsDir()
}
