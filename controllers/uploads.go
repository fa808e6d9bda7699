package controllers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"garagehub-api/services"
)

// saveUploadedPhotos pushes multipart image files to the storage collaborator
// and returns their durable refs. Only image uploads are accepted.
func saveUploadedPhotos(storage services.Storage, userID string, files []*multipart.FileHeader) ([]string, error) {
	refs := make([]string, 0, len(files))
	for i, header := range files {
		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return nil, fmt.Errorf("%w: not an image, please upload only images", services.ErrInvalidOperation)
		}

		ext := filepath.Ext(header.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		ref := fmt.Sprintf("photo-%s-%d-%d%s", userID, time.Now().UnixNano(), i+1, ext)

		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}
		err = storage.Save(ref, file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to store upload: %w", err)
		}

		refs = append(refs, ref)
	}
	return refs, nil
}
