package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperrors"
)

// maxUploadBytes caps the in-memory portion of multipart parsing.
const maxUploadBytes = 32 << 20

// saveFormFile uploads the named multipart file part and returns its public
// URL. A missing part is not an error; the returned URL is empty.
func saveFormFile(ctx context.Context, media MediaUploader, r *http.Request, field, prefix string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.Validation(fmt.Sprintf("unreadable %s upload", field))
	}
	defer file.Close()

	if media == nil {
		return "", apperrors.Server("media storage unavailable")
	}

	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), path.Ext(header.Filename))
	url, err := media.Save(ctx, key, header.Header.Get("Content-Type"), file)
	if err != nil {
		return "", fmt.Errorf("store %s upload: %w", field, err)
	}
	return url, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mediaType, "multipart/")
}
