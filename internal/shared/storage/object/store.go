package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"resume-engine/internal/shared/util"
)

// ErrNotExist is returned by Open when no object is stored under the key.
var ErrNotExist = errors.New("object does not exist")

// DocxContentType is the MIME type of rendered exports.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ObjectStore defines the contract for saving and retrieving rendered exports.
type ObjectStore interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// ExportKey returns exports/<consultant>/<job>/v<version>.docx. The consultant segment
// is hashed so raw identifiers never appear in object paths.
func ExportKey(consultantID, jobID string, version int) (string, error) {
	job, err := util.SanitizeFileName(jobID)
	if err != nil {
		return "", fmt.Errorf("job id: %w", err)
	}
	return path.Join("exports", util.HashKey(consultantID), job, fmt.Sprintf("v%d.docx", version)), nil
}
