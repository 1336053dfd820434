// Package evidence turns a transient photo file into the base64 payload
// embedded in an attendance submission.
package evidence

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// ErrUnreadable marks a capture file that is missing or unreadable at encode
// time, e.g. discarded by the OS before submission.
var ErrUnreadable = errors.New("evidence unreadable")

// FileEncoder reads capture files from the local filesystem.
type FileEncoder struct{}

// Encode strips any file:// scheme from rawPath, reads the file, and returns
// a data URL ("data:image/jpeg;base64,..."). All-or-nothing: a cancelled
// context or a read failure yields no partial output. Identical file content
// always encodes to the identical string.
func (FileEncoder) Encode(ctx context.Context, rawPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := strings.TrimPrefix(rawPath, "file://")
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrUnreadable)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return "data:" + contentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func contentType(data []byte) string {
	ct := http.DetectContentType(data)
	// DetectContentType appends charset info for text; the payload marker
	// keeps just the media type.
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return ct
}
