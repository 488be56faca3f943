package services

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// EncodeImageFile reads an image from disk and returns two independent
// representations: a base64 data URL, which is what gets uploaded, and a
// local file URL for previewing, which is never sent.
func EncodeImageFile(path string) (dataURL, previewURL string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read image: %w", err)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", "", fmt.Errorf("%s is not an image (%s)", filepath.Base(path), mime.String())
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}

	dataURL = "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(data)
	previewURL = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	return dataURL, previewURL, nil
}
