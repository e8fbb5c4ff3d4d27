package utils

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrCancelled is returned when the user dismisses a dialog.
var ErrCancelled = errors.New("cancelled")

// WithExt returns filename with ext appended, unless it already
// ends with ext.
func WithExt(filename, ext string) string {
	if strings.EqualFold(filepath.Ext(filename), ext) {
		return filename
	}
	return filename + ext
}

// ScreenshotName returns the default file name for a screenshot
// taken at t.
func ScreenshotName(t time.Time) string {
	return fmt.Sprintf("screenshot-%d-%02d-%02d-%02d-%02d-%02d.png", t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
}
