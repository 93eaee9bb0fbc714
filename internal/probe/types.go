package probe

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// ErrUnreadable wraps every decode failure, so callers can tell a corrupt
// image apart from an I/O error on the file itself.
var ErrUnreadable = errors.New("unreadable image")

// ImageInfo is the result of decoding a single image file.
type ImageInfo struct {
	Path    string
	Format  string // Registered decoder name: "jpeg", "png", "webp", ...
	Width   int    // After EXIF orientation is applied.
	Height  int
	Size    int64
	ModTime time.Time
}

// Resolution returns "WxH", or "unknown" if the dimensions are not set.
func (i *ImageInfo) Resolution() string {
	if i.Width <= 0 || i.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(i.Width) + "x" + strconv.Itoa(i.Height)
}

