package probe

import (
	"context"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp" // Register the WebP decoder.
)

// Probe fully decodes the image at path. Decode failures are wrapped with
// [ErrUnreadable]; failures to open or stat the file are returned as-is.
func Probe(ctx context.Context, path string) (*ImageInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %q", path)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot stat %q", path)
	}

	// The header pass names the format; the full decode catches truncated
	// or corrupt pixel data that DecodeConfig alone would accept.
	_, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, errors.Wrapf(ErrUnreadable, "%s: %v", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "cannot rewind %q", path)
	}
	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(ErrUnreadable, "%s: %v", path, err)
	}

	b := img.Bounds()
	return &ImageInfo{
		Path:    path,
		Format:  format,
		Width:   b.Dx(),
		Height:  b.Dy(),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}, nil
}
