package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Fepozopo/filtr/pkg/fxerr"
	"github.com/Fepozopo/filtr/pkg/raster"
)

// PromptLine writes prompt to out and reads a full line from in.
// The returned string is trimmed of surrounding whitespace, including the newline.
func PromptLine(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// LoadImage decodes the file at path into a buffer. PNG, JPEG and GIF come
// from the standard library; BMP, TIFF and WebP from golang.org/x/image.
// The returned format is the decoder's name, e.g. "png" or "webp".
func LoadImage(path string) (*raster.Buffer, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return raster.FromImage(img), format, nil
}

// SaveImage encodes buf to path using the format implied by the extension:
// .png, .jpg/.jpeg, .gif, .bmp or .tif/.tiff. quality applies to JPEG only.
func SaveImage(path string, buf *raster.Buffer, quality int) error {
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", fxerr.ErrInvalidArgument)
	}
	ext := strings.ToLower(filepath.Ext(path))
	var enc func(io.Writer, image.Image) error
	switch ext {
	case ".png":
		enc = png.Encode
	case ".jpg", ".jpeg":
		enc = func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: quality})
		}
	case ".gif":
		enc = func(w io.Writer, m image.Image) error { return gif.Encode(w, m, nil) }
	case ".bmp":
		enc = bmp.Encode
	case ".tif", ".tiff":
		enc = func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return fmt.Errorf("%w: cannot save %q files", fxerr.ErrUnsupported, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := enc(f, buf.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// GetImageInfo returns a one-line summary of buf.
func GetImageInfo(buf *raster.Buffer, format string) string {
	if format == "" {
		format = "unknown"
	}
	return fmt.Sprintf("Format: %s, Width: %d, Height: %d", strings.ToUpper(format), buf.Width, buf.Height)
}

// FitLayer resamples top to w x h with Catmull-Rom so it covers a bottom
// layer of that size. top is not modified.
func FitLayer(top *raster.Buffer, w, h int) (*raster.Buffer, error) {
	if top == nil {
		return nil, fmt.Errorf("%w: nil layer", fxerr.ErrInvalidArgument)
	}
	if top.Width == w && top.Height == h {
		return top.Clone(), nil
	}
	out, err := raster.New(w, h)
	if err != nil {
		return nil, err
	}
	if w == 0 || h == 0 || top.Width == 0 || top.Height == 0 {
		return out, nil
	}
	dst := out.Image()
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), top.Image(), image.Rect(0, 0, top.Width, top.Height), xdraw.Src, nil)
	return raster.FromImage(dst), nil
}
