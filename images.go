package pubsite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// copyResources copies every file under src into dst, keeping relative
// paths. JPEG and PNG images wider than maxWidth are downscaled when
// maxWidth > 0. A missing src directory is not an error.
func copyResources(src, dst string, maxWidth int) error {
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &OutputError{Path: src, Err: err}
	}
	if !info.IsDir() {
		return &OutputError{Path: src, Err: fmt.Errorf("resources path is not a directory")}
	}

	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &OutputError{Path: p, Err: err}
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return &OutputError{Path: p, Err: err}
		}
		out := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(out, 0o755); err != nil {
				return &OutputError{Path: out, Err: err}
			}
			return nil
		}
		if maxWidth > 0 && isScalable(p) {
			return writeScaledImage(p, out, maxWidth)
		}
		return copyFile(p, out)
	})
}

func isScalable(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &OutputError{Path: src, Err: err}
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return &OutputError{Path: dst, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return &OutputError{Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return &OutputError{Path: dst, Err: err}
	}
	return nil
}

func writeScaledImage(src, dst string, maxWidth int) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return &OutputError{Path: src, Err: err}
	}
	scaled, err := scaleImage(data, maxWidth)
	if err != nil {
		return &OutputError{Path: src, Err: err}
	}
	if err := os.WriteFile(dst, scaled, 0o644); err != nil {
		return &OutputError{Path: dst, Err: err}
	}
	return nil
}

// scaleImage decodes a JPEG or PNG image and, when it is wider than
// maxWidth, resizes it to maxWidth keeping the aspect ratio. The result is
// re-encoded in the source format. Images that fit are returned unchanged.
func scaleImage(data []byte, maxWidth int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxWidth {
		return data, nil
	}

	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(&buf, dst)
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
