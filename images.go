package blogicum

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/eringen/blogicum/views"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
)

var (
	errImageTooLarge = errors.New("image is too large (max 10MB)")
	errBadImage      = errors.New("file is not a readable image")
)

// savePostImage reads the optional "image" form file, re-encodes it as a
// bounded-width JPEG and writes it into the media dir under a random name.
// It returns the stored filename, or "" when the field was left empty.
func (a *App) savePostImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil || file.Size == 0 {
		// no file field, or not a multipart form; the image is optional
		return "", nil
	}
	if file.Size > maxUploadSize {
		return "", errImageTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := processImage(src)
	if err != nil {
		return "", errBadImage
	}

	// Uploads are per-user media, not curated slugs; a random name avoids
	// collisions without a lookup.
	filename := uuid.NewString() + ".jpg"
	if err := os.MkdirAll(a.Config.MediaDir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(a.Config.MediaDir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return filename, nil
}

// processImage decodes an image, resizes it to at most maxImageWidth wide,
// and encodes it as JPEG.
func processImage(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// imageFormError puts user-correctable upload failures on the form's image
// field. Anything else is an infrastructure failure and propagates to the
// error handler.
func imageFormError(form *views.PostForm, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errImageTooLarge) || errors.Is(err, errBadImage) {
		form.Errors["image"] = err.Error()
		return nil
	}
	return err
}

// removeMedia deletes a stored image, ignoring files already gone.
func (a *App) removeMedia(filename string) {
	if filename == "" {
		return
	}
	_ = os.Remove(filepath.Join(a.Config.MediaDir, filepath.Base(filename)))
}
