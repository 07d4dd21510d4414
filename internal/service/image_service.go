package service

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/jengzang/fingerprint-calibrator/internal/models"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrImageNotFound is returned when the floor plan file does not exist
var ErrImageNotFound = errors.New("floor plan image not found")

// ImageService reads the floor plan header
type ImageService struct {
	path string
}

// NewImageService creates a new image service for the file at path
func NewImageService(path string) *ImageService {
	return &ImageService{path: path}
}

// Metadata decodes the image dimensions without reading the pixel data
func (s *ImageService) Metadata() (*models.ImageMetadata, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open floor plan: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode floor plan %s: %w", s.path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("floor plan %s has invalid size %dx%d", s.path, cfg.Width, cfg.Height)
	}
	return &models.ImageMetadata{
		Path:     "/static/" + filepath.Base(s.path),
		WidthPx:  cfg.Width,
		HeightPx: cfg.Height,
	}, nil
}
