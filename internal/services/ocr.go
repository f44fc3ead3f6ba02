package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// OCRService extracts candidate shopping items from shelf and list photos.
// Optional: when Tesseract is unavailable the scan flow falls back to
// catalog sampling instead.
type OCRService struct {
	client *gosseract.Client
}

// NewOCRService creates an OCR client for the given Tesseract language
// spec, e.g. "aze+eng".
func NewOCRService(languages string) (*OCRService, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage(strings.Split(languages, "+")...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Shelf labels and handwritten lists are sparse, not a uniform block.
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	return &OCRService{client: client}, nil
}

// ExtractItems runs OCR over an image and returns the distinct non-empty
// lines as candidate item names.
func (s *OCRService) ExtractItems(imageBytes []byte) ([]string, error) {
	tmpFile, err := os.CreateTemp("", "scan-*.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(imageBytes); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmpFile.Close()

	if err := s.client.SetImage(tmpFile.Name()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	text, err := s.client.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	return splitItemLines(text), nil
}

// splitItemLines keeps lines that look like item names: at least two
// letters, duplicates removed case-insensitively.
func splitItemLines(text string) []string {
	items := []string{}
	seen := map[string]bool{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		letters := 0
		for _, r := range line {
			if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r > 127 {
				letters++
			}
		}
		if letters < 2 {
			continue
		}
		key := strings.ToLower(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, line)
	}
	return items
}

// Close releases the Tesseract client.
func (s *OCRService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
