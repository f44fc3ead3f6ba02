package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/bakudeals/deal-scout/internal/models"
)

const sampledScanItems = 3

// ProcessScan handles POST /scan/process. The uploaded image goes through
// OCR when available; otherwise detection degrades to sampling discounted
// catalog products. Either way the client gets candidates to confirm.
func (h *Handler) ProcessScan(c *fiber.Ctx) error {
	scanID := "scan_" + uuid.New().String()

	imageBytes := h.readScanImage(c, scanID)

	var detected []models.DetectedItem
	if h.ocr != nil && len(imageBytes) > 0 {
		if names, err := h.ocr.ExtractItems(imageBytes); err == nil && len(names) > 0 {
			detected = detectedFromNames(names)
		} else if err != nil {
			log.Printf("[Scan] OCR failed, falling back to catalog sampling: %v", err)
		}
	}

	if detected == nil {
		samples, err := h.deals.RandomDeals(c.Context(), sampledScanItems)
		if err != nil {
			return upstream("Scan", err, "Failed to process scan")
		}
		detected = detectedFromProducts(samples)
	}

	return c.JSON(models.ProcessScanResponse{
		ScanID:        scanID,
		DetectedItems: detected,
	})
}

// ConfirmScan handles POST /scan/:scanId/confirm
func (h *Handler) ConfirmScan(c *fiber.Ctx) error {
	// The param string aliases the request buffer, which Fiber recycles
	// after the handler returns; it must be copied before the store keeps it.
	scanID := utils.CopyString(c.Params("scanId"))

	var items []models.ConfirmedItem
	if err := c.BodyParser(&items); err != nil {
		return badRequest("Request body must be an item array")
	}

	h.scans.Put(scanID, items)

	if items == nil {
		items = []models.ConfirmedItem{}
	}
	return c.JSON(models.ScanResponse{
		ScanID:        scanID,
		DetectedItems: items,
	})
}

// GetScanImage handles GET /scan/:scanId/image. Only available when
// archival storage is configured.
func (h *Handler) GetScanImage(c *fiber.Ctx) error {
	if h.storage == nil {
		return notFound("Scan image not available")
	}

	url, err := h.storage.ScanImageURL(c.Context(), c.Params("scanId"), 15*time.Minute)
	if err != nil {
		return upstream("Scan", err, "Failed to load scan image")
	}
	return c.JSON(fiber.Map{"url": url})
}

// readScanImage pulls the multipart upload if one was sent and archives it
// when storage is configured. A missing file is not an error.
func (h *Handler) readScanImage(c *fiber.Ctx, scanID string) []byte {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("[Scan] Failed to open upload: %v", err)
		return nil
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		log.Printf("[Scan] Failed to read upload: %v", err)
		return nil
	}

	if h.storage != nil {
		contentType := fileHeader.Header.Get("Content-Type")
		err := h.storage.ArchiveScanImage(c.Context(), scanID, bytes.NewReader(imageBytes), int64(len(imageBytes)), contentType)
		if err != nil {
			// Archival is best-effort; detection proceeds regardless.
			log.Printf("[Scan] %v", err)
		}
	}
	return imageBytes
}

func detectedFromNames(names []string) []models.DetectedItem {
	detected := make([]models.DetectedItem, 0, len(names))
	for i, name := range names {
		detected = append(detected, models.DetectedItem{
			ID:         fmt.Sprintf("detected_%d", i),
			Name:       name,
			Confidence: syntheticConfidence(),
		})
	}
	return detected
}

func detectedFromProducts(products []models.Product) []models.DetectedItem {
	detected := make([]models.DetectedItem, 0, len(products))
	for _, p := range products {
		var imageURL *string
		if p.ImageURL != "" {
			url := p.ImageURL
			imageURL = &url
		}
		detected = append(detected, models.DetectedItem{
			ID:            p.ID,
			Name:          p.Name,
			Confidence:    syntheticConfidence(),
			DealAvailable: p.DiscountPercent > 0,
			ImageURL:      imageURL,
		})
	}
	return detected
}

// syntheticConfidence fabricates a plausible detection score in [0.80, 0.95).
func syntheticConfidence() float64 {
	return 0.80 + rand.Float64()*0.15
}
