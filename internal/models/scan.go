package models

// DetectedItem is one candidate item produced by scan processing, either
// OCR-extracted or sampled from the catalog.
type DetectedItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Confidence    float64 `json:"confidence"`
	DealAvailable bool    `json:"dealAvailable"`
	ImageURL      *string `json:"imageUrl"`
}

// ScanResponse is returned by POST /scan/process and echoed by the confirm
// endpoint.
type ScanResponse struct {
	ScanID        string          `json:"scanId"`
	DetectedItems []ConfirmedItem `json:"detectedItems"`
}

// ProcessScanResponse is the initial detection payload.
type ProcessScanResponse struct {
	ScanID        string         `json:"scanId"`
	DetectedItems []DetectedItem `json:"detectedItems"`
}

// ConfirmedItem is one user-confirmed shopping item stored under a scan id.
type ConfirmedItem struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}
