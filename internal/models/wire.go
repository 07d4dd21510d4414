package models

// ImageMetadata describes the floor-plan image served by the backend
type ImageMetadata struct {
	Path     string `json:"path"`
	WidthPx  int    `json:"width_px"`
	HeightPx int    `json:"height_px"`
}

// RouterSpec is one router position in physical meters (y from bottom)
type RouterSpec struct {
	SSID string  `json:"ssid" binding:"required"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// RoutersRequest is the body of POST /api/routers
type RoutersRequest struct {
	Routers []RouterSpec `json:"routers" binding:"required,dive"`
}

// AckResponse acknowledges a write
type AckResponse struct {
	OK bool `json:"ok"`
}

// ScanRequest is the body of POST /api/scan
type ScanRequest struct {
	SSIDs []string `json:"ssids" binding:"required"`
}

// Readings maps ssid to signal strength in dBm
type Readings map[string]float64

// SaveRequest is the body of POST /api/save
type SaveRequest struct {
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	RSSI Readings `json:"rssi"`
}

// SaveResponse is returned by POST /api/save. Est is nil when the backend
// could not estimate a position.
type SaveResponse struct {
	OK  bool        `json:"ok"`
	Est *[2]float64 `json:"est"`
}

// StateResponse is returned by GET /api/state
type StateResponse struct {
	Routers   map[string][2]float64 `json:"routers"`
	Completed [][2]int              `json:"completed"`
}
