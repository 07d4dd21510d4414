package models

import "time"

// Fingerprint is a stored signal-strength sample at a physical position
type Fingerprint struct {
	ID        string    `json:"id" db:"id"`     // uuid
	X         float64   `json:"x" db:"x"`       // meters from left
	Y         float64   `json:"y" db:"y"`       // meters from bottom
	Readings  Readings  `json:"readings"`       // stored as readings_json
	SSIDOrder []string  `json:"ssid_order"`     // column order of the original request
	EstX      *float64  `json:"est_x,omitempty" db:"est_x"`
	EstY      *float64  `json:"est_y,omitempty" db:"est_y"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // unix millis in storage
}

// Router is a stored router position
type Router struct {
	SSID     string  `json:"ssid" db:"ssid"`
	X        float64 `json:"x" db:"x"`
	Y        float64 `json:"y" db:"y"`
	Position int     `json:"position" db:"position"` // declaration order
}

// Square is a completed 1m grid square, indexed (row, col) from the bottom-left
type Square struct {
	Row int `json:"row" db:"grid_row"`
	Col int `json:"col" db:"grid_col"`
}
