package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jengzang/fingerprint-calibrator/internal/models"
)

// FingerprintRepository handles database operations for fingerprints
type FingerprintRepository struct {
	db *sql.DB
}

// NewFingerprintRepository creates a new fingerprint repository
func NewFingerprintRepository(db *sql.DB) *FingerprintRepository {
	return &FingerprintRepository{db: db}
}

// Create stores one fingerprint
func (r *FingerprintRepository) Create(fp *models.Fingerprint) error {
	readings, err := json.Marshal(fp.Readings)
	if err != nil {
		return fmt.Errorf("failed to encode readings: %w", err)
	}
	order, err := json.Marshal(fp.SSIDOrder)
	if err != nil {
		return fmt.Errorf("failed to encode ssid order: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO fingerprints (id, x, y, readings_json, ssid_order_json, est_x, est_y, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fp.ID, fp.X, fp.Y, string(readings), string(order), fp.EstX, fp.EstY, fp.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert fingerprint: %w", err)
	}
	return nil
}

// List returns all fingerprints oldest first
func (r *FingerprintRepository) List() ([]models.Fingerprint, error) {
	rows, err := r.db.Query(`SELECT id, x, y, readings_json, ssid_order_json, est_x, est_y, created_at
		FROM fingerprints ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fingerprints: %w", err)
	}
	defer rows.Close()

	var out []models.Fingerprint
	for rows.Next() {
		var (
			fp              models.Fingerprint
			readings, order string
			estX, estY      sql.NullFloat64
			createdAtMillis int64
		)
		if err := rows.Scan(&fp.ID, &fp.X, &fp.Y, &readings, &order, &estX, &estY, &createdAtMillis); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint: %w", err)
		}
		if err := json.Unmarshal([]byte(readings), &fp.Readings); err != nil {
			return nil, fmt.Errorf("failed to decode readings of %s: %w", fp.ID, err)
		}
		if err := json.Unmarshal([]byte(order), &fp.SSIDOrder); err != nil {
			return nil, fmt.Errorf("failed to decode ssid order of %s: %w", fp.ID, err)
		}
		if estX.Valid && estY.Valid {
			fp.EstX, fp.EstY = &estX.Float64, &estY.Float64
		}
		fp.CreatedAt = time.UnixMilli(createdAtMillis).UTC()
		out = append(out, fp)
	}
	return out, rows.Err()
}

// Count returns the number of stored fingerprints
func (r *FingerprintRepository) Count() (int64, error) {
	var n int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM fingerprints").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count fingerprints: %w", err)
	}
	return n, nil
}
