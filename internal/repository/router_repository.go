package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/fingerprint-calibrator/internal/database"
	"github.com/jengzang/fingerprint-calibrator/internal/models"
)

// RouterRepository handles database operations for router positions
type RouterRepository struct {
	db *sql.DB
}

// NewRouterRepository creates a new router repository
func NewRouterRepository(db *sql.DB) *RouterRepository {
	return &RouterRepository{db: db}
}

// ReplaceAll replaces every stored router in one transaction
func (r *RouterRepository) ReplaceAll(routers []models.Router) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM routers"); err != nil {
			return fmt.Errorf("failed to clear routers: %w", err)
		}

		stmt, err := tx.Prepare(`INSERT INTO routers (ssid, x, y, position, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(ssid) DO UPDATE SET x = excluded.x, y = excluded.y, updated_at = CURRENT_TIMESTAMP`)
		if err != nil {
			return fmt.Errorf("failed to prepare router insert: %w", err)
		}
		defer stmt.Close()

		for _, rt := range routers {
			if _, err := stmt.Exec(rt.SSID, rt.X, rt.Y, rt.Position); err != nil {
				return fmt.Errorf("failed to insert router %q: %w", rt.SSID, err)
			}
		}
		return nil
	})
}

// List returns routers in declaration order
func (r *RouterRepository) List() ([]models.Router, error) {
	rows, err := r.db.Query("SELECT ssid, x, y, position FROM routers ORDER BY position, ssid")
	if err != nil {
		return nil, fmt.Errorf("failed to query routers: %w", err)
	}
	defer rows.Close()

	var routers []models.Router
	for rows.Next() {
		var rt models.Router
		if err := rows.Scan(&rt.SSID, &rt.X, &rt.Y, &rt.Position); err != nil {
			return nil, fmt.Errorf("failed to scan router: %w", err)
		}
		routers = append(routers, rt)
	}
	return routers, rows.Err()
}
