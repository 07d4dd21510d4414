package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/fingerprint-calibrator/internal/models"
)

// ProgressRepository tracks which grid squares already have a fingerprint
type ProgressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *sql.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// MarkCompleted records a square, ignoring repeats
func (r *ProgressRepository) MarkCompleted(sq models.Square) error {
	_, err := r.db.Exec("INSERT OR IGNORE INTO completed_squares (grid_row, grid_col) VALUES (?, ?)", sq.Row, sq.Col)
	if err != nil {
		return fmt.Errorf("failed to mark square completed: %w", err)
	}
	return nil
}

// List returns the completed squares ordered by row then column
func (r *ProgressRepository) List() ([]models.Square, error) {
	rows, err := r.db.Query("SELECT grid_row, grid_col FROM completed_squares ORDER BY grid_row, grid_col")
	if err != nil {
		return nil, fmt.Errorf("failed to query completed squares: %w", err)
	}
	defer rows.Close()

	var out []models.Square
	for rows.Next() {
		var sq models.Square
		if err := rows.Scan(&sq.Row, &sq.Col); err != nil {
			return nil, fmt.Errorf("failed to scan square: %w", err)
		}
		out = append(out, sq)
	}
	return out, rows.Err()
}
