package repository

import (
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/jengzang/fingerprint-calibrator/internal/database"
	"github.com/jengzang/fingerprint-calibrator/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("database.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRouterReplaceAll(t *testing.T) {
	t.Parallel()

	repo := NewRouterRepository(openTestDB(t))
	if err := repo.ReplaceAll([]models.Router{{SSID: "A", X: 1, Y: 2, Position: 0}}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	err := repo.ReplaceAll([]models.Router{
		{SSID: "B", X: 3, Y: 4, Position: 0},
		{SSID: "C", X: 5, Y: 6, Position: 1},
		{SSID: "B", X: 7, Y: 8, Position: 2},
	})
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := repo.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []models.Router{
		{SSID: "B", X: 7, Y: 8, Position: 0},
		{SSID: "C", X: 5, Y: 6, Position: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List()=%+v want %+v", got, want)
	}
}

func TestFingerprintRoundTrip(t *testing.T) {
	t.Parallel()

	repo := NewFingerprintRepository(openTestDB(t))
	estX, estY := 1.25, 2.5
	created := time.UnixMilli(1760000000123).UTC()
	in := []models.Fingerprint{
		{ID: "a", X: 1, Y: 2, Readings: models.Readings{"A": -40}, SSIDOrder: []string{"A"}, EstX: &estX, EstY: &estY, CreatedAt: created},
		{ID: "b", X: 3, Y: 4, Readings: models.Readings{"A": -70, "B": -55}, SSIDOrder: []string{"B", "A"}, CreatedAt: created.Add(time.Second)},
	}
	for i := range in {
		if err := repo.Create(&in[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("List()=%+v want %+v", got, in)
	}
	if n, err := repo.Count(); err != nil || n != 2 {
		t.Fatalf("Count()=%d,%v want 2", n, err)
	}
}

func TestProgressIgnoresRepeats(t *testing.T) {
	t.Parallel()

	repo := NewProgressRepository(openTestDB(t))
	for _, sq := range []models.Square{{Row: 2, Col: 1}, {Row: 0, Col: 3}, {Row: 2, Col: 1}} {
		if err := repo.MarkCompleted(sq); err != nil {
			t.Fatalf("MarkCompleted: %v", err)
		}
	}
	got, err := repo.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []models.Square{{Row: 0, Col: 3}, {Row: 2, Col: 1}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("List()=%v want %v", got, want)
	}
}
