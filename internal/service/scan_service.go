package service

import (
	"context"
	"log"
	"time"

	"github.com/jengzang/fingerprint-calibrator/internal/models"
	"github.com/jengzang/fingerprint-calibrator/internal/scanner"
)

// ScanService runs WiFi scans with a bounded duration
type ScanService struct {
	scanner scanner.Scanner
	timeout time.Duration
}

// NewScanService creates a new scan service
func NewScanService(sc scanner.Scanner, timeout time.Duration) *ScanService {
	return &ScanService{scanner: sc, timeout: timeout}
}

// Scan returns a reading for every requested ssid
func (s *ScanService) Scan(ctx context.Context, ssids []string) (models.Readings, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	readings, err := s.scanner.Scan(ctx, ssids)
	if err != nil {
		log.Printf("Scan of %d networks failed: %v", len(ssids), err)
		return nil, err
	}
	log.Printf("Scanned %d networks in %v", len(ssids), time.Since(start))
	return readings, nil
}
