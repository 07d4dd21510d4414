package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/fingerprint-calibrator/internal/estimator"
	"github.com/jengzang/fingerprint-calibrator/internal/models"
	"github.com/jengzang/fingerprint-calibrator/internal/repository"
)

// SquareSize is the side of a progress square in meters
const SquareSize = 1.0

// ErrInvalidFingerprint is returned for fingerprints that cannot be stored
var ErrInvalidFingerprint = errors.New("invalid fingerprint")

// FingerprintService stores fingerprints and estimates their position
type FingerprintService struct {
	fingerprints *repository.FingerprintRepository
	progress     *repository.ProgressRepository
	routers      *RouterService
	model        estimator.PathLoss
	now          func() time.Time
}

// NewFingerprintService creates a new fingerprint service
func NewFingerprintService(fingerprints *repository.FingerprintRepository, progress *repository.ProgressRepository, routers *RouterService) *FingerprintService {
	return &FingerprintService{
		fingerprints: fingerprints,
		progress:     progress,
		routers:      routers,
		model:        estimator.DefaultPathLoss,
		now:          time.Now,
	}
}

// Save estimates, stores and marks progress for one fingerprint
func (s *FingerprintService) Save(req models.SaveRequest) (*models.SaveResponse, error) {
	if math.IsNaN(req.X) || math.IsNaN(req.Y) || math.IsInf(req.X, 0) || math.IsInf(req.Y, 0) {
		return nil, fmt.Errorf("%w: position (%v, %v)", ErrInvalidFingerprint, req.X, req.Y)
	}

	positions, err := s.routers.Positions()
	if err != nil {
		return nil, fmt.Errorf("failed to load routers: %w", err)
	}

	fp := &models.Fingerprint{
		ID:        uuid.NewString(),
		X:         req.X,
		Y:         req.Y,
		Readings:  req.RSSI,
		SSIDOrder: ssidOrder(req.RSSI),
		CreatedAt: s.now().UTC(),
	}
	if fp.Readings == nil {
		fp.Readings = models.Readings{}
	}

	resp := &models.SaveResponse{OK: true}
	if est, ok := estimator.Estimate(req.RSSI, positions, s.model); ok {
		fp.EstX, fp.EstY = &est.X, &est.Y
		resp.Est = &[2]float64{est.X, est.Y}
	}

	if err := s.fingerprints.Create(fp); err != nil {
		return nil, err
	}
	sq := models.Square{
		Row: int(math.Floor(req.Y / SquareSize)),
		Col: int(math.Floor(req.X / SquareSize)),
	}
	if err := s.progress.MarkCompleted(sq); err != nil {
		return nil, err
	}

	log.Printf("Saved fingerprint %s at (%.2f, %.2f) with %d readings", fp.ID, fp.X, fp.Y, len(fp.Readings))
	return resp, nil
}

// ExportCSV writes every fingerprint as x_meter,y_meter,<ssids...>,est_x_m,est_y_m.
// The ssid columns are the union over all fingerprints.
func (s *FingerprintService) ExportCSV(w io.Writer) error {
	fps, err := s.fingerprints.List()
	if err != nil {
		return err
	}

	var columns []string
	seen := make(map[string]bool)
	for _, fp := range fps {
		for _, ssid := range fp.SSIDOrder {
			if !seen[ssid] {
				seen[ssid] = true
				columns = append(columns, ssid)
			}
		}
	}

	cw := csv.NewWriter(w)
	header := append([]string{"x_meter", "y_meter"}, columns...)
	header = append(header, "est_x_m", "est_y_m")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, fp := range fps {
		row := []string{formatMeters(fp.X), formatMeters(fp.Y)}
		for _, ssid := range columns {
			if v, ok := fp.Readings[ssid]; ok {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if fp.EstX != nil && fp.EstY != nil {
			row = append(row, formatMeters(*fp.EstX), formatMeters(*fp.EstY))
		} else {
			row = append(row, "", "")
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Count returns the number of stored fingerprints
func (s *FingerprintService) Count() (int64, error) {
	return s.fingerprints.Count()
}

func formatMeters(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func ssidOrder(r models.Readings) []string {
	out := make([]string, 0, len(r))
	for ssid := range r {
		out = append(out, ssid)
	}
	sort.Strings(out)
	return out
}
