package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/golang/geo/r2"
	"github.com/jengzang/fingerprint-calibrator/internal/models"
	"github.com/jengzang/fingerprint-calibrator/internal/repository"
)

// ErrInvalidRouters is returned for router lists the service will not store
var ErrInvalidRouters = errors.New("invalid router list")

// RouterService handles business logic for router positions
type RouterService struct {
	repo *repository.RouterRepository
}

// NewRouterService creates a new router service
func NewRouterService(repo *repository.RouterRepository) *RouterService {
	return &RouterService{repo: repo}
}

// SetRouters replaces every stored router. Repeated ssids keep their first
// position in the order and the coordinates of their last entry.
func (s *RouterService) SetRouters(specs []models.RouterSpec) error {
	routers := make([]models.Router, 0, len(specs))
	for i, spec := range specs {
		if spec.SSID == "" {
			return fmt.Errorf("%w: entry %d has an empty ssid", ErrInvalidRouters, i)
		}
		routers = append(routers, models.Router{SSID: spec.SSID, X: spec.X, Y: spec.Y, Position: i})
	}

	if err := s.repo.ReplaceAll(routers); err != nil {
		return fmt.Errorf("failed to store routers: %w", err)
	}
	log.Printf("Stored %d router positions", len(routers))
	return nil
}

// Routers returns the stored routers in declaration order
func (s *RouterService) Routers() ([]models.Router, error) {
	return s.repo.List()
}

// Positions returns router positions keyed by ssid
func (s *RouterService) Positions() (map[string]r2.Point, error) {
	routers, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	out := make(map[string]r2.Point, len(routers))
	for _, rt := range routers {
		out[rt.SSID] = r2.Point{X: rt.X, Y: rt.Y}
	}
	return out, nil
}
