package service

import (
	"github.com/jengzang/fingerprint-calibrator/internal/models"
	"github.com/jengzang/fingerprint-calibrator/internal/repository"
)

// StateService assembles the session state restored by the calibrator
type StateService struct {
	routers  *RouterService
	progress *repository.ProgressRepository
}

// NewStateService creates a new state service
func NewStateService(routers *RouterService, progress *repository.ProgressRepository) *StateService {
	return &StateService{routers: routers, progress: progress}
}

// State returns router positions and completed squares
func (s *StateService) State() (*models.StateResponse, error) {
	routers, err := s.routers.Routers()
	if err != nil {
		return nil, err
	}
	squares, err := s.progress.List()
	if err != nil {
		return nil, err
	}

	st := &models.StateResponse{
		Routers:   make(map[string][2]float64, len(routers)),
		Completed: make([][2]int, 0, len(squares)),
	}
	for _, rt := range routers {
		st.Routers[rt.SSID] = [2]float64{rt.X, rt.Y}
	}
	for _, sq := range squares {
		st.Completed = append(st.Completed, [2]int{sq.Row, sq.Col})
	}
	return st, nil
}
