package service

import (
	"context"
	"fmt"

	"shiftsite/internal/repository"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthStatus struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	CountTables int    `json:"countTables"`
}

type HealthService interface {
	Check(ctx context.Context) (*HealthStatus, error)
}

type healthService struct {
	db         Pinger
	tablesRepo repository.TablesRepository
}

func NewHealthService(db Pinger, tablesRepo repository.TablesRepository) HealthService {
	return &healthService{db: db, tablesRepo: tablesRepo}
}

// Check pings the database and counts its tables. A failed check still
// returns a status describing what went wrong.
func (h *healthService) Check(ctx context.Context) (*HealthStatus, error) {
	status := &HealthStatus{Status: "ok", Database: "up"}

	if err := h.db.PingContext(ctx); err != nil {
		status.Status = "degraded"
		status.Database = "down"
		return status, fmt.Errorf("ping database: %w", err)
	}

	count, err := h.tablesRepo.CountTablesDB(ctx)
	if err != nil {
		status.Status = "degraded"
		return status, err
	}
	status.CountTables = count

	return status, nil
}
