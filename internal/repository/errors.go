package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"shiftsite/internal/models"
)

// classify turns a driver error into an AppError. notFound is the message
// used when the query matched no row.
func classify(err error, notFound string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return models.NotFoundError(notFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return models.NewError(models.KindConflict, pqErr.Message, err)
		case "23502", "23514", "22001", "22P02", "22007", "22008":
			return models.NewError(models.KindValidation, pqErr.Message, err)
		case "23503":
			return models.NewError(models.KindNotFound, pqErr.Message, err)
		}
	}

	return models.NewError(models.KindTransport, err.Error(), err)
}
