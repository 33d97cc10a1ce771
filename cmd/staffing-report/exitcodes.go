package main

import (
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/tariff"
	"github.com/iota-uz/iota-staffing/modules/staffing/domain/grafo"
	"github.com/iota-uz/iota-staffing/modules/staffing/infrastructure/files"
	"github.com/iota-uz/iota-staffing/modules/staffing/infrastructure/spreadsheet"
	"github.com/iota-uz/iota-staffing/modules/staffing/services"
	"github.com/iota-uz/iota-staffing/pkg/composables"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitStorage    = 4
	exitTemplate   = 5
	exitIntegrity  = 6
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}

// classify attaches an exit code to an error coming out of the service layer.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return err
	}

	var se *services.ServiceError
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, services.ErrCyclicHierarchy),
		errors.Is(err, grafo.ErrInvalidPath),
		errors.Is(err, services.ErrDuplicateTariff),
		errors.Is(err, services.ErrClosureNotIdempotent):
		return withCode(exitIntegrity, err)
	case errors.Is(err, services.ErrTemplateNotFound),
		errors.Is(err, services.ErrAmbiguousTemplate),
		errors.Is(err, spreadsheet.ErrSheetNotFound),
		errors.Is(err, spreadsheet.ErrDefinedNameNotFound),
		errors.Is(err, spreadsheet.ErrRegionTooSmall):
		return withCode(exitTemplate, err)
	case errors.Is(err, services.ErrRowConversion),
		errors.Is(err, tariff.ErrInvalidTariff),
		errors.Is(err, files.ErrMissingColumn),
		errors.As(err, &se):
		return withCode(exitValidation, err)
	case errors.Is(err, files.ErrSnapshotNotFound),
		errors.Is(err, composables.ErrNoPool),
		errors.Is(err, os.ErrNotExist),
		errors.As(err, &pgErr):
		return withCode(exitStorage, err)
	default:
		return err
	}
}
