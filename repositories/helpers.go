package repositories

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// ErrConstraintViolation is returned when a CHECK constraint rejects a row.
var ErrConstraintViolation = errors.New("constraint violation")

// pgErrors describes how driver errors of one table map onto repository errors.
type pgErrors struct {
	notFound   error
	unique     map[string]error
	uniqueAny  error
	foreignKey error
}

func (m pgErrors) translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && m.notFound != nil {
		return m.notFound
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pgUniqueViolation:
		if mapped, ok := m.unique[pqErr.Constraint]; ok {
			return mapped
		}
		if m.uniqueAny != nil {
			return m.uniqueAny
		}
	case pgForeignKeyViolation:
		if m.foreignKey != nil {
			return fmt.Errorf("%w (%s)", m.foreignKey, pqErr.Constraint)
		}
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", ErrConstraintViolation, pqErr.Constraint)
	}
	return err
}

func checkAffectedRows(result *gorm.DB, notFoundError error) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundError
	}
	return nil
}
