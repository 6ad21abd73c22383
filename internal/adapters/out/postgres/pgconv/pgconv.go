// Package pgconv holds the column conversions shared by the repositories.
package pgconv

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// UUIDArray stores ids in a text[] column.
func UUIDArray(ids []kernel.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

// UUIDsFromArray parses a text[] column written by UUIDArray.
func UUIDsFromArray(values pq.StringArray) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(values))
	for _, v := range values {
		id, err := kernel.UUIDFromString(v)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func UUID(raw uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(raw[:])
}

// OptionalUUID maps a nullable uuid column.
func OptionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := UUID(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// NotFound turns gorm.ErrRecordNotFound into an ObjectNotFoundError and
// passes every other error through.
func NotFound(err error, entity string, id kernel.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError(entity, id.String())
	}
	return err
}
