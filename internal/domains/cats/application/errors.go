package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/cat-haven/internal/domains/cats/domain"
)

// ErrInvalidInput signals the request violated a catalog invariant.
var ErrInvalidInput = errors.New("invalid cat input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyID) ||
		errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyPhotos) ||
		errors.Is(err, domain.ErrInvalidAge) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
