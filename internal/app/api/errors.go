package api

import (
	catsapp "github.com/Apurer/cat-haven/internal/domains/cats/application"
	catsports "github.com/Apurer/cat-haven/internal/domains/cats/ports"
	apierrors "github.com/Apurer/cat-haven/internal/shared/errors"
)

func errorMappers() []apierrors.ErrorMapper {
	return []apierrors.ErrorMapper{
		apierrors.MapSentinel(ErrInvalidDevice, apierrors.ErrMissingDevice),
		apierrors.MapSentinel(catsports.ErrNotFound, apierrors.ErrNotFound),
		apierrors.MapSentinel(catsapp.ErrInvalidInput, apierrors.ErrValidation),
	}
}
