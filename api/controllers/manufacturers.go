package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/makersrow/makersrow-backend/api/responses"
	"github.com/makersrow/makersrow-backend/internal/manufacturers"
	"github.com/makersrow/makersrow-backend/internal/products"
	pkgerrors "github.com/makersrow/makersrow-backend/pkg/errors"
	"github.com/makersrow/makersrow-backend/pkg/logger"
)

// ManufacturerList returns the manufacturer directory.
func ManufacturerList(repo *manufacturers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := repo.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list manufacturers"))
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ManufacturerDetail returns one manufacturer profile.
func ManufacturerDetail(repo *manufacturers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manufacturerID, err := manufacturerIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := repo.FindByID(r.Context(), manufacturerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "manufacturer not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load manufacturer"))
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// ManufacturerProducts returns the manufacturer's active catalog.
func ManufacturerProducts(repo *products.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manufacturerID, err := manufacturerIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := repo.ListByManufacturer(r.Context(), manufacturerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list manufacturer products"))
			return
		}

		out := make([]products.Summary, 0, len(rows))
		for _, row := range rows {
			out = append(out, products.ToSummary(row))
		}
		responses.WriteSuccess(w, out)
	}
}

func manufacturerIDFromURL(r *http.Request) (uuid.UUID, error) {
	manufacturerID, err := uuid.Parse(chi.URLParam(r, "manufacturerId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid manufacturer id")
	}
	return manufacturerID, nil
}
