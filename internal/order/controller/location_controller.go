package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"karen/internal/domain"
	"karen/internal/dto"
	apperrors "karen/internal/errors"
	"karen/internal/infrastructure/web"
)

type LocationUseCase interface {
	List(ctx context.Context) ([]domain.Location, error)
	Create(ctx context.Context, req dto.LocationRequest) (*domain.Location, error)
	Update(ctx context.Context, id uint, req dto.LocationRequest) (*domain.Location, error)
	Delete(ctx context.Context, id uint) error
}

type LocationController struct {
	useCase LocationUseCase
	logger  *zap.Logger
}

func NewLocationController(useCase LocationUseCase, logger *zap.Logger) *LocationController {
	return &LocationController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *LocationController) List(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	locations, err := c.useCase.List(r.Context())
	if err != nil {
		web.HandleError(w, err, logger)
		return
	}

	out := make([]dto.LocationResponse, len(locations))
	for i, l := range locations {
		out[i] = dto.NewLocationResponse(l)
	}
	web.WriteJSON(w, http.StatusOK, out, logger)
}

func (c *LocationController) Create(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	req, ok := c.decode(w, r, logger)
	if !ok {
		return
	}

	location, err := c.useCase.Create(r.Context(), req)
	if err != nil {
		web.HandleError(w, err, logger)
		return
	}

	web.WriteJSON(w, http.StatusCreated, dto.NewLocationResponse(*location), logger)
}

func (c *LocationController) Update(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	id, ok := c.locationID(w, r, logger)
	if !ok {
		return
	}

	req, ok := c.decode(w, r, logger)
	if !ok {
		return
	}

	location, err := c.useCase.Update(r.Context(), id, req)
	if err != nil {
		web.HandleError(w, err, logger)
		return
	}

	web.WriteJSON(w, http.StatusOK, dto.NewLocationResponse(*location), logger)
}

func (c *LocationController) Delete(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	id, ok := c.locationID(w, r, logger)
	if !ok {
		return
	}

	if err := c.useCase.Delete(r.Context(), id); err != nil {
		web.HandleError(w, err, logger)
		return
	}

	logger.Info("location deleted", zap.Uint("locationId", id))
	w.WriteHeader(http.StatusNoContent)
}

// locationID reads the {id} path segment. A malformed id cannot name a location, so it
// is reported as not found.
func (c *LocationController) locationID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		web.WriteError(w, http.StatusNotFound, "Location not found.", logger)
		return 0, false
	}
	return uint(id), true
}

func (c *LocationController) decode(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (dto.LocationRequest, bool) {
	var req dto.LocationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		web.HandleError(w, apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		}), logger)
		return req, false
	}
	return req, true
}
