// Package handlers contains the HTTP handlers for the space traffic API.
//
// Routes (mounted under /v1):
//   - GET  /models        selectable models in catalog order
//   - GET  /locations     encoder vocabulary
//   - GET  /object-types  object type toggles with their defaults
//   - GET  /schema        ordered feature columns
//   - POST /predictions   run one prediction
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spacetraffic/internal/artifacts"
	"spacetraffic/internal/core"
	"spacetraffic/internal/features"
	"spacetraffic/internal/prediction"
	"spacetraffic/internal/types"
)

// CatalogReader exposes the loaded artifacts.
type CatalogReader interface {
	Describe() []artifacts.ModelInfo
	Locations() []string
}

// PredictionService runs a submission.
type PredictionService interface {
	Submit(ctx context.Context, in prediction.Input) (*prediction.Result, error)
}

// ObjectTypeInfo describes one object type toggle.
type ObjectTypeInfo struct {
	Label   string `json:"label"`
	Column  string `json:"column"`
	Default bool   `json:"default"`
}

// SchemaInfo describes the feature row layout.
type SchemaInfo struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// LocationsResponse lists the known locations in code order.
type LocationsResponse struct {
	Locations []string `json:"locations"`
}

// PredictionHandler maps HTTP requests onto the prediction service.
type PredictionHandler struct {
	catalog   CatalogReader
	service   PredictionService
	validator *core.Validator
	logger    *slog.Logger
}

// NewPredictionHandler creates a PredictionHandler.
func NewPredictionHandler(
	catalog CatalogReader,
	svc PredictionService,
	val *core.Validator,
	logger *slog.Logger,
) *PredictionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if val == nil {
		val = core.NewValidator(logger)
	}
	return &PredictionHandler{
		catalog:   catalog,
		service:   svc,
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts the endpoints onto r.
func (h *PredictionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/models", h.HandleListModels)
	r.Get("/locations", h.HandleListLocations)
	r.Get("/object-types", h.HandleListObjectTypes)
	r.Get("/schema", h.HandleGetSchema)
	r.Post("/predictions", h.HandleCreatePrediction)
}

// HandleListModels handles GET /v1/models.
func (h *PredictionHandler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: h.catalog.Describe()})
}

// HandleListLocations handles GET /v1/locations.
func (h *PredictionHandler) HandleListLocations(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: LocationsResponse{Locations: h.catalog.Locations()}})
}

// HandleListObjectTypes handles GET /v1/object-types.
func (h *PredictionHandler) HandleListObjectTypes(w http.ResponseWriter, r *http.Request) {
	defaults := types.DefaultObjectFlags()
	out := make([]ObjectTypeInfo, len(types.ObjectTypes))
	for i, t := range types.ObjectTypes {
		out[i] = ObjectTypeInfo{Label: string(t), Column: t.Column(), Default: defaults[t]}
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: out})
}

// HandleGetSchema handles GET /v1/schema.
func (h *PredictionHandler) HandleGetSchema(w http.ResponseWriter, r *http.Request) {
	schema := features.SpaceTrafficSchema
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: SchemaInfo{Name: schema.Name(), Columns: schema.Columns()}})
}

// HandleCreatePrediction handles POST /v1/predictions. Failures use the
// standard error envelope with the user-facing message.
func (h *PredictionHandler) HandleCreatePrediction(w http.ResponseWriter, r *http.Request) {
	var in prediction.Input
	if err := core.DecodeJSON(w, r, &in); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(in); err != nil {
		core.Error(w, r, err)
		return
	}

	result, err := h.service.Submit(r.Context(), in)
	if err != nil {
		core.ErrorWithMessage(w, r, err, prediction.UserMessage(err))
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result})
}
