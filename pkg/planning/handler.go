package planning

import (
	"errors"
	"net/http"
	"time"

	"github.com/cristianoafs081993/love-execu-o/internal/rest"
	"github.com/cristianoafs081993/love-execu-o/pkg/importer"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ActivityDTO struct {
	Id                  string    `json:"id"`
	Dimension           string    `json:"dimension"`
	FunctionalComponent string    `json:"functionalComponent"`
	Process             string    `json:"process"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	PlannedAmount       float64   `json:"plannedAmount"`
	ResourceOrigin      string    `json:"resourceOrigin"`
	ExpenseNature       string    `json:"expenseNature"`
	InternalPlan        string    `json:"internalPlan"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type CreateActivityDTO struct {
	Dimension           string  `json:"dimension" validate:"required"`
	FunctionalComponent string  `json:"functionalComponent"`
	Process             string  `json:"process"`
	Name                string  `json:"name" validate:"required"`
	Description         string  `json:"description"`
	PlannedAmount       float64 `json:"plannedAmount" validate:"gte=0"`
	ResourceOrigin      string  `json:"resourceOrigin"`
	ExpenseNature       string  `json:"expenseNature"`
	InternalPlan        string  `json:"internalPlan"`
}

type PatchActivityDTO struct {
	Dimension           *string  `json:"dimension" validate:"omitnil,min=1"`
	FunctionalComponent *string  `json:"functionalComponent"`
	Process             *string  `json:"process"`
	Name                *string  `json:"name" validate:"omitnil,min=1"`
	Description         *string  `json:"description"`
	PlannedAmount       *float64 `json:"plannedAmount" validate:"omitnil,gte=0"`
	ResourceOrigin      *string  `json:"resourceOrigin"`
	ExpenseNature       *string  `json:"expenseNature"`
	InternalPlan        *string  `json:"internalPlan"`
}

type ImportResultDTO struct {
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
}

type Handler struct {
	service        Service
	maxUploadBytes int64
}

func NewHandler(service Service, maxUploadBytes int64) *Handler {
	return &Handler{service: service, maxUploadBytes: maxUploadBytes}
}

// ListActivities godoc
// @Summary List activities
// @Description List planned budget lines, optionally filtered by text and dimension
// @Tags Activity
// @Produce json
// @Param q query string false "Text searched in name, description and resource origin"
// @Param dimension query string false "Dimension"
// @Success 200 {array} ActivityDTO
// @Router /api/activity [get]
func (handler *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing activities")
	filter := ListFilter{
		Query:     r.URL.Query().Get("q"),
		Dimension: r.URL.Query().Get("dimension"),
	}
	activities, err := handler.service.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]ActivityDTO, 0, len(activities))
	for _, activity := range activities {
		dtos = append(dtos, ActivityToDTO(activity))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// GetActivity godoc
// @Summary Get an activity
// @Tags Activity
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} ActivityDTO
// @Failure 404 {string} string "Activity Not Found"
// @Router /api/activity/{id} [get]
func (handler *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	activity, err := handler.service.Get(r.Context(), id)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ActivityToDTO(activity))
}

// CreateActivity godoc
// @Summary Create an activity
// @Tags Activity
// @Accept json
// @Produce json
// @Param activity body CreateActivityDTO true "Activity"
// @Success 201 {object} ActivityDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/activity [post]
func (handler *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating activity")
	var dto CreateActivityDTO
	if !rest.DecodeAndValidate(w, r, &dto) {
		return
	}

	activity, err := handler.service.Create(r.Context(), DTOToActivity(dto))
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ActivityToDTO(activity))
}

// UpdateActivity godoc
// @Summary Partially update an activity
// @Description Only the fields present in the body are changed
// @Tags Activity
// @Accept json
// @Produce json
// @Param id path string true "Activity ID"
// @Param activity body PatchActivityDTO true "Fields to change"
// @Success 200 {object} ActivityDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {string} string "Activity Not Found"
// @Router /api/activity/{id} [patch]
func (handler *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating activity")
	id := mux.Vars(r)["id"]
	var dto PatchActivityDTO
	if !rest.DecodeAndValidate(w, r, &dto) {
		return
	}

	activity, err := handler.service.Update(r.Context(), id, DTOToPatch(dto))
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ActivityToDTO(activity))
}

// DeleteActivity godoc
// @Summary Delete an activity
// @Tags Activity
// @Param id path string true "Activity ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "Activity Not Found"
// @Router /api/activity/{id} [delete]
func (handler *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting activity")
	id := mux.Vars(r)["id"]
	if err := handler.service.Delete(r.Context(), id); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportActivities godoc
// @Summary Import activities from a CSV or JSON file
// @Tags Activity
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or JSON file"
// @Success 200 {object} ImportResultDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 415 {object} rest.ErrorResponse
// @Router /api/activity/import [post]
func (handler *Handler) ImportActivities(w http.ResponseWriter, r *http.Request) {
	log.Debug("Importing activities")
	filename, data, err := rest.ReadUpload(r, "file", handler.maxUploadBytes)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "falha ao ler o arquivo enviado", err.Error())
		return
	}

	result, err := handler.service.Import(r.Context(), filename, data)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ImportResultDTO{Accepted: result.Accepted, Skipped: result.Skipped})
}

func (handler *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, importer.ErrInvalidFileType):
		rest.WriteError(w, http.StatusUnsupportedMediaType, err.Error(), "")
	case errors.Is(err, ErrMissingRequiredFields), importer.IsValidationError(err):
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
	default:
		log.Errorf("activity request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "falha ao processar", err.Error())
	}
}

func ActivityToDTO(activity Activity) ActivityDTO {
	return ActivityDTO{
		Id:                  activity.Id,
		Dimension:           activity.Dimension,
		FunctionalComponent: activity.FunctionalComponent,
		Process:             activity.Process,
		Name:                activity.Name,
		Description:         activity.Description,
		PlannedAmount:       activity.PlannedAmount,
		ResourceOrigin:      activity.ResourceOrigin,
		ExpenseNature:       activity.ExpenseNature,
		InternalPlan:        activity.InternalPlan,
		CreatedAt:           activity.CreatedAt,
		UpdatedAt:           activity.UpdatedAt,
	}
}

func DTOToActivity(dto CreateActivityDTO) Activity {
	return Activity{
		Dimension:           dto.Dimension,
		FunctionalComponent: dto.FunctionalComponent,
		Process:             dto.Process,
		Name:                dto.Name,
		Description:         dto.Description,
		PlannedAmount:       dto.PlannedAmount,
		ResourceOrigin:      dto.ResourceOrigin,
		ExpenseNature:       dto.ExpenseNature,
		InternalPlan:        dto.InternalPlan,
	}
}

func DTOToPatch(dto PatchActivityDTO) Patch {
	return Patch{
		Dimension:           dto.Dimension,
		FunctionalComponent: dto.FunctionalComponent,
		Process:             dto.Process,
		Name:                dto.Name,
		Description:         dto.Description,
		PlannedAmount:       dto.PlannedAmount,
		ResourceOrigin:      dto.ResourceOrigin,
		ExpenseNature:       dto.ExpenseNature,
		InternalPlan:        dto.InternalPlan,
	}
}
