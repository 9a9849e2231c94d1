package commitment

import (
	"errors"
	"net/http"
	"time"

	"github.com/cristianoafs081993/love-execu-o/internal/rest"
	"github.com/cristianoafs081993/love-execu-o/pkg/importer"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type CommitmentDTO struct {
	Id                  string    `json:"id"`
	Number              string    `json:"number"`
	Description         string    `json:"description"`
	Amount              float64   `json:"amount"`
	Dimension           string    `json:"dimension"`
	FunctionalComponent string    `json:"functionalComponent"`
	ResourceOrigin      string    `json:"resourceOrigin"`
	ExpenseNature       string    `json:"expenseNature"`
	InternalPlan        string    `json:"internalPlan"`
	BeneficiaryName     string    `json:"beneficiaryName"`
	BeneficiaryDocument string    `json:"beneficiaryDocument"`
	LiquidatedAmount    float64   `json:"liquidatedAmount"`
	Balance             float64   `json:"balance"`
	Date                string    `json:"date"`
	Status              string    `json:"status"`
	ActivityId          string    `json:"activityId,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type CreateCommitmentDTO struct {
	Number              string  `json:"number" validate:"required"`
	Description         string  `json:"description"`
	Amount              float64 `json:"amount" validate:"gte=0"`
	Dimension           string  `json:"dimension" validate:"required"`
	FunctionalComponent string  `json:"functionalComponent"`
	ResourceOrigin      string  `json:"resourceOrigin"`
	ExpenseNature       string  `json:"expenseNature"`
	InternalPlan        string  `json:"internalPlan"`
	BeneficiaryName     string  `json:"beneficiaryName"`
	BeneficiaryDocument string  `json:"beneficiaryDocument"`
	Date                string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status              string  `json:"status" validate:"omitempty,oneof=pendente liquidado pago cancelado"`
	ActivityId          string  `json:"activityId"`
}

type PatchCommitmentDTO struct {
	Number              *string  `json:"number" validate:"omitnil,min=1"`
	Description         *string  `json:"description"`
	Amount              *float64 `json:"amount" validate:"omitnil,gte=0"`
	Dimension           *string  `json:"dimension" validate:"omitnil,min=1"`
	FunctionalComponent *string  `json:"functionalComponent"`
	ResourceOrigin      *string  `json:"resourceOrigin"`
	ExpenseNature       *string  `json:"expenseNature"`
	InternalPlan        *string  `json:"internalPlan"`
	BeneficiaryName     *string  `json:"beneficiaryName"`
	BeneficiaryDocument *string  `json:"beneficiaryDocument"`
	Date                *string  `json:"date" validate:"omitnil,datetime=2006-01-02"`
	Status              *string  `json:"status" validate:"omitnil,oneof=pendente liquidado pago cancelado"`
	ActivityId          *string  `json:"activityId"`
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

// ListCommitments godoc
// @Summary List commitments
// @Tags Commitment
// @Produce json
// @Param q query string false "Text searched in number and description"
// @Param status query string false "Status" Enums(pendente, liquidado, pago, cancelado)
// @Param dimension query string false "Dimension"
// @Success 200 {array} CommitmentDTO
// @Router /api/commitment [get]
func (handler *Handler) ListCommitments(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing commitments")
	filter := ListFilter{
		Query:     r.URL.Query().Get("q"),
		Dimension: r.URL.Query().Get("dimension"),
	}
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status, err := ParseStatus(statusParam)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		filter.Status = status
	}

	commitments, err := handler.service.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]CommitmentDTO, 0, len(commitments))
	for _, commitment := range commitments {
		dtos = append(dtos, CommitmentToDTO(commitment))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// GetCommitment godoc
// @Summary Get a commitment
// @Tags Commitment
// @Produce json
// @Param id path string true "Commitment ID"
// @Success 200 {object} CommitmentDTO
// @Failure 404 {string} string "Commitment Not Found"
// @Router /api/commitment/{id} [get]
func (handler *Handler) GetCommitment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	commitment, err := handler.service.Get(r.Context(), id)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, CommitmentToDTO(commitment))
}

// CreateCommitment godoc
// @Summary Create a commitment
// @Description The liquidated amount always starts at zero
// @Tags Commitment
// @Accept json
// @Produce json
// @Param commitment body CreateCommitmentDTO true "Commitment"
// @Success 201 {object} CommitmentDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/commitment [post]
func (handler *Handler) CreateCommitment(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating commitment")
	var dto CreateCommitmentDTO
	if !rest.DecodeAndValidate(w, r, &dto) {
		return
	}

	commitment, err := handler.service.Create(r.Context(), DTOToCommitment(dto))
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, CommitmentToDTO(commitment))
}

// UpdateCommitment godoc
// @Summary Partially update a commitment
// @Description Status changes to pago or cancelado are only made here
// @Tags Commitment
// @Accept json
// @Produce json
// @Param id path string true "Commitment ID"
// @Param commitment body PatchCommitmentDTO true "Fields to change"
// @Success 200 {object} CommitmentDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {string} string "Commitment Not Found"
// @Router /api/commitment/{id} [patch]
func (handler *Handler) UpdateCommitment(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating commitment")
	id := mux.Vars(r)["id"]
	var dto PatchCommitmentDTO
	if !rest.DecodeAndValidate(w, r, &dto) {
		return
	}

	commitment, err := handler.service.Update(r.Context(), id, DTOToPatch(dto))
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, CommitmentToDTO(commitment))
}

// DeleteCommitment godoc
// @Summary Delete a commitment
// @Tags Commitment
// @Param id path string true "Commitment ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "Commitment Not Found"
// @Router /api/commitment/{id} [delete]
func (handler *Handler) DeleteCommitment(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting commitment")
	id := mux.Vars(r)["id"]
	if err := handler.service.Delete(r.Context(), id); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportCommitments godoc
// @Summary Import commitments from a CSV file
// @Tags Commitment
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportResultDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 415 {object} rest.ErrorResponse
// @Router /api/commitment/import [post]
func (handler *Handler) ImportCommitments(w http.ResponseWriter, r *http.Request) {
	log.Debug("Importing commitments")
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
	case errors.Is(err, ErrCommitmentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, importer.ErrInvalidFileType):
		rest.WriteError(w, http.StatusUnsupportedMediaType, err.Error(), "")
	case errors.Is(err, ErrMissingRequiredFields), errors.Is(err, ErrInvalidStatus), importer.IsValidationError(err):
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
	default:
		log.Errorf("commitment request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "falha ao processar", err.Error())
	}
}

func CommitmentToDTO(commitment Commitment) CommitmentDTO {
	return CommitmentDTO{
		Id:                  commitment.Id,
		Number:              commitment.Number,
		Description:         commitment.Description,
		Amount:              commitment.Amount,
		Dimension:           commitment.Dimension,
		FunctionalComponent: commitment.FunctionalComponent,
		ResourceOrigin:      commitment.ResourceOrigin,
		ExpenseNature:       commitment.ExpenseNature,
		InternalPlan:        commitment.InternalPlan,
		BeneficiaryName:     commitment.BeneficiaryName,
		BeneficiaryDocument: commitment.BeneficiaryDocument,
		LiquidatedAmount:    commitment.LiquidatedAmount,
		Balance:             commitment.Balance(),
		Date:                commitment.Date.Format(dateLayout),
		Status:              string(commitment.Status),
		ActivityId:          commitment.ActivityId,
		CreatedAt:           commitment.CreatedAt,
		UpdatedAt:           commitment.UpdatedAt,
	}
}

// DTOToCommitment expects a DTO that passed validation.
func DTOToCommitment(dto CreateCommitmentDTO) Commitment {
	commitment := Commitment{
		Number:              dto.Number,
		Description:         dto.Description,
		Amount:              dto.Amount,
		Dimension:           dto.Dimension,
		FunctionalComponent: dto.FunctionalComponent,
		ResourceOrigin:      dto.ResourceOrigin,
		ExpenseNature:       dto.ExpenseNature,
		InternalPlan:        dto.InternalPlan,
		BeneficiaryName:     dto.BeneficiaryName,
		BeneficiaryDocument: dto.BeneficiaryDocument,
		Status:              Status(dto.Status),
		ActivityId:          dto.ActivityId,
	}
	if dto.Date != "" {
		commitment.Date, _ = time.Parse(dateLayout, dto.Date)
	}
	return commitment
}

func DTOToPatch(dto PatchCommitmentDTO) Patch {
	patch := Patch{
		Number:              dto.Number,
		Description:         dto.Description,
		Amount:              dto.Amount,
		Dimension:           dto.Dimension,
		FunctionalComponent: dto.FunctionalComponent,
		ResourceOrigin:      dto.ResourceOrigin,
		ExpenseNature:       dto.ExpenseNature,
		InternalPlan:        dto.InternalPlan,
		BeneficiaryName:     dto.BeneficiaryName,
		BeneficiaryDocument: dto.BeneficiaryDocument,
		ActivityId:          dto.ActivityId,
	}
	if dto.Date != nil {
		if date, err := time.Parse(dateLayout, *dto.Date); err == nil {
			patch.Date = &date
		}
	}
	if dto.Status != nil {
		status := Status(*dto.Status)
		patch.Status = &status
	}
	return patch
}
