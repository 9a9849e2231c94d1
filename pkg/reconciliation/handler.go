package reconciliation

import (
	"errors"
	"net/http"

	"github.com/cristianoafs081993/love-execu-o/internal/rest"
	"github.com/cristianoafs081993/love-execu-o/pkg/importer"
	log "github.com/sirupsen/logrus"
)

type ResultDTO struct {
	Updated   int `json:"updated"`
	Unmatched int `json:"unmatched"`
	Skipped   int `json:"skipped"`
	Ambiguous int `json:"ambiguous"`
}

type SheetRequestDTO struct {
	SpreadsheetId string `json:"spreadsheetId" validate:"required"`
	Range         string `json:"range" validate:"required"`
}

type Handler struct {
	service        Service
	maxUploadBytes int64
}

func NewHandler(service Service, maxUploadBytes int64) *Handler {
	return &Handler{service: service, maxUploadBytes: maxUploadBytes}
}

// ReconcileUpload godoc
// @Summary Apply a ledger export to the liquidated amounts of commitments
// @Tags Reconciliation
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX, XLS or CSV ledger export"
// @Success 200 {object} ResultDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 415 {object} rest.ErrorResponse
// @Failure 422 {object} rest.ErrorResponse
// @Router /api/commitment/reconcile [post]
func (handler *Handler) ReconcileUpload(w http.ResponseWriter, r *http.Request) {
	log.Debug("Reconciling commitments with an uploaded ledger")
	filename, data, err := rest.ReadUpload(r, "file", handler.maxUploadBytes)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "falha ao ler o arquivo enviado", err.Error())
		return
	}

	result, err := handler.service.ReconcileUpload(r.Context(), filename, data)
	handler.writeResult(w, result, err)
}

// ReconcileSheet godoc
// @Summary Apply a ledger kept in Google Sheets to the liquidated amounts of commitments
// @Tags Reconciliation
// @Accept json
// @Produce json
// @Param request body SheetRequestDTO true "Spreadsheet and range to read"
// @Success 200 {object} ResultDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 422 {object} rest.ErrorResponse
// @Failure 503 {object} rest.ErrorResponse
// @Router /api/commitment/reconcile/sheets [post]
func (handler *Handler) ReconcileSheet(w http.ResponseWriter, r *http.Request) {
	log.Debug("Reconciling commitments with a Google spreadsheet")
	var request SheetRequestDTO
	if !rest.DecodeAndValidate(w, r, &request) {
		return
	}

	result, err := handler.service.ReconcileSheet(r.Context(), request.SpreadsheetId, request.Range)
	handler.writeResult(w, result, err)
}

func (handler *Handler) writeResult(w http.ResponseWriter, result Result, err error) {
	switch {
	case errors.Is(err, importer.ErrInvalidFileType):
		rest.WriteError(w, http.StatusUnsupportedMediaType, err.Error(), "")
	case errors.Is(err, ErrUnreadableFeed):
		rest.WriteError(w, http.StatusBadRequest, ErrUnreadableFeed.Error(), err.Error())
	case errors.Is(err, ErrSheetsUnavailable):
		rest.WriteError(w, http.StatusServiceUnavailable, err.Error(), "")
	case err != nil:
		log.Errorf("reconciliation failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "falha ao processar", err.Error())
	case result.NothingUsable():
		rest.WriteError(w, http.StatusUnprocessableEntity, "nenhum dado utilizável encontrado no arquivo", "")
	default:
		rest.WriteJSON(w, http.StatusOK, ResultToDTO(result))
	}
}

func ResultToDTO(result Result) ResultDTO {
	return ResultDTO(result)
}
