package import_history

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cristianoafs081993/love-execu-o/internal/rest"
	log "github.com/sirupsen/logrus"
)

const maxLimit = 200

type EntryDTO struct {
	Id         int64     `json:"id"`
	Kind       string    `json:"kind"`
	Filename   string    `json:"filename"`
	Status     string    `json:"status"`
	Accepted   int       `json:"accepted"`
	Skipped    int       `json:"skipped"`
	Unmatched  int       `json:"unmatched"`
	Ambiguous  int       `json:"ambiguous"`
	Message    string    `json:"message,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetHistory godoc
// @Summary List the latest imports and reconciliations
// @Tags ImportHistory
// @Produce json
// @Param limit query int false "Number of entries, 20 by default"
// @Success 200 {array} EntryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/import/history [get]
func (handler *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting import history")
	limit := DefaultLimit
	if text := r.URL.Query().Get("limit"); text != "" {
		parsed, err := strconv.Atoi(text)
		if err != nil || parsed < 1 || parsed > maxLimit {
			rest.WriteError(w, http.StatusBadRequest, "limite inválido", "limit must be between 1 and 200")
			return
		}
		limit = parsed
	}

	entries, err := handler.service.GetLatest(r.Context(), limit)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "falha ao processar", err.Error())
		return
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, EntryToDTO(entry))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func EntryToDTO(entry Entry) EntryDTO {
	return EntryDTO{
		Id:         entry.Id,
		Kind:       entry.Kind,
		Filename:   entry.Filename,
		Status:     string(entry.Status),
		Accepted:   entry.Accepted,
		Skipped:    entry.Skipped,
		Unmatched:  entry.Unmatched,
		Ambiguous:  entry.Ambiguous,
		Message:    entry.Message,
		OccurredAt: entry.OccurredAt,
	}
}
