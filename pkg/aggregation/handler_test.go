package aggregation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cristianoafs081993/love-execu-o/pkg/commitment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupHandlerTest(t *testing.T) (*Handler, func()) {
	teardown := setup(t)
	_, _ = activityRepo.Create(ctx, activity("GO", "F1", 1000))
	_, _ = activityRepo.Create(ctx, activity("EN", "F2", 200))
	_, _ = commitmentRepo.Create(ctx, committed("GO", "F1", 400, commitment.StatusPending))
	return NewHandler(service, NewCsvRenderer(), NewXlsxRenderer()), teardown
}

func TestHandler_GetDashboard(t *testing.T) {
	handler, teardown := setupHandlerTest(t)
	defer teardown()

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?dimension=GO", nil)
	w := httptest.NewRecorder()
	handler.GetDashboard(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var dto DashboardDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, 1000.0, dto.Totals.Planned)
	assert.Equal(t, 40.0, dto.Totals.ExecutionPercentage)
	require.Len(t, dto.Summary, 1)
	assert.Equal(t, 600.0, dto.Summary[0].Balance)
	assert.Equal(t, "jan/24", dto.MonthlySeries[0].Label)
	assert.Equal(t, 1, dto.MonthlySeries[0].Month)
}

func TestHandler_InvalidFilter(t *testing.T) {
	handler, teardown := setupHandlerTest(t)
	defer teardown()

	for _, target := range []string{"/api/dashboard/totals?from=01/01/2024", "/api/dashboard/components?n=0"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		if strings.Contains(target, "components") {
			handler.GetComponents(w, req)
		} else {
			handler.GetTotals(w, req)
		}
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestHandler_GetComponents_Limit(t *testing.T) {
	handler, teardown := setupHandlerTest(t)
	defer teardown()

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/components?n=1", nil)
	w := httptest.NewRecorder()
	handler.GetComponents(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var dtos []ComponentSummaryDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dtos))
	require.Len(t, dtos, 1)
	assert.Equal(t, NotInformed, dtos[0].Component)
	assert.Equal(t, 1200.0, dtos[0].Planned)
}

func TestHandler_GetOriginsAndFunnel(t *testing.T) {
	handler, teardown := setupHandlerTest(t)
	defer teardown()

	w := httptest.NewRecorder()
	handler.GetOrigins(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/origins", nil))
	var origins []OriginSummaryDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&origins))
	require.Len(t, origins, 2)
	assert.Equal(t, "F1", origins[0].ResourceOrigin)

	w = httptest.NewRecorder()
	handler.GetFunnel(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/funnel", nil))
	var funnel []FunnelStageDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&funnel))
	assert.Equal(t, []FunnelStageDTO{{StagePlanned, 1200}, {StageCommitted, 400}, {StageLiquidated, 0}, {StagePaid, 0}}, funnel)
}

func TestHandler_Exports(t *testing.T) {
	handler, teardown := setupHandlerTest(t)
	defer teardown()

	t.Run("csv", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ExportCsv(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/export.csv", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=painel.csv", w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Body.String(), "Planejado;1.200,00")
	})

	t.Run("xlsx", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ExportXlsx(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/export.xlsx", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		planned, err := f.GetCellValue("Totais", "B2")
		require.NoError(t, err)
		assert.Equal(t, "1200", planned)
	})
}
