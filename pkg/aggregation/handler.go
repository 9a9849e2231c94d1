package aggregation

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cristianoafs081993/love-execu-o/internal/rest"
	log "github.com/sirupsen/logrus"
)

type TotalsDTO struct {
	Planned               float64 `json:"planned"`
	Committed             float64 `json:"committed"`
	Liquidated            float64 `json:"liquidated"`
	Paid                  float64 `json:"paid"`
	Balance               float64 `json:"balance"`
	ExecutionPercentage   float64 `json:"executionPercentage"`
	ActivityCount         int     `json:"activityCount"`
	ActiveCommitmentCount int     `json:"activeCommitmentCount"`
}

type BudgetSummaryDTO struct {
	Dimension           string  `json:"dimension"`
	ResourceOrigin      string  `json:"resourceOrigin"`
	Planned             float64 `json:"planned"`
	Committed           float64 `json:"committed"`
	Balance             float64 `json:"balance"`
	ExecutionPercentage float64 `json:"executionPercentage"`
}

type OriginSummaryDTO struct {
	ResourceOrigin      string  `json:"resourceOrigin"`
	Planned             float64 `json:"planned"`
	Committed           float64 `json:"committed"`
	Balance             float64 `json:"balance"`
	ExecutionPercentage float64 `json:"executionPercentage"`
}

type ComponentSummaryDTO struct {
	Component string  `json:"component"`
	Planned   float64 `json:"planned"`
	Committed float64 `json:"committed"`
}

type NatureSummaryDTO struct {
	Code      string  `json:"code"`
	Committed float64 `json:"committed"`
}

type MonthlyPointDTO struct {
	Label      string  `json:"label"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Committed  float64 `json:"committed"`
	Cumulative float64 `json:"cumulative"`
}

type FunnelStageDTO struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type DashboardDTO struct {
	Totals        TotalsDTO             `json:"totals"`
	Summary       []BudgetSummaryDTO    `json:"summary"`
	Origins       []OriginSummaryDTO    `json:"origins"`
	Components    []ComponentSummaryDTO `json:"components"`
	Natures       []NatureSummaryDTO    `json:"natures"`
	MonthlySeries []MonthlyPointDTO     `json:"monthlySeries"`
	Funnel        []FunnelStageDTO      `json:"funnel"`
}

var errInvalidFilter = errors.New("filtro inválido")

type Handler struct {
	service      Service
	csvRenderer  Renderer
	xlsxRenderer Renderer
}

func NewHandler(service Service, csvRenderer Renderer, xlsxRenderer Renderer) *Handler {
	return &Handler{service: service, csvRenderer: csvRenderer, xlsxRenderer: xlsxRenderer}
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s deve estar no formato AAAA-MM-DD", errInvalidFilter, name)
	}
	return date, nil
}

func parseFilter(r *http.Request) (Filter, error) {
	from, err := parseDateParam(r, "from")
	if err != nil {
		return Filter{}, err
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		return Filter{}, err
	}
	return Filter{
		Dimension:      r.URL.Query().Get("dimension"),
		ResourceOrigin: r.URL.Query().Get("origin"),
		From:           from,
		To:             to,
	}, nil
}

func parseLimit(r *http.Request, fallback int) (int, error) {
	value := r.URL.Query().Get("n")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: n deve ser um inteiro positivo", errInvalidFilter)
	}
	return n, nil
}

// filterOrFail writes a 400 and returns false when the query string is invalid.
func filterOrFail(w http.ResponseWriter, r *http.Request) (Filter, bool) {
	filter, err := parseFilter(r)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return Filter{}, false
	}
	return filter, true
}

func writeFailure(w http.ResponseWriter, err error) {
	log.Errorf("dashboard request failed: %v", err)
	rest.WriteError(w, http.StatusInternalServerError, "falha ao processar", err.Error())
}

// GetDashboard godoc
// @Summary Every dashboard view at once
// @Tags Dashboard
// @Produce json
// @Param dimension query string false "Dimension (substring)"
// @Param origin query string false "Resource origin"
// @Param from query string false "First date, YYYY-MM-DD"
// @Param to query string false "Last date, YYYY-MM-DD"
// @Success 200 {object} DashboardDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/dashboard [get]
func (handler *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting dashboard")
	filter, ok := filterOrFail(w, r)
	if !ok {
		return
	}
	dashboard, err := handler.service.Dashboard(r.Context(), filter)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, DashboardToDTO(dashboard))
}

// GetTotals godoc
// @Summary Planned, committed, liquidated and paid totals
// @Tags Dashboard
// @Produce json
// @Success 200 {object} TotalsDTO
// @Router /api/dashboard/totals [get]
func (handler *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterOrFail(w, r)
	if !ok {
		return
	}
	totals, err := handler.service.GetTotals(r.Context(), filter)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, totalsToDTO(totals))
}

// GetSummary godoc
// @Summary Budget summary per dimension and resource origin
// @Tags Dashboard
// @Produce json
// @Success 200 {array} BudgetSummaryDTO
// @Router /api/dashboard/summary [get]
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterOrFail(w, r)
	if !ok {
		return
	}
	summary, err := handler.service.GetSummaryByOriginAndDimension(r.Context(), filter)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, summaryToDTO(summary))
}

// GetOrigins godoc
// @Summary Budget summary per resource origin
// @Tags Dashboard
// @Produce json
// @Success 200 {array} OriginSummaryDTO
// @Router /api/dashboard/origins [get]
func (handler *Handler) GetOrigins(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterOrFail(w, r)
	if !ok {
		return
	}
	origins, err := handler.service.GetSummaryByOrigin(r.Context(), filter)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, originsToDTO(origins))
}

// GetComponents godoc
// @Summary Functional components with the largest planned amount
// @Tags Dashboard
// @Produce json
// @Param n query int false "How many components, 5 by default"
// @Success 200 {array} ComponentSummaryDTO
// @Router /api/dashboard/components [get]
func (handler *Handler) GetComponents(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterOrFail(w, r)
	if !ok {
		return
	}
	n, err := parseLimit(r, DefaultTopComponents)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	components, err := handler.service.GetTopComponents(r.Context(), filter, n)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, componentsToDTO(components))
}

// GetNatures godoc
// @Summary Expense natures with the largest committed amount
// @Tags Dashboard
// @Produce json
// @Param n query int false "How many natures, 10 by default"
// @Success 200 {array} NatureSummaryDTO
// @Router /api/dashboard/natures [get]
func (handler *Handler) GetNatures(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterOrFail(w, r)
	if !ok {
		return
	}
	n, err := parseLimit(r, DefaultTopExpenseNatures)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	natures, err := handler.service.GetTopExpenseNatures(r.Context(), filter, n)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, naturesToDTO(natures))
}

// GetMonthlySeries godoc
// @Summary Committed amount per month with running total
// @Tags Dashboard
// @Produce json
// @Success 200 {array} MonthlyPointDTO
// @Router /api/dashboard/monthly [get]
func (handler *Handler) GetMonthlySeries(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterOrFail(w, r)
	if !ok {
		return
	}
	series, err := handler.service.GetMonthlySeries(r.Context(), filter)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, monthlyToDTO(series))
}

// GetFunnel godoc
// @Summary Planned, committed, liquidated and paid as funnel stages
// @Tags Dashboard
// @Produce json
// @Success 200 {array} FunnelStageDTO
// @Router /api/dashboard/funnel [get]
func (handler *Handler) GetFunnel(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterOrFail(w, r)
	if !ok {
		return
	}
	funnel, err := handler.service.GetFunnel(r.Context(), filter)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, funnelToDTO(funnel))
}

// ExportCsv godoc
// @Summary Dashboard as a CSV download
// @Tags Dashboard
// @Produce text/csv
// @Success 200 {file} file
// @Router /api/dashboard/export.csv [get]
func (handler *Handler) ExportCsv(w http.ResponseWriter, r *http.Request) {
	handler.export(w, r, handler.csvRenderer)
}

// ExportXlsx godoc
// @Summary Dashboard as an Excel download
// @Tags Dashboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /api/dashboard/export.xlsx [get]
func (handler *Handler) ExportXlsx(w http.ResponseWriter, r *http.Request) {
	handler.export(w, r, handler.xlsxRenderer)
}

func (handler *Handler) export(w http.ResponseWriter, r *http.Request, renderer Renderer) {
	log.Debugf("Exporting dashboard as %s", renderer.Extension())
	filter, ok := filterOrFail(w, r)
	if !ok {
		return
	}
	dashboard, err := handler.service.Dashboard(r.Context(), filter)
	if err != nil {
		writeFailure(w, err)
		return
	}
	content, err := renderer.Render(dashboard)
	if err != nil {
		writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename=painel"+renderer.Extension())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		log.Errorf("failed to write export: %v", err)
	}
}

func totalsToDTO(t Totals) TotalsDTO {
	return TotalsDTO{
		Planned:               t.Planned,
		Committed:             t.Committed,
		Liquidated:            t.Liquidated,
		Paid:                  t.Paid,
		Balance:               t.Balance,
		ExecutionPercentage:   t.ExecutionPercentage,
		ActivityCount:         t.ActivityCount,
		ActiveCommitmentCount: t.ActiveCommitmentCount,
	}
}

func summaryToDTO(summary []BudgetSummary) []BudgetSummaryDTO {
	dtos := make([]BudgetSummaryDTO, 0, len(summary))
	for _, s := range summary {
		dtos = append(dtos, BudgetSummaryDTO(s))
	}
	return dtos
}

func originsToDTO(origins []OriginSummary) []OriginSummaryDTO {
	dtos := make([]OriginSummaryDTO, 0, len(origins))
	for _, o := range origins {
		dtos = append(dtos, OriginSummaryDTO(o))
	}
	return dtos
}

func componentsToDTO(components []ComponentSummary) []ComponentSummaryDTO {
	dtos := make([]ComponentSummaryDTO, 0, len(components))
	for _, c := range components {
		dtos = append(dtos, ComponentSummaryDTO(c))
	}
	return dtos
}

func naturesToDTO(natures []NatureSummary) []NatureSummaryDTO {
	dtos := make([]NatureSummaryDTO, 0, len(natures))
	for _, n := range natures {
		dtos = append(dtos, NatureSummaryDTO(n))
	}
	return dtos
}

func monthlyToDTO(series []MonthlyPoint) []MonthlyPointDTO {
	dtos := make([]MonthlyPointDTO, 0, len(series))
	for _, p := range series {
		dtos = append(dtos, MonthlyPointDTO{
			Label:      p.Label,
			Year:       p.Year,
			Month:      int(p.Month),
			Committed:  p.Committed,
			Cumulative: p.Cumulative,
		})
	}
	return dtos
}

func funnelToDTO(funnel []FunnelStage) []FunnelStageDTO {
	dtos := make([]FunnelStageDTO, 0, len(funnel))
	for _, stage := range funnel {
		dtos = append(dtos, FunnelStageDTO(stage))
	}
	return dtos
}

func DashboardToDTO(d Dashboard) DashboardDTO {
	return DashboardDTO{
		Totals:        totalsToDTO(d.Totals),
		Summary:       summaryToDTO(d.Summary),
		Origins:       originsToDTO(d.Origins),
		Components:    componentsToDTO(d.Components),
		Natures:       naturesToDTO(d.Natures),
		MonthlySeries: monthlyToDTO(d.MonthlySeries),
		Funnel:        funnelToDTO(d.Funnel),
	}
}
