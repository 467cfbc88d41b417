package handler

import (
	"net/http"
	"time"

	"github.com/templui/balancewheel/internal/ctxkeys"
	"github.com/templui/balancewheel/internal/period"
	"github.com/templui/balancewheel/internal/progress"
	"github.com/templui/balancewheel/internal/service"
)

// distributionResponse is a distribution plus the hierarchy error that
// emptied it, if any. Clients render the zero state instead of failing.
type distributionResponse struct {
	progress.Distribution
	Error string `json:"error,omitempty"`
}

func newDistributionResponse(dist progress.Distribution, err error) distributionResponse {
	resp := distributionResponse{Distribution: dist}
	if err != nil {
		resp.Distribution = progress.Empty()
		resp.Error = err.Error()
	}
	return resp
}

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) Progress(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	p, err := period.ParsePeriod(r.PathValue("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	now, err := referenceTime(r, "at")
	if err != nil {
		writeServiceError(w, r, err, "failed to compute progress")
		return
	}

	dist, err := h.progressService.Progress(r.Context(), user.ID, p, now)
	if err != nil && !isHierarchyError(err) {
		writeServiceError(w, r, err, "failed to compute progress")
		return
	}
	writeJSON(w, http.StatusOK, newDistributionResponse(dist, err))
}

type breakdownResponse[T any] struct {
	Items []T    `json:"items"`
	Error string `json:"error,omitempty"`
}

// breakdown serves one of the per-day or per-month views. Hierarchy errors
// produce an empty list with the error attached.
func breakdown[T any](h *ProgressHandler, w http.ResponseWriter, r *http.Request, load func(userID string, now time.Time) ([]T, error)) {
	user := ctxkeys.User(r.Context())

	now, err := referenceTime(r, "at")
	if err != nil {
		writeServiceError(w, r, err, "failed to compute breakdown")
		return
	}

	items, err := load(user.ID, now)
	resp := breakdownResponse[T]{Items: nonNil(items)}
	switch {
	case isHierarchyError(err):
		resp.Items = []T{}
		resp.Error = err.Error()
	case err != nil:
		writeServiceError(w, r, err, "failed to compute breakdown")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ProgressHandler) WeekDays(w http.ResponseWriter, r *http.Request) {
	breakdown(h, w, r, func(userID string, now time.Time) ([]progress.DayBreakdown, error) {
		return h.progressService.WeeklyBreakdown(r.Context(), userID, now)
	})
}

func (h *ProgressHandler) MonthCalendar(w http.ResponseWriter, r *http.Request) {
	breakdown(h, w, r, func(userID string, now time.Time) ([]progress.CalendarDay, error) {
		return h.progressService.MonthlyCalendar(r.Context(), userID, now)
	})
}

func (h *ProgressHandler) YearMonths(w http.ResponseWriter, r *http.Request) {
	breakdown(h, w, r, func(userID string, now time.Time) ([]progress.MonthBreakdown, error) {
		return h.progressService.YearlyBreakdown(r.Context(), userID, now)
	})
}

type overviewResponse struct {
	Date    string                                  `json:"date"`
	Periods map[period.Period]progress.Distribution `json:"periods"`
	Error   string                                  `json:"error,omitempty"`
}

func (h *ProgressHandler) Overview(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	now, err := referenceTime(r, "at")
	if err != nil {
		writeServiceError(w, r, err, "failed to compute overview")
		return
	}

	overview, err := h.progressService.Overview(r.Context(), user.ID, now)
	switch {
	case isHierarchyError(err):
		resp := overviewResponse{
			Date:    now.Format(time.DateOnly),
			Periods: make(map[period.Period]progress.Distribution, len(period.All)),
			Error:   err.Error(),
		}
		for _, p := range period.All {
			resp.Periods[p] = progress.Empty()
		}
		writeJSON(w, http.StatusOK, resp)
	case err != nil:
		writeServiceError(w, r, err, "failed to compute overview")
	default:
		writeJSON(w, http.StatusOK, overviewResponse{Date: overview.Date, Periods: overview.Periods})
	}
}
