package handler

import (
	"net/http"

	"github.com/templui/balancewheel/internal/ctxkeys"
	"github.com/templui/balancewheel/internal/service"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Send emails the progress report for ?at= (default today) to the caller.
func (h *ReportHandler) Send(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	now, err := referenceTime(r, "at")
	if err != nil {
		writeServiceError(w, r, err, "failed to send report")
		return
	}

	report, err := h.reportService.Send(r.Context(), user, now)
	if err != nil {
		writeServiceError(w, r, err, "failed to send report")
		return
	}
	writeJSON(w, http.StatusAccepted, report)
}
