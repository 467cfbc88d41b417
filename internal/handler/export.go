package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/templui/balancewheel/internal/ctxkeys"
	"github.com/templui/balancewheel/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Export downloads the caller's whole goal tree as JSON.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	now := time.Now()

	tree, err := h.exportService.Export(r.Context(), user.ID, now)
	if err != nil {
		writeServiceError(w, r, err, "failed to export goals")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=goals-%s.json", now.UTC().Format(time.DateOnly)))
	writeJSON(w, http.StatusOK, tree)
}

// Snapshot stores the export in object storage and returns a download link.
func (h *ExportHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	snapshot, err := h.exportService.Snapshot(r.Context(), user.ID, time.Now())
	if err != nil {
		writeServiceError(w, r, err, "failed to write export snapshot")
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}
