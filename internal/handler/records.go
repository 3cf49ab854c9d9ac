package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aiowing/aiowing/internal/auth"
	"github.com/aiowing/aiowing/internal/handler/dto"
	"github.com/aiowing/aiowing/internal/model"
	"github.com/aiowing/aiowing/internal/service"
	"github.com/aiowing/aiowing/internal/view"
)

// RecordManager is the record service as the records screen uses it.
type RecordManager interface {
	Page(ctx context.Context, page int) *service.RecordPage
	Create(ctx context.Context, rec *model.Record) error
	Update(ctx context.Context, rec *model.Record) error
	Delete(ctx context.Context, id string) error
}

// RecordsHandler serves the records screen.
type RecordsHandler struct {
	records RecordManager
	views   *view.Renderer
	logger  *slog.Logger
}

// NewRecordsHandler creates a new RecordsHandler.
func NewRecordsHandler(records RecordManager, views *view.Renderer, logger *slog.Logger) *RecordsHandler {
	return &RecordsHandler{
		records: records,
		views:   views,
		logger:  logger,
	}
}

// RecordsPage handles GET /admin/records?page={n}.
func (h *RecordsHandler) RecordsPage(w http.ResponseWriter, r *http.Request) {
	page := h.records.Page(r.Context(), dto.ParsePage(r.URL.Query()))

	writeHTML(w)
	data := view.RecordsData{
		CurrentUser: auth.UserFromContext(r.Context()),
		RecordPage:  page,
	}
	if err := h.views.Records(w, data); err != nil {
		h.logger.Error("failed to render records page", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// RecordsCommand handles POST /admin/records. It runs at most one of
// create, update or delete and answers with a status tag and, on success,
// the refreshed record list.
func (h *RecordsHandler) RecordsCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("unreadable records form", slog.String("error", err.Error()))
		h.writeResult(w, dto.StatusNotCommand, "")
		return
	}

	form := dto.ParseRecordForm(r.PostForm)
	cmd := form.Command()

	var err error
	switch cmd {
	case dto.CommandCreate:
		err = h.records.Create(r.Context(), form.Record())
	case dto.CommandUpdate:
		err = h.records.Update(r.Context(), form.Record())
	case dto.CommandDelete:
		err = h.records.Delete(r.Context(), form.UID)
	default:
		h.writeResult(w, dto.StatusNotCommand, "")
		return
	}

	if err != nil {
		h.writeResult(w, cmd.FailureStatus(), "")
		return
	}

	page := h.records.Page(r.Context(), form.Page)
	list, err := h.views.RecordList(view.RecordsData{
		CurrentUser: auth.UserFromContext(r.Context()),
		RecordPage:  page,
	})
	if err != nil {
		h.logger.Error("failed to render record list",
			slog.String("command", cmd.String()),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeResult(w, cmd.SuccessStatus(), list)
}

func (h *RecordsHandler) writeResult(w http.ResponseWriter, status, list string) {
	writeJSON(w, http.StatusOK, dto.RecordCommandResponse{
		Status:     status,
		RecordList: list,
	})
}
