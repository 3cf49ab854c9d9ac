package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiowing/aiowing/internal/auth"
	"github.com/aiowing/aiowing/internal/handler/dto"
	"github.com/aiowing/aiowing/internal/model"
	"github.com/aiowing/aiowing/internal/repository"
	"github.com/aiowing/aiowing/internal/service"
	"github.com/aiowing/aiowing/internal/testutil"
	"github.com/aiowing/aiowing/internal/view"
)

// memoryRecords is an in-memory record store with a unique name column.
type memoryRecords struct {
	rows []*model.Record
}

func (m *memoryRecords) CountRecords(ctx context.Context) (int, error) {
	return len(m.rows), nil
}

func (m *memoryRecords) ListRecords(ctx context.Context, limit, offset int) ([]*model.Record, error) {
	if offset >= len(m.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.rows) {
		end = len(m.rows)
	}
	return m.rows[offset:end], nil
}

func (m *memoryRecords) CreateRecord(ctx context.Context, rec *model.Record) error {
	for _, row := range m.rows {
		if row.Name == rec.Name {
			return repository.ErrRecordNameExists
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.UpdatedAt = time.Now()
	m.rows = append(m.rows, rec)
	return nil
}

func (m *memoryRecords) UpdateRecord(ctx context.Context, rec *model.Record) (int64, error) {
	for _, row := range m.rows {
		if row.Name == rec.Name && row.ID != rec.ID {
			return 0, repository.ErrRecordNameExists
		}
	}
	for i, row := range m.rows {
		if row.ID == rec.ID {
			m.rows[i] = rec
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memoryRecords) DeleteRecord(ctx context.Context, id string) (int64, error) {
	for i, row := range m.rows {
		if row.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func newTestRecordsHandler(store *memoryRecords) *RecordsHandler {
	svc := service.NewRecordService(store, 10, nil, testutil.DiscardLogger())
	return NewRecordsHandler(svc, mustRenderer(), testutil.DiscardLogger())
}

func mustRenderer() *view.Renderer {
	r, err := view.New()
	if err != nil {
		panic(err)
	}
	return r
}

func postRecords(t *testing.T, h *RecordsHandler, form url.Values) dto.RecordCommandResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, RecordsPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(auth.ContextWithUser(req.Context(), &model.User{Email: "admin@example.com"}))
	rec := httptest.NewRecorder()

	h.RecordsCommand(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp dto.RecordCommandResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRecordsHandler_RecordsPage(t *testing.T) {
	store := &memoryRecords{}
	for _, name := range []string{"alpha", "beta"} {
		require.NoError(t, store.CreateRecord(context.Background(), model.NewRecord(name)))
	}
	h := newTestRecordsHandler(store)

	req := httptest.NewRequest(http.MethodGet, RecordsPath+"?page=abc", nil)
	req = req.WithContext(auth.ContextWithUser(req.Context(), &model.User{Email: "admin@example.com"}))
	rec := httptest.NewRecorder()

	h.RecordsPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "admin@example.com")
	assert.Contains(t, body, `value="alpha"`)
	assert.Contains(t, body, `value="beta"`)
	assert.Contains(t, body, "Page 1 of 1")
}

func TestRecordsHandler_CreateOnEmptyTable(t *testing.T) {
	store := &memoryRecords{}
	h := newTestRecordsHandler(store)

	resp := postRecords(t, h, url.Values{"create": {"1"}, "active": {"on"}, "name": {"Widget"}})

	assert.Equal(t, dto.StatusCreate, resp.Status)
	require.Len(t, store.rows, 1)
	assert.True(t, store.rows[0].Active)
	assert.Equal(t, "Widget", store.rows[0].Name)
	assert.Contains(t, resp.RecordList, `value="Widget"`)
	assert.Contains(t, resp.RecordList, "1 record")
}

func TestRecordsHandler_CreateWithUIDMakesNewRow(t *testing.T) {
	store := &memoryRecords{}
	h := newTestRecordsHandler(store)
	postRecords(t, h, url.Values{"create": {"1"}, "active": {"on"}, "name": {"Widget"}})
	existing := store.rows[0].ID

	for _, uid := range []string{existing, "not-a-uuid"} {
		resp := postRecords(t, h, url.Values{
			"create": {"1"}, "update": {"1"}, "uid": {uid},
			"active": {"on"}, "name": {"Gadget " + uid},
		})
		assert.Equal(t, dto.StatusCreate, resp.Status, "uid %q", uid)
	}

	require.Len(t, store.rows, 3)
	assert.Equal(t, "Widget", store.rows[0].Name)
	for _, row := range store.rows[1:] {
		assert.NotEqual(t, existing, row.ID)
		_, err := uuid.Parse(row.ID)
		assert.NoError(t, err)
	}
}

func TestRecordsHandler_CreateDuplicate(t *testing.T) {
	store := &memoryRecords{}
	h := newTestRecordsHandler(store)
	postRecords(t, h, url.Values{"create": {"1"}, "active": {"on"}, "name": {"Widget"}})

	resp := postRecords(t, h, url.Values{"create": {"1"}, "active": {"on"}, "name": {"Widget"}})

	assert.Equal(t, dto.StatusNotCreated, resp.Status)
	assert.Empty(t, resp.RecordList)
	assert.Len(t, store.rows, 1)
}

func TestRecordsHandler_CreateTooLong(t *testing.T) {
	store := &memoryRecords{}
	h := newTestRecordsHandler(store)

	resp := postRecords(t, h, url.Values{"create": {"1"}, "active": {"on"}, "name": {strings.Repeat("n", 257)}})

	assert.Equal(t, dto.StatusNotCreated, resp.Status)
	assert.Empty(t, store.rows)
}

func TestRecordsHandler_NotCommand(t *testing.T) {
	store := &memoryRecords{}
	h := newTestRecordsHandler(store)

	tests := []url.Values{
		{},
		{"create": {"1"}, "name": {"no-active"}},
		{"create": {"1"}, "active": {"on"}, "name": {"   "}},
		{"delete": {"1"}},
	}
	for _, form := range tests {
		resp := postRecords(t, h, form)
		assert.Equal(t, dto.StatusNotCommand, resp.Status, "form %v", form)
		assert.Empty(t, resp.RecordList)
	}
	assert.Empty(t, store.rows)
}

func TestRecordsHandler_UpdateAndDelete(t *testing.T) {
	store := &memoryRecords{}
	h := newTestRecordsHandler(store)
	postRecords(t, h, url.Values{"create": {"1"}, "active": {"on"}, "name": {"Widget"}})
	postRecords(t, h, url.Values{"create": {"1"}, "active": {"on"}, "name": {"Gadget"}})
	widgetID := store.rows[0].ID

	resp := postRecords(t, h, url.Values{
		"update": {"1"}, "uid": {widgetID}, "active": {"on"},
		"name": {"Widget 2"}, "description": {"shiny"},
	})
	assert.Equal(t, dto.StatusUpdate, resp.Status)
	assert.Contains(t, resp.RecordList, `value="Widget 2"`)
	assert.Equal(t, "shiny", store.rows[0].DescriptionText())

	resp = postRecords(t, h, url.Values{"update": {"1"}, "uid": {widgetID}, "active": {"on"}, "name": {"Gadget"}})
	assert.Equal(t, dto.StatusNotUpdated, resp.Status)
	assert.Empty(t, resp.RecordList)

	resp = postRecords(t, h, url.Values{"update": {"1"}, "uid": {uuid.NewString()}, "active": {"on"}, "name": {"ghost"}})
	assert.Equal(t, dto.StatusUpdate, resp.Status, "zero-row update still reports update")

	resp = postRecords(t, h, url.Values{"update": {"1"}, "uid": {"not-a-uuid"}, "active": {"on"}, "name": {"x"}})
	assert.Equal(t, dto.StatusNotUpdated, resp.Status)

	resp = postRecords(t, h, url.Values{"delete": {"1"}, "uid": {widgetID}})
	assert.Equal(t, dto.StatusDelete, resp.Status)
	require.Len(t, store.rows, 1)
	assert.Equal(t, "Gadget", store.rows[0].Name)
	assert.NotContains(t, resp.RecordList, "Widget 2")

	resp = postRecords(t, h, url.Values{"delete": {"1"}, "uid": {"not-a-uuid"}})
	assert.Equal(t, dto.StatusNotDeleted, resp.Status)
}

func TestRecordsHandler_RefreshUsesPostedPage(t *testing.T) {
	store := &memoryRecords{}
	h := newTestRecordsHandler(store)
	for i := 0; i < 11; i++ {
		require.NoError(t, store.CreateRecord(context.Background(), model.NewRecord(uuid.NewString())))
	}

	resp := postRecords(t, h, url.Values{"create": {"1"}, "active": {"on"}, "name": {"twelfth"}, "page": {"2"}})

	assert.Equal(t, dto.StatusCreate, resp.Status)
	assert.Contains(t, resp.RecordList, "Page 2 of 2")
	assert.Contains(t, resp.RecordList, `value="twelfth"`)
}
