package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiowing/aiowing/internal/metrics"
	"github.com/aiowing/aiowing/internal/model"
	"github.com/aiowing/aiowing/internal/repository"
	"github.com/aiowing/aiowing/internal/testutil"
)

// memoryRecordStore is an in-memory RecordStore enforcing unique names.
type memoryRecordStore struct {
	mu       sync.Mutex
	records  []*model.Record
	countErr error
	listErr  error
	writeErr error
	writes   int
}

func (m *memoryRecordStore) CountRecords(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.records), nil
}

func (m *memoryRecordStore) ListRecords(ctx context.Context, limit, offset int) ([]*model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	if offset >= len(m.records) {
		return []*model.Record{}, nil
	}
	end := offset + limit
	if end > len(m.records) {
		end = len(m.records)
	}
	return append([]*model.Record(nil), m.records[offset:end]...), nil
}

func (m *memoryRecordStore) CreateRecord(ctx context.Context, rec *model.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	for _, existing := range m.records {
		if existing.Name == rec.Name {
			return repository.ErrRecordNameExists
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryRecordStore) UpdateRecord(ctx context.Context, rec *model.Record) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	for _, existing := range m.records {
		if existing.Name == rec.Name && existing.ID != rec.ID {
			return 0, repository.ErrRecordNameExists
		}
	}
	for i, existing := range m.records {
		if existing.ID == rec.ID {
			m.records[i] = rec
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memoryRecordStore) DeleteRecord(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	for i, existing := range m.records {
		if existing.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func newTestRecordService(store RecordStore, perPage int) (*RecordService, *metrics.InMemoryRecorder) {
	rec := metrics.NewInMemory()
	return NewRecordService(store, perPage, rec, testutil.DiscardLogger()), rec
}

func seedRecords(t *testing.T, store *memoryRecordStore, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, store.CreateRecord(context.Background(), model.NewRecord(fmt.Sprintf("record-%02d", i))))
	}
	store.writes = 0
}

func TestRecordService_PageEmpty(t *testing.T) {
	t.Parallel()

	svc, _ := newTestRecordService(&memoryRecordStore{}, 10)
	page := svc.Page(context.Background(), 1)

	assert.Equal(t, 0, page.Count)
	assert.Equal(t, 1, page.PageCount)
	assert.Equal(t, NoPage, page.PrevPage)
	assert.Equal(t, NoPage, page.NextPage)
	assert.NotNil(t, page.Records)
	assert.Empty(t, page.Records)
}

func TestRecordService_PageClampsAndSlices(t *testing.T) {
	t.Parallel()

	store := &memoryRecordStore{}
	seedRecords(t, store, 25)
	svc, _ := newTestRecordService(store, 10)

	page := svc.Page(context.Background(), 5)

	assert.Equal(t, 25, page.Count)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 3, page.PageCount)
	assert.Equal(t, 2, page.PrevPage)
	assert.Equal(t, NoPage, page.NextPage)
	require.Len(t, page.Records, 5)
	assert.Equal(t, "record-20", page.Records[0].Name)
}

func TestRecordService_PageDegradesOnCountError(t *testing.T) {
	t.Parallel()

	store := &memoryRecordStore{countErr: errors.New("connection refused")}
	seedRecords(t, store, 3)
	store.listErr = errors.New("connection refused")
	svc, rec := newTestRecordService(store, 10)

	page := svc.Page(context.Background(), 2)

	assert.Equal(t, 0, page.Count)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.PageCount)
	assert.Empty(t, page.Records)
	assert.Equal(t, uint64(1), rec.Snapshot().ListingsDegraded)
}

func TestRecordService_PageDegradesOnListError(t *testing.T) {
	t.Parallel()

	store := &memoryRecordStore{}
	seedRecords(t, store, 3)
	store.listErr = errors.New("relation \"records\" does not exist")
	svc, _ := newTestRecordService(store, 10)

	page := svc.Page(context.Background(), 1)

	assert.Equal(t, 3, page.Count)
	assert.NotNil(t, page.Records)
	assert.Empty(t, page.Records)
}

func TestRecordService_Create(t *testing.T) {
	t.Parallel()

	store := &memoryRecordStore{}
	svc, rec := newTestRecordService(store, 10)

	record := model.NewRecord("  Widget  ")
	require.NoError(t, svc.Create(context.Background(), record))

	assert.Equal(t, "Widget", record.Name)
	require.Len(t, store.records, 1)
	assert.Equal(t, uint64(1), rec.Snapshot().RecordsCreated)
}

func TestRecordService_CreateIgnoresCallerID(t *testing.T) {
	t.Parallel()

	store := &memoryRecordStore{}
	svc, _ := newTestRecordService(store, 10)

	record := model.NewRecord("Widget")
	record.ID = "not-a-uuid"
	require.NoError(t, svc.Create(context.Background(), record))

	require.Len(t, store.records, 1)
	assert.NotEqual(t, "not-a-uuid", store.records[0].ID)
	_, err := uuid.Parse(store.records[0].ID)
	assert.NoError(t, err)
}

func TestRecordService_CreateRejectsEmptyNameWithoutStore(t *testing.T) {
	t.Parallel()

	store := &memoryRecordStore{}
	svc, _ := newTestRecordService(store, 10)

	err := svc.Create(context.Background(), model.NewRecord("   "))

	assert.ErrorIs(t, err, model.ErrNameRequired)
	assert.Zero(t, store.writes, "validation failure must not reach the store")
}

func TestRecordService_CreateRejectsLongName(t *testing.T) {
	t.Parallel()

	store := &memoryRecordStore{}
	svc, _ := newTestRecordService(store, 10)

	err := svc.Create(context.Background(), model.NewRecord(strings.Repeat("x", model.MaxRecordNameLength+1)))

	assert.ErrorIs(t, err, model.ErrNameTooLong)
	assert.Zero(t, store.writes)
}

func TestRecordService_CreateDuplicate(t *testing.T) {
	t.Parallel()

	store := &memoryRecordStore{}
	seedRecords(t, store, 1)
	svc, rec := newTestRecordService(store, 10)

	err := svc.Create(context.Background(), model.NewRecord("record-00"))

	assert.ErrorIs(t, err, repository.ErrRecordNameExists)
	assert.Len(t, store.records, 1)
	assert.Equal(t, uint64(1), rec.Snapshot().RecordWriteFailed["create"])
}

func TestRecordService_UpdateExisting(t *testing.T) {
	t.Parallel()

	store := &memoryRecordStore{}
	seedRecords(t, store, 1)
	svc, rec := newTestRecordService(store, 10)

	existing := store.records[0]
	desc := "changed"
	updated := &model.Record{ID: existing.ID, Active: true, Name: "renamed", Description: &desc}

	require.NoError(t, svc.Update(context.Background(), updated))
	assert.Equal(t, "renamed", store.records[0].Name)
	assert.Equal(t, uint64(1), rec.Snapshot().RecordsUpdated)
}

func TestRecordService_UpdateMissingIsNoop(t *testing.T) {
	t.Parallel()

	store := &memoryRecordStore{}
	svc, rec := newTestRecordService(store, 10)

	err := svc.Update(context.Background(), &model.Record{ID: uuid.NewString(), Active: true, Name: "ghost"})

	require.NoError(t, err)
	snap := rec.Snapshot()
	assert.Equal(t, uint64(1), snap.RecordWriteNoop["update"])
	assert.Zero(t, snap.RecordsUpdated)
}

func TestRecordService_UpdateInvalidID(t *testing.T) {
	t.Parallel()

	store := &memoryRecordStore{}
	svc, _ := newTestRecordService(store, 10)

	err := svc.Update(context.Background(), &model.Record{ID: "not-a-uuid", Active: true, Name: "x"})

	assert.ErrorIs(t, err, ErrInvalidRecordID)
	assert.Zero(t, store.writes)
}

func TestRecordService_UpdateStoreError(t *testing.T) {
	t.Parallel()

	store := &memoryRecordStore{writeErr: errors.New("connection reset")}
	svc, rec := newTestRecordService(store, 10)

	err := svc.Update(context.Background(), &model.Record{ID: uuid.NewString(), Active: true, Name: "x"})

	assert.Error(t, err)
	assert.Equal(t, uint64(1), rec.Snapshot().RecordWriteFailed["update"])
}

func TestRecordService_Delete(t *testing.T) {
	t.Parallel()

	store := &memoryRecordStore{}
	seedRecords(t, store, 2)
	svc, rec := newTestRecordService(store, 10)

	target := store.records[0].ID
	require.NoError(t, svc.Delete(context.Background(), target))

	page := svc.Page(context.Background(), 1)
	require.Len(t, page.Records, 1)
	assert.NotEqual(t, target, page.Records[0].ID)
	assert.Equal(t, uint64(1), rec.Snapshot().RecordsDeleted)
}

func TestRecordService_DeleteMissingIsNoop(t *testing.T) {
	t.Parallel()

	svc, rec := newTestRecordService(&memoryRecordStore{}, 10)

	require.NoError(t, svc.Delete(context.Background(), uuid.NewString()))
	assert.Equal(t, uint64(1), rec.Snapshot().RecordWriteNoop["delete"])
}

func TestRecordService_DeleteInvalidID(t *testing.T) {
	t.Parallel()

	svc, _ := newTestRecordService(&memoryRecordStore{}, 10)

	assert.ErrorIs(t, svc.Delete(context.Background(), ""), ErrInvalidRecordID)
}
