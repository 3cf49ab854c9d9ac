// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aiowing/aiowing/internal/metrics"
	"github.com/aiowing/aiowing/internal/model"
	"github.com/aiowing/aiowing/internal/repository"
)

// Service errors.
var (
	ErrInvalidRecordID = errors.New("invalid record id")
)

// RecordStore is the persistence the record service needs.
type RecordStore interface {
	CountRecords(ctx context.Context) (int, error)
	ListRecords(ctx context.Context, limit, offset int) ([]*model.Record, error)
	CreateRecord(ctx context.Context, rec *model.Record) error
	UpdateRecord(ctx context.Context, rec *model.Record) (int64, error)
	DeleteRecord(ctx context.Context, id string) (int64, error)
}

// RecordPage is one page of the records screen.
type RecordPage struct {
	Window
	Count   int
	Records []*model.Record
}

// RecordService handles record business logic.
type RecordService struct {
	store   RecordStore
	perPage int
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewRecordService creates a new RecordService.
func NewRecordService(store RecordStore, perPage int, recorder metrics.Recorder, logger *slog.Logger) *RecordService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if perPage < 1 {
		perPage = 1
	}
	return &RecordService{
		store:   store,
		perPage: perPage,
		metrics: recorder,
		logger:  logger,
	}
}

// Page loads the requested page. Database failures degrade the page to a
// zero count and an empty list instead of failing the request.
func (s *RecordService) Page(ctx context.Context, page int) *RecordPage {
	degraded := false

	count, err := s.store.CountRecords(ctx)
	if err != nil {
		s.logger.Error("failed to count records", slog.String("error", err.Error()))
		count = 0
		degraded = true
	}

	window := Paginate(count, s.perPage, page)

	records, err := s.store.ListRecords(ctx, s.perPage, window.Offset(s.perPage))
	if err != nil {
		s.logger.Error("failed to list records",
			slog.String("error", err.Error()),
			slog.Int("page", window.Page),
		)
		records = nil
		degraded = true
	}

	if degraded {
		s.metrics.IncListingDegraded()
	}
	if records == nil {
		records = []*model.Record{}
	}

	return &RecordPage{
		Window:  window,
		Count:   count,
		Records: records,
	}
}

// Create validates and inserts a record. Any ID on rec is discarded so the
// store always assigns a fresh one.
func (s *RecordService) Create(ctx context.Context, rec *model.Record) error {
	rec.ID = ""
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return err
	}

	if err := s.store.CreateRecord(ctx, rec); err != nil {
		s.writeFailed(ctx, "create", rec.ID, err)
		return err
	}

	s.metrics.IncRecordCreated()
	s.logger.Info("record created", slog.String("record_id", rec.ID))
	return nil
}

// Update validates and overwrites a record. Updating an ID that matches no
// row is not an error; it is logged and counted as a no-op.
func (s *RecordService) Update(ctx context.Context, rec *model.Record) error {
	if err := validateRecordID(rec.ID); err != nil {
		return err
	}
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return err
	}

	affected, err := s.store.UpdateRecord(ctx, rec)
	if err != nil {
		s.writeFailed(ctx, "update", rec.ID, err)
		return err
	}

	if affected == 0 {
		s.metrics.IncRecordWriteNoop("update")
		s.logger.Warn("record update matched no rows", slog.String("record_id", rec.ID))
		return nil
	}

	s.metrics.IncRecordUpdated()
	s.logger.Info("record updated", slog.String("record_id", rec.ID))
	return nil
}

// Delete removes a record. Deleting an ID that matches no row is not an
// error; it is logged and counted as a no-op.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	if err := validateRecordID(id); err != nil {
		return err
	}

	affected, err := s.store.DeleteRecord(ctx, id)
	if err != nil {
		s.writeFailed(ctx, "delete", id, err)
		return err
	}

	if affected == 0 {
		s.metrics.IncRecordWriteNoop("delete")
		s.logger.Warn("record delete matched no rows", slog.String("record_id", id))
		return nil
	}

	s.metrics.IncRecordDeleted()
	s.logger.Info("record deleted", slog.String("record_id", id))
	return nil
}

// writeFailed logs integrity violations at warn and anything else at error.
func (s *RecordService) writeFailed(ctx context.Context, op, id string, err error) {
	s.metrics.IncRecordWriteFailed(op)

	level := slog.LevelError
	if errors.Is(err, repository.ErrRecordNameExists) {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "record write failed",
		slog.String("op", op),
		slog.String("record_id", id),
		slog.String("error", err.Error()),
	)
}

func validateRecordID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidRecordID
	}
	return nil
}
