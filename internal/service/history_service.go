package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalbom/arithmetic/internal/model"
	"github.com/dalbom/arithmetic/internal/repository"
	"github.com/dalbom/arithmetic/internal/response"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// HistoryService lists and removes worksheet records.
type HistoryService struct {
	recordRepo repository.WorksheetRecordStore
	rdb        *redis.Client
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(recordRepo repository.WorksheetRecordStore, rdb *redis.Client) *HistoryService {
	return &HistoryService{recordRepo: recordRepo, rdb: rdb}
}

// List returns one page of the caller's records, newest first.
func (s *HistoryService) List(ctx context.Context, userID, page, perPage int) ([]model.WorksheetRecord, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	records, total, err := s.recordRepo.ListPaginated(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, fmt.Errorf("list worksheet records: %w", err)
	}
	return records, response.NewPagination(page, perPage, total), nil
}

// Delete removes a record and purges its cached documents.
func (s *HistoryService) Delete(ctx context.Context, userID int, id uuid.UUID) error {
	if err := s.recordRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorksheetNotFound
		}
		return fmt.Errorf("delete worksheet record: %w", err)
	}
	if err := s.rdb.Del(ctx, documentKeys(userID, id)...).Err(); err != nil {
		return fmt.Errorf("purge cached documents: %w", err)
	}
	return nil
}
