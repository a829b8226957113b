package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dalbom/arithmetic/internal/config"
	"github.com/dalbom/arithmetic/internal/model"
	"github.com/dalbom/arithmetic/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	RecordBatchSize    = 50
	RecordBatchTimeout = 2 * time.Second
	RecordPollTimeout  = 1 * time.Second
)

// RecordWorker drains the worksheet record queue into PostgreSQL in batches,
// keeping history writes off the request path.
type RecordWorker struct {
	repo *repository.WorksheetRecordRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewRecordWorker(repo *repository.WorksheetRecordRepository, rdb *redis.Client, log zerolog.Logger) *RecordWorker {
	return &RecordWorker{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "record_worker").Logger(),
	}
}

func (w *RecordWorker) Start(ctx context.Context) {
	w.log.Info().Msg("RecordWorker started")

	batch := make([]*model.WorksheetRecord, 0, RecordBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= RecordBatchSize || time.Since(lastFlush) >= RecordBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, RecordPollTimeout, config.WorkerKey.PersistWorksheetRecordsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			rec, err := decodeRecord(item[1])
			if err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, rec)
		}
	}
}

func decodeRecord(raw string) (*model.WorksheetRecord, error) {
	var rec model.WorksheetRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// permanentInsertError reports whether retrying the insert cannot succeed:
// data exceptions (class 22) and integrity violations such as a deleted
// user (class 23).
func permanentInsertError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	class := pgErr.Code[:min(len(pgErr.Code), 2)]
	return class == "22" || class == "23"
}

func (w *RecordWorker) flushSafe(ctx context.Context, batch []*model.WorksheetRecord) {
	if len(batch) == 0 {
		return
	}

	if err := w.repo.CreateBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("size", len(batch)).Msg("batch record insert failed, using fallback")

		for _, rec := range batch {
			if err := w.repo.Create(ctx, rec); err != nil {
				if permanentInsertError(err) {
					w.log.Error().Err(err).Str("record_id", rec.ID.String()).Msg("single insert rejected, dropping record")
					continue
				}
				w.log.Error().Err(err).Str("record_id", rec.ID.String()).Msg("single insert failed, requeueing")
				raw, _ := json.Marshal(rec)
				w.rdb.RPush(ctx, config.WorkerKey.PersistWorksheetRecordsQueue, raw)
			}
		}
		return
	}

	w.log.Debug().Int("size", len(batch)).Msg("Records persisted")
}
