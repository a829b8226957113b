package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dalbom/arithmetic/internal/arithmetic"
	"github.com/dalbom/arithmetic/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestDecodeRecord_KeepsFullSeed(t *testing.T) {
	want := model.WorksheetRecord{
		ID:     uuid.New(),
		UserID: 3,
		Config: arithmetic.WorksheetSpec{
			NumberOfPages: 2,
			PageOffset:    1,
			Problems: []arithmetic.ProblemSpec{
				{Operation: arithmetic.Division, OperandDigits: []int{2, 1}, QuestionsPerPage: 12, EasyMode: true},
			},
		},
		Seed:           1<<64 - 5,
		SequenceNumber: 4,
		Lang:           "ko",
		CreatedAt:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := decodeRecord(string(raw))
	if err != nil {
		t.Fatalf("decodeRecord() error = %v", err)
	}

	if got.Seed != want.Seed {
		t.Errorf("Seed = %d, want %d", got.Seed, want.Seed)
	}
	if got.ID != want.ID || got.SequenceNumber != 4 || got.Lang != "ko" {
		t.Errorf("decoded = %+v", got)
	}
	if p := got.Config.Problems[0]; p.Operation != arithmetic.Division || !p.EasyMode {
		t.Errorf("problem spec = %+v", p)
	}
}

func TestDecodeRecord_Invalid(t *testing.T) {
	if _, err := decodeRecord(`{"seed": 12}`); err == nil {
		t.Error("expected error for unquoted seed")
	}
	if _, err := decodeRecord(`not json`); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestPermanentInsertError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, true},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"numeric out of range", &pgconn.PgError{Code: "22003"}, true},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, false},
		{"connection refused", errors.New("dial tcp: connection refused"), false},
		{"deadline", context.DeadlineExceeded, false},
		{"empty code", &pgconn.PgError{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := permanentInsertError(tt.err); got != tt.want {
				t.Errorf("permanentInsertError(%v) = %t, want %t", tt.err, got, tt.want)
			}
		})
	}
}
