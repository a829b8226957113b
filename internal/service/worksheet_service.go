package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dalbom/arithmetic/internal/arithmetic"
	"github.com/dalbom/arithmetic/internal/config"
	"github.com/dalbom/arithmetic/internal/entitlement"
	"github.com/dalbom/arithmetic/internal/model"
	"github.com/dalbom/arithmetic/internal/random"
	"github.com/dalbom/arithmetic/internal/render"
	"github.com/dalbom/arithmetic/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// sequenceKeyTTL keeps a day's counter alive past midnight in any timezone.
const sequenceKeyTTL = 48 * time.Hour

// Compiler turns LaTeX source into a PDF.
type Compiler interface {
	Compile(ctx context.Context, tex string) ([]byte, error)
}

// GenerateOptions are the output choices of a generation request.
type GenerateOptions struct {
	UseLaTeX bool
	Lang     string
}

// Documents holds every rendering of one worksheet. Answer key fields are
// empty when the worksheet has no answer key.
type Documents struct {
	WorksheetPDF  []byte
	WorksheetTeX  string
	AnswerKeyPDF  []byte
	AnswerKeyTeX  string
	LaTeXFallback bool
}

// Built is a generated and rendered worksheet.
type Built struct {
	Worksheet arithmetic.Worksheet
	Documents *Documents
}

// WorksheetService generates, renders, caches and records worksheets.
type WorksheetService struct {
	cfg        *config.Config
	rdb        *redis.Client
	recordRepo repository.WorksheetRecordStore
	compiler   Compiler
	log        zerolog.Logger
	newSeed    func() (uint64, error)
	now        func() time.Time
}

// NewWorksheetService creates a new WorksheetService.
func NewWorksheetService(
	cfg *config.Config,
	rdb *redis.Client,
	recordRepo repository.WorksheetRecordStore,
	compiler Compiler,
	log zerolog.Logger,
) *WorksheetService {
	return &WorksheetService{
		cfg:        cfg,
		rdb:        rdb,
		recordRepo: recordRepo,
		compiler:   compiler,
		log:        log.With().Str("component", "worksheet_service").Logger(),
		newSeed:    random.NewSeed,
		now:        time.Now,
	}
}

// Build authorizes spec for plan, generates the worksheet from a fresh seed
// and renders it.
func (s *WorksheetService) Build(ctx context.Context, plan entitlement.Plan, spec arithmetic.WorksheetSpec, opts GenerateOptions) (*Built, error) {
	if err := Authorize(plan, spec, entitlement.Request{LaTeX: opts.UseLaTeX}); err != nil {
		return nil, err
	}

	seed, err := s.newSeed()
	if err != nil {
		return nil, err
	}
	w := arithmetic.NewGenerator(seed).GenerateWorksheet(spec)
	if n := w.Fallbacks(); n > 0 {
		s.log.Warn().
			Uint64("seed", seed).
			Int("fallbacks", n).
			Msg("Some problems did not satisfy their constraints")
	}

	docs, err := s.Render(ctx, w, plan, opts)
	if err != nil {
		return nil, err
	}
	return &Built{Worksheet: w, Documents: docs}, nil
}

func (s *WorksheetService) renderOptions(plan entitlement.Plan, lang string) render.Options {
	if lang == "" {
		lang = s.cfg.DefaultLang
	}
	return render.Options{Lang: lang, ShowBranding: plan.ShowBranding()}
}

// Render produces the LaTeX sources and PDFs of w and, when configured, its
// answer key. With UseLaTeX the PDFs are compiled remotely; a failed
// compile falls back to the native renderer.
func (s *WorksheetService) Render(ctx context.Context, w arithmetic.Worksheet, plan entitlement.Plan, opts GenerateOptions) (*Documents, error) {
	ro := s.renderOptions(plan, opts.Lang)
	docs := &Documents{WorksheetTeX: render.LaTeX(w, ro)}
	if w.Spec.IncludeAnswerKey {
		docs.AnswerKeyTeX = render.AnswerKeyLaTeX(w, ro)
	}

	var wsFallback, akFallback bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pdf, fellBack, err := s.renderPDF(gctx, w, ro, docs.WorksheetTeX, opts.UseLaTeX)
		docs.WorksheetPDF, wsFallback = pdf, fellBack
		return err
	})
	if w.Spec.IncludeAnswerKey {
		g.Go(func() error {
			ako := ro
			ako.AnswerKey = true
			pdf, fellBack, err := s.renderPDF(gctx, w, ako, docs.AnswerKeyTeX, opts.UseLaTeX)
			docs.AnswerKeyPDF, akFallback = pdf, fellBack
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	docs.LaTeXFallback = wsFallback || akFallback
	return docs, nil
}

func (s *WorksheetService) renderPDF(ctx context.Context, w arithmetic.Worksheet, ro render.Options, tex string, useLaTeX bool) ([]byte, bool, error) {
	if useLaTeX && s.compiler != nil {
		pdf, err := s.compiler.Compile(ctx, tex)
		if err == nil {
			return pdf, false, nil
		}
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		s.log.Warn().Err(err).Bool("answer_key", ro.AnswerKey).Msg("LaTeX compile failed, using native renderer")
		pdf, err = render.PDF(w, ro)
		return pdf, true, err
	}
	pdf, err := render.PDF(w, ro)
	return pdf, false, err
}

// Generate builds a worksheet for the caller, caches its documents, and
// queues its history record.
func (s *WorksheetService) Generate(ctx context.Context, claims *Claims, spec arithmetic.WorksheetSpec, opts GenerateOptions) (*model.GenerateWorksheetResponse, error) {
	built, err := s.Build(ctx, claims.Plan(), spec, opts)
	if err != nil {
		return nil, err
	}

	now := s.now()
	seq, err := s.nextSequence(ctx, claims.UserID, now)
	if err != nil {
		return nil, err
	}

	lang := opts.Lang
	if lang == "" {
		lang = s.cfg.DefaultLang
	}
	rec := model.WorksheetRecord{
		ID:             uuid.New(),
		UserID:         claims.UserID,
		Config:         built.Worksheet.Spec,
		Seed:           built.Worksheet.Seed,
		SequenceNumber: seq,
		UsedLaTeX:      opts.UseLaTeX,
		Lang:           lang,
		CreatedAt:      now,
	}

	if err := s.cacheDocuments(ctx, claims.UserID, rec.ID, built.Documents); err != nil {
		return nil, err
	}
	if err := s.enqueueRecord(ctx, rec); err != nil {
		return nil, err
	}

	return &model.GenerateWorksheetResponse{
		Record:        rec,
		Title:         render.Title(built.Worksheet),
		Worksheet:     built.Worksheet,
		Documents:     documentLinks(rec.ID, built.Worksheet.Spec.IncludeAnswerKey),
		Fallbacks:     built.Worksheet.Fallbacks(),
		LaTeXFallback: built.Documents.LaTeXFallback,
	}, nil
}

func documentLinks(id uuid.UUID, answerKey bool) []model.DocumentLink {
	kinds := []model.DocumentKind{model.DocumentWorksheet}
	if answerKey {
		kinds = append(kinds, model.DocumentAnswerKey)
	}
	var links []model.DocumentLink
	for _, k := range kinds {
		for _, f := range []model.DocumentFormat{model.FormatPDF, model.FormatTeX} {
			links = append(links, model.DocumentLink{
				Kind:   k,
				Format: f,
				URL:    fmt.Sprintf("/api/v1/worksheets/%s/%s?kind=%s", id, f, k),
			})
		}
	}
	return links
}

func (s *WorksheetService) nextSequence(ctx context.Context, userID int, now time.Time) (int, error) {
	key := config.CacheKey.WorksheetSequenceKey(userID, now)
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, sequenceKeyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("allocate sequence number: %w", err)
	}
	return int(incr.Val()), nil
}

// documentKeys lists every cache key a record's documents may live under.
func documentKeys(userID int, id uuid.UUID) []string {
	var keys []string
	for _, k := range []model.DocumentKind{model.DocumentWorksheet, model.DocumentAnswerKey} {
		for _, f := range []model.DocumentFormat{model.FormatPDF, model.FormatTeX} {
			keys = append(keys, config.CacheKey.WorksheetDocumentKey(userID, id.String(), string(k), string(f)))
		}
	}
	return keys
}

func (s *WorksheetService) cacheDocuments(ctx context.Context, userID int, id uuid.UUID, docs *Documents) error {
	ttl := s.cfg.DocumentCacheTTL
	pipe := s.rdb.Pipeline()
	set := func(kind model.DocumentKind, format model.DocumentFormat, data []byte) {
		if len(data) > 0 {
			pipe.Set(ctx, config.CacheKey.WorksheetDocumentKey(userID, id.String(), string(kind), string(format)), data, ttl)
		}
	}
	set(model.DocumentWorksheet, model.FormatPDF, docs.WorksheetPDF)
	set(model.DocumentWorksheet, model.FormatTeX, []byte(docs.WorksheetTeX))
	set(model.DocumentAnswerKey, model.FormatPDF, docs.AnswerKeyPDF)
	set(model.DocumentAnswerKey, model.FormatTeX, []byte(docs.AnswerKeyTeX))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache documents: %w", err)
	}
	return nil
}

func (s *WorksheetService) enqueueRecord(ctx context.Context, rec model.WorksheetRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistWorksheetRecordsQueue, raw).Err(); err != nil {
		return fmt.Errorf("enqueue record: %w", err)
	}
	return nil
}

// Document returns one rendering of a recorded worksheet, from cache when
// possible and otherwise regenerated from the stored spec and seed. Cache
// entries are keyed by owner, so only the owner's cache is ever consulted.
func (s *WorksheetService) Document(ctx context.Context, claims *Claims, id uuid.UUID, kind model.DocumentKind, format model.DocumentFormat) ([]byte, error) {
	key := config.CacheKey.WorksheetDocumentKey(claims.UserID, id.String(), string(kind), string(format))
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("key", key).Msg("Document cache read failed")
	}

	rec, err := s.recordRepo.GetByID(ctx, claims.UserID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorksheetNotFound
		}
		return nil, fmt.Errorf("get worksheet record: %w", err)
	}
	if kind == model.DocumentAnswerKey && !rec.Config.IncludeAnswerKey {
		return nil, ErrDocumentUnavailable
	}

	w := arithmetic.NewGenerator(rec.Seed).GenerateWorksheet(rec.Config)
	plan := claims.Plan()
	ro := s.renderOptions(plan, rec.Lang)
	ro.AnswerKey = kind == model.DocumentAnswerKey

	switch format {
	case model.FormatTeX:
		data = []byte(render.LaTeX(w, ro))
	default:
		tex := render.LaTeX(w, ro)
		data, _, err = s.renderPDF(ctx, w, ro, tex, rec.UsedLaTeX && plan.Pro)
		if err != nil {
			return nil, err
		}
	}

	if err := s.rdb.Set(ctx, key, data, s.cfg.DocumentCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Document cache write failed")
	}
	return data, nil
}

// Preview generates one example problem per problem type.
func (s *WorksheetService) Preview(problems []arithmetic.ProblemSpec) ([]model.PreviewProblem, error) {
	seed, err := s.newSeed()
	if err != nil {
		return nil, err
	}
	g := arithmetic.NewGenerator(seed)

	out := make([]model.PreviewProblem, 0, len(problems))
	for _, ps := range problems {
		p := g.GenerateProblem(ps, 1)
		out = append(out, model.PreviewProblem{Display: p.DisplayString(), Answer: p.Answer()})
	}
	return out, nil
}

// StreamResult summarises a streamed worksheet.
type StreamResult struct {
	Seed      uint64
	Pages     int
	Fallbacks int
}

// Stream authorizes spec and generates it page by page, handing each page
// to emit as soon as it is ready. Generation stops at the first emit error
// or when ctx is cancelled.
func (s *WorksheetService) Stream(ctx context.Context, plan entitlement.Plan, spec arithmetic.WorksheetSpec, emit func(arithmetic.Page) error) (*StreamResult, error) {
	if err := Authorize(plan, spec, entitlement.Request{}); err != nil {
		return nil, err
	}
	seed, err := s.newSeed()
	if err != nil {
		return nil, err
	}

	g := arithmetic.NewGenerator(seed)
	res := &StreamResult{Seed: seed}
	for i := 0; i < spec.NumberOfPages; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		page := g.GeneratePage(spec, i)
		if err := emit(page); err != nil {
			return res, err
		}
		res.Pages++
		res.Fallbacks += page.Fallbacks
	}
	return res, nil
}
