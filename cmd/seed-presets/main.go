package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/dalbom/arithmetic/internal/config"
	"github.com/dalbom/arithmetic/internal/database"
	"github.com/dalbom/arithmetic/internal/entitlement"
	"github.com/dalbom/arithmetic/internal/logger"
	"github.com/dalbom/arithmetic/internal/model"
	"github.com/dalbom/arithmetic/internal/repository"
	"github.com/dalbom/arithmetic/internal/service"
	"github.com/jackc/pgx/v5"
	zlog "github.com/rs/zerolog/log"
)

// starterPresets are the presets a new account is offered. Free accounts
// only receive the ones their plan can generate.
var starterPresets = []model.CreatePresetRequest{
	{
		Name:         "Warm-up addition",
		IconColorHex: "#4A90D9",
		Worksheet: model.GenerateWorksheetRequest{
			NumberOfPages: 1,
			Problems: []model.ProblemSpecRequest{
				{Type: "addition", OperandDigits: []int{1, 1}, QuestionsPerPage: 20},
			},
		},
	},
	{
		Name:         "Easy take-away",
		IconColorHex: "#7ED321",
		Worksheet: model.GenerateWorksheetRequest{
			NumberOfPages: 2,
			Problems: []model.ProblemSpecRequest{
				{Type: "subtraction", OperandDigits: []int{2, 1}, QuestionsPerPage: 20, EasyMode: true},
			},
		},
	},
	{
		Name:         "Carry practice",
		IconColorHex: "#F5A623",
		Worksheet: model.GenerateWorksheetRequest{
			NumberOfPages: 3,
			Problems: []model.ProblemSpecRequest{
				{Type: "addition", OperandDigits: []int{2, 2}, QuestionsPerPage: 15, CarryControl: "requireCarry"},
				{Type: "subtraction", OperandDigits: []int{2, 2}, QuestionsPerPage: 15, EasyMode: true, CarryControl: "requireCarry"},
			},
			IncludeAnswerKey: true,
		},
	},
	{
		Name:         "Times and share",
		IconColorHex: "#BD10E0",
		Worksheet: model.GenerateWorksheetRequest{
			NumberOfPages: 5,
			Problems: []model.ProblemSpecRequest{
				{Type: "multiplication", OperandDigits: []int{2, 1}, QuestionsPerPage: 20},
				{Type: "division", OperandDigits: []int{2, 1}, QuestionsPerPage: 20, EasyMode: true},
			},
			IncludeAnswerKey: true,
		},
	},
}

func main() {
	email := flag.String("email", "", "Email of the user who receives the presets")
	child := flag.String("child", "", "Child name printed on seeded presets")
	flag.Parse()

	if *email == "" {
		flag.Usage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	presetService := service.NewPresetService(repository.NewPresetRepository(pool))

	u, err := userRepo.GetByEmail(ctx, *email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fmt.Printf("Error: no user with email %s\n", *email)
			return
		}
		log.Fatal().Err(err).Msg("Failed to look up user")
	}

	claims := &service.Claims{UserID: u.ID, Pro: u.IsPro(time.Now())}
	fmt.Printf("=== Seeding presets for %s (pro: %t) ===\n", u.Email, claims.Pro)

	created := 0
	for _, req := range starterPresets {
		req.ChildName = *child
		req.Worksheet.ChildName = *child

		err := service.Authorize(claims.Plan(), req.Worksheet.ToSpec(), entitlement.Request{})
		var pre *service.ProRequiredError
		if errors.As(err, &pre) {
			fmt.Printf("  skip %-20s needs pro: %v\n", req.Name, pre.Features)
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("preset", req.Name).Msg("Starter preset is invalid")
		}

		p, err := presetService.Create(ctx, claims, req)
		if errors.Is(err, service.ErrPresetLimitReached) {
			fmt.Println("  preset limit reached, stopping")
			break
		}
		if err != nil {
			log.Fatal().Err(err).Str("preset", req.Name).Msg("Failed to create preset")
		}
		created++
		fmt.Printf("  created %-20s %s\n", p.Name, p.ID)
	}

	fmt.Printf("\nSuccess! Seeded %d preset(s).\n", created)
}
