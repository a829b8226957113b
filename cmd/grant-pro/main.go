package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/dalbom/arithmetic/internal/config"
	"github.com/dalbom/arithmetic/internal/database"
	"github.com/dalbom/arithmetic/internal/logger"
	"github.com/dalbom/arithmetic/internal/repository"
	"github.com/jackc/pgx/v5"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	email := flag.String("email", "", "Email of the user to update")
	days := flag.Int("days", 30, "Length of the pro subscription in days; 0 revokes it")
	flag.Parse()

	if *email == "" || *days < 0 {
		flag.Usage()
		return
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	fmt.Println("=== Grant Pro Subscription ===")

	u, err := userRepo.GetByEmail(ctx, *email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fmt.Printf("Error: no user with email %s\n", *email)
			return
		}
		log.Fatal().Err(err).Msg("Failed to look up user")
	}

	var until *time.Time
	if *days > 0 {
		// Extend an active subscription rather than restarting it.
		start := time.Now()
		if u.IsPro(start) {
			start = *u.ProUntil
		}
		t := start.AddDate(0, 0, *days)
		until = &t
	}

	if err := userRepo.SetProUntil(ctx, u.ID, until); err != nil {
		log.Fatal().Err(err).Msg("Failed to update subscription")
	}

	if until == nil {
		fmt.Printf("\nSuccess! Pro revoked for %s. Existing tokens keep their plan until they expire.\n", u.Email)
		return
	}
	fmt.Printf("\nSuccess! %s is pro until %s. The user must log in again to pick up the new plan.\n",
		u.Email, until.Format(time.DateOnly))
}
