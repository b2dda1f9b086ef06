package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/commission-allocation-engine/internal/rates"
)

type itemProfile struct {
	Description string
	UnitPrice   [2]int64 // min, max in öre, service fee included
	MaxQuantity int
}

var items = []itemProfile{
	{Description: "Sourdough loaf", UnitPrice: [2]int64{4500, 7500}, MaxQuantity: 3},
	{Description: "Homemade lasagna, family size", UnitPrice: [2]int64{18000, 26000}, MaxQuantity: 2},
	{Description: "Cinnamon buns, 6 pack", UnitPrice: [2]int64{6000, 9500}, MaxQuantity: 4},
	{Description: "Vegetarian dumplings, 20 pcs", UnitPrice: [2]int64{12000, 16000}, MaxQuantity: 2},
	{Description: "Catering platter for 10", UnitPrice: [2]int64{95000, 160000}, MaxQuantity: 1},
	{Description: "Lingonberry jam, 400 g", UnitPrice: [2]int64{5500, 8000}, MaxQuantity: 5},
}

// SeedData inserts the default rate version and a deterministic set of demo
// checkout sessions. It does nothing when rate versions already exist.
func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	rng := rand.New(rand.NewSource(42))

	var count int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM rate_versions").Scan(&count)
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		log.Info().Msg("seed data already exists, skipping")
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	def := rates.Default()
	_, err = tx.Exec(ctx,
		`INSERT INTO rate_versions (version, effective_from, service_fee_rate, food_vat_rate, platform_commission_rate, platform_services_vat_rate, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		def.Version, def.EffectiveFrom,
		def.ServiceFeeRate.String(), def.FoodVATRate.String(),
		def.PlatformCommissionRate.String(), def.PlatformServicesVATRate.String(),
		"launch rates")
	if err != nil {
		return fmt.Errorf("insert rate version %s: %w", def.Version, err)
	}
	log.Info().Str("version", def.Version).Msg("inserted rate version")

	// Sessions spread over Sep 2025 - Feb 2026, 60% in the last two months.
	baseDate := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	const sessions = 240
	for i := 0; i < sessions; i++ {
		item := items[rng.Intn(len(items))]

		var monthOffset int
		if rng.Float64() < 0.6 {
			monthOffset = 4 + rng.Intn(2)
		} else {
			monthOffset = rng.Intn(4)
		}
		createdAt := baseDate.AddDate(0, monthOffset, rng.Intn(28)).
			Add(time.Duration(rng.Intn(24)) * time.Hour).
			Add(time.Duration(rng.Intn(60)) * time.Minute)

		quantity := 1 + rng.Intn(item.MaxQuantity)
		unit := item.UnitPrice[0] + rng.Int63n(item.UnitPrice[1]-item.UnitPrice[0]+1)
		amount := decimal.New(unit*int64(quantity), -2)

		status := "paid"
		switch roll := rng.Float64(); {
		case roll > 0.97:
			status = "refunded"
		case roll > 0.92:
			status = "unpaid"
		}

		sessionID := fmt.Sprintf("cs_demo_%04d", i+1)
		_, err := tx.Exec(ctx,
			`INSERT INTO payment_transactions (session_id, amount_total, currency, description, quantity, payment_status, payment_intent_id, charge_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			sessionID, amount.StringFixed(2), "SEK", item.Description, quantity, status,
			fmt.Sprintf("pi_demo_%04d", i+1), fmt.Sprintf("ch_demo_%04d", i+1), createdAt)
		if err != nil {
			return fmt.Errorf("insert payment transaction %s: %w", sessionID, err)
		}
	}
	log.Info().Int("count", sessions).Msg("inserted payment transactions")

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	return nil
}
