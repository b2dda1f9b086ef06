package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/commission-allocation-engine/internal/model"
	"github.com/anyulbade/commission-allocation-engine/internal/rates"
)

type RateRepository struct {
	pool *pgxpool.Pool
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

func (r *RateRepository) List(ctx context.Context) ([]model.RateVersion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT version, effective_from, service_fee_rate::text, food_vat_rate::text,
			platform_commission_rate::text, platform_services_vat_rate::text, description, created_at
		FROM rate_versions ORDER BY effective_from`)
	if err != nil {
		return nil, fmt.Errorf("query rate versions: %w", err)
	}
	defer rows.Close()

	var results []model.RateVersion
	for rows.Next() {
		var (
			v                               model.RateVersion
			serviceFee, foodVAT, comm, svat string
		)
		if err := rows.Scan(&v.Version, &v.EffectiveFrom, &serviceFee, &foodVAT, &comm, &svat,
			&v.Description, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rate version: %w", err)
		}

		parsed, err := parseRates(serviceFee, foodVAT, comm, svat)
		if err != nil {
			return nil, fmt.Errorf("rate version %s: %w", v.Version, err)
		}
		v.ServiceFeeRate, v.FoodVATRate, v.PlatformCommissionRate, v.PlatformServicesVATRate =
			parsed[0], parsed[1], parsed[2], parsed[3]

		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rate versions: %w", err)
	}

	return results, nil
}

// Schedule loads every stored version into a validated rate schedule.
func (r *RateRepository) Schedule(ctx context.Context) (*rates.Schedule, error) {
	versions, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	configs := make([]rates.Configuration, 0, len(versions))
	for _, v := range versions {
		configs = append(configs, rates.Configuration{
			Version:                 v.Version,
			EffectiveFrom:           v.EffectiveFrom,
			ServiceFeeRate:          v.ServiceFeeRate,
			FoodVATRate:             v.FoodVATRate,
			PlatformCommissionRate:  v.PlatformCommissionRate,
			PlatformServicesVATRate: v.PlatformServicesVATRate,
		})
	}

	return rates.NewSchedule(configs...)
}

func parseRates(raw ...string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(raw))
	for i, s := range raw {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("parse rate %q: %w", s, err)
		}
		out[i] = d
	}
	return out, nil
}
