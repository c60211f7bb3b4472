package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"busbook/internal/domain"
	"busbook/internal/pricing"
	"busbook/internal/repository"
)

// PromoRepository is a PostgreSQL implementation of repository.PromoRepository.
type PromoRepository struct {
	q Querier
}

// NewPromoRepository creates a new PostgreSQL promo repository.
func NewPromoRepository(db *sql.DB) *PromoRepository {
	return &PromoRepository{q: db}
}

// NewPromoRepositoryWithTx creates a promo repository using a transaction.
func NewPromoRepositoryWithTx(tx *sql.Tx) *PromoRepository {
	return &PromoRepository{q: tx}
}

const promoColumns = `id, code, discount_type, discount_value, min_booking_amount, max_discount,
	valid_from, valid_until, usage_limit, used_count, is_active, created_at`

// Create persists a new promo code.
func (r *PromoRepository) Create(ctx context.Context, promo *domain.PromoCode) error {
	query := `
		INSERT INTO promo_codes (` + promoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		promo.ID,
		promo.Code,
		promo.DiscountType,
		promo.DiscountValue,
		promo.MinBookingAmount,
		nullInt64(promo.MaxDiscount),
		promo.ValidFrom,
		promo.ValidUntil,
		nullInt(promo.UsageLimit),
		promo.UsedCount,
		promo.IsActive,
		promo.CreatedAt,
	)

	return mapUniqueViolation(err)
}

// GetByCode retrieves a promo by its code.
func (r *PromoRepository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	return r.getOne(ctx, `SELECT `+promoColumns+` FROM promo_codes WHERE code = $1`, code)
}

// GetByID retrieves a promo by ID.
func (r *PromoRepository) GetByID(ctx context.Context, id string) (*domain.PromoCode, error) {
	return r.getOne(ctx, `SELECT `+promoColumns+` FROM promo_codes WHERE id = $1`, id)
}

func (r *PromoRepository) getOne(ctx context.Context, query string, arg string) (*domain.PromoCode, error) {
	promo, err := scanPromo(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return promo, nil
}

// GetAll retrieves all promo codes.
func (r *PromoRepository) GetAll(ctx context.Context) ([]*domain.PromoCode, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+promoColumns+` FROM promo_codes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []*domain.PromoCode
	for rows.Next() {
		promo, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, promo)
	}

	return promos, rows.Err()
}

// Update updates an existing promo code.
func (r *PromoRepository) Update(ctx context.Context, promo *domain.PromoCode) error {
	query := `
		UPDATE promo_codes
		SET code = $1, discount_type = $2, discount_value = $3, min_booking_amount = $4, max_discount = $5,
		    valid_from = $6, valid_until = $7, usage_limit = $8, is_active = $9
		WHERE id = $10
	`

	result, err := r.q.ExecContext(ctx, query,
		promo.Code,
		promo.DiscountType,
		promo.DiscountValue,
		promo.MinBookingAmount,
		nullInt64(promo.MaxDiscount),
		promo.ValidFrom,
		promo.ValidUntil,
		nullInt(promo.UsageLimit),
		promo.IsActive,
		promo.ID,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}

	return expectAffected(result)
}

// Delete removes a promo code.
func (r *PromoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM promo_codes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return expectAffected(result)
}

// IncrementUsage bumps the used counter of a code. The update only
// applies below the usage limit, so concurrent checkouts cannot overrun it.
func (r *PromoRepository) IncrementUsage(ctx context.Context, code string) error {
	query := `
		UPDATE promo_codes SET used_count = used_count + 1
		WHERE code = $1 AND (usage_limit IS NULL OR used_count < usage_limit)
	`

	result, err := r.q.ExecContext(ctx, query, code)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", pricing.ErrPromoUsageExceeded, code)
	}

	return nil
}

func scanPromo(row rowScanner) (*domain.PromoCode, error) {
	var promo domain.PromoCode
	var maxDiscount sql.NullInt64
	var usageLimit sql.NullInt32

	if err := row.Scan(
		&promo.ID,
		&promo.Code,
		&promo.DiscountType,
		&promo.DiscountValue,
		&promo.MinBookingAmount,
		&maxDiscount,
		&promo.ValidFrom,
		&promo.ValidUntil,
		&usageLimit,
		&promo.UsedCount,
		&promo.IsActive,
		&promo.CreatedAt,
	); err != nil {
		return nil, err
	}

	if maxDiscount.Valid {
		v := maxDiscount.Int64
		promo.MaxDiscount = &v
	}
	if usageLimit.Valid {
		v := int(usageLimit.Int32)
		promo.UsageLimit = &v
	}

	return &promo, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

// Ensure PromoRepository implements repository.PromoRepository.
var _ repository.PromoRepository = (*PromoRepository)(nil)
