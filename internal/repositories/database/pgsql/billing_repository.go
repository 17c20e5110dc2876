package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/society_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/society_ledger/internal/models"
	"github.com/SscSPs/society_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxBillingRepository stores billing configuration, charge heads, units and members.
type PgxBillingRepository struct {
	BaseRepository
}

func newPgxBillingRepository(pool *pgxpool.Pool) *PgxBillingRepository {
	return &PgxBillingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BillingSetupRepositoryFacade = (*PgxBillingRepository)(nil)

// FindBillingConfig returns the tenant's billing config.
func (r *PgxBillingRepository) FindBillingConfig(ctx context.Context, tenantID string) (*domain.BillingConfig, error) {
	query := `
		SELECT tenant_id, due_day, interest_rate_percent, grace_days, created_at, created_by, last_updated_at, last_updated_by
		FROM billing_configs
		WHERE tenant_id = $1;
	`
	var m models.BillingConfig
	err := r.db(ctx).QueryRow(ctx, query, tenantID).Scan(
		&m.TenantID, &m.DueDay, &m.InterestRatePercent, &m.GraceDays,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find billing config for tenant %s: %w", tenantID, err)
	}
	cfg := mapping.ToDomainBillingConfig(m)
	return &cfg, nil
}

// SaveBillingConfig inserts or replaces the tenant's billing config.
func (r *PgxBillingRepository) SaveBillingConfig(ctx context.Context, cfg domain.BillingConfig) error {
	query := `
		INSERT INTO billing_configs (tenant_id, due_day, interest_rate_percent, grace_days, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_id) DO UPDATE
		SET due_day = EXCLUDED.due_day,
		    interest_rate_percent = EXCLUDED.interest_rate_percent,
		    grace_days = EXCLUDED.grace_days,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db(ctx).Exec(ctx, query,
		cfg.TenantID, cfg.DueDay, cfg.InterestRatePercent, cfg.GraceDays,
		cfg.CreatedAt, cfg.CreatedBy, cfg.LastUpdatedAt, cfg.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save billing config for tenant %s: %w", cfg.TenantID, err)
	}
	return nil
}

// ListChargeHeads returns a tenant's charge heads ordered by sort order.
func (r *PgxBillingRepository) ListChargeHeads(ctx context.Context, tenantID string, activeOnly bool) ([]domain.ChargeHead, error) {
	query := `
		SELECT charge_head_id, tenant_id, name, calculation_type, rate, gst_applicable, gst_rate, income_account_id,
		       is_active, sort_order, created_at, created_by, last_updated_at, last_updated_by
		FROM charge_heads
		WHERE tenant_id = $1 AND (is_active OR NOT $2)
		ORDER BY sort_order, name;
	`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query charge heads for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	heads := []domain.ChargeHead{}
	for rows.Next() {
		var m models.ChargeHead
		var incomeAccountID sql.NullString
		if err := rows.Scan(
			&m.ChargeHeadID, &m.TenantID, &m.Name, &m.CalculationType, &m.Rate, &m.GSTApplicable, &m.GSTRate, &incomeAccountID,
			&m.IsActive, &m.SortOrder, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan charge head row: %w", err)
		}
		m.IncomeAccountID = incomeAccountID.String
		heads = append(heads, mapping.ToDomainChargeHead(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating charge head rows: %w", err)
	}
	return heads, nil
}

// SaveChargeHead inserts a charge head.
func (r *PgxBillingRepository) SaveChargeHead(ctx context.Context, head domain.ChargeHead) error {
	m := mapping.ToModelChargeHead(head)
	query := `
		INSERT INTO charge_heads (charge_head_id, tenant_id, name, calculation_type, rate, gst_applicable, gst_rate, income_account_id,
		                          is_active, sort_order, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.ChargeHeadID, m.TenantID, m.Name, m.CalculationType, m.Rate, m.GSTApplicable, m.GSTRate, nullString(m.IncomeAccountID),
		m.IsActive, m.SortOrder, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save charge head %s: %w", m.Name, mapPgError(err))
	}
	return nil
}

const unitSelect = `
	SELECT u.unit_id, u.tenant_id, u.unit_number, u.area_sqft, u.is_billable,
	       COALESCE(m.member_id, ''), COALESCE(m.name, ''), COALESCE(m.email, ''), COALESCE(m.phone, ''),
	       u.created_at, u.created_by, u.last_updated_at, u.last_updated_by
	FROM units u
	LEFT JOIN members m ON m.member_id = u.active_member_id
`

func scanUnit(row pgx.Row) (domain.Unit, error) {
	var m models.Unit
	err := row.Scan(
		&m.UnitID, &m.TenantID, &m.UnitNumber, &m.AreaSqft, &m.IsBillable,
		&m.MemberID, &m.MemberName, &m.MemberEmail, &m.MemberPhone,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Unit{}, err
	}
	return mapping.ToDomainUnit(m), nil
}

// FindUnitByID returns a unit with its active member, if any.
func (r *PgxBillingRepository) FindUnitByID(ctx context.Context, tenantID string, unitID string) (*domain.Unit, error) {
	unit, err := scanUnit(r.db(ctx).QueryRow(ctx, unitSelect+` WHERE u.tenant_id = $1 AND u.unit_id = $2;`, tenantID, unitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find unit %s: %w", unitID, err)
	}
	return &unit, nil
}

// ListUnits returns a tenant's units ordered by unit number.
func (r *PgxBillingRepository) ListUnits(ctx context.Context, tenantID string, billableOnly bool) ([]domain.Unit, error) {
	rows, err := r.db(ctx).Query(ctx, unitSelect+` WHERE u.tenant_id = $1 AND (u.is_billable OR NOT $2) ORDER BY u.unit_number;`, tenantID, billableOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query units for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	units := []domain.Unit{}
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit rows: %w", err)
	}
	return units, nil
}

// SaveUnit inserts a unit together with its active member.
func (r *PgxBillingRepository) SaveUnit(ctx context.Context, unit domain.Unit) error {
	m := mapping.ToModelUnit(unit)
	q := r.db(ctx)
	if m.MemberID != "" {
		_, err := q.Exec(ctx, `
			INSERT INTO members (member_id, tenant_id, name, email, phone, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (member_id) DO NOTHING;`,
			m.MemberID, m.TenantID, m.MemberName, m.MemberEmail, m.MemberPhone,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to save member %s: %w", m.MemberID, err)
		}
	}
	_, err := q.Exec(ctx, `
		INSERT INTO units (unit_id, tenant_id, unit_number, area_sqft, is_billable, active_member_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		m.UnitID, m.TenantID, m.UnitNumber, m.AreaSqft, m.IsBillable, nullString(m.MemberID),
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: unit %s already exists", apperrors.ErrDuplicate, m.UnitNumber)
		}
		return fmt.Errorf("failed to save unit %s: %w", m.UnitNumber, err)
	}
	return nil
}

// ListRateOverrides returns every per-unit rate override of the tenant.
func (r *PgxBillingRepository) ListRateOverrides(ctx context.Context, tenantID string) ([]domain.UnitRateOverride, error) {
	query := `
		SELECT tenant_id, unit_id, charge_head_id, rate, created_at, created_by, last_updated_at, last_updated_by
		FROM unit_rate_overrides
		WHERE tenant_id = $1;
	`
	rows, err := r.db(ctx).Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate overrides for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	overrides := []domain.UnitRateOverride{}
	for rows.Next() {
		var m models.UnitRateOverride
		if err := rows.Scan(&m.TenantID, &m.UnitID, &m.ChargeHeadID, &m.Rate, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan rate override row: %w", err)
		}
		overrides = append(overrides, mapping.ToDomainRateOverride(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate override rows: %w", err)
	}
	return overrides, nil
}

// SaveRateOverride inserts or replaces a unit's override for a charge head.
func (r *PgxBillingRepository) SaveRateOverride(ctx context.Context, o domain.UnitRateOverride) error {
	query := `
		INSERT INTO unit_rate_overrides (tenant_id, unit_id, charge_head_id, rate, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (unit_id, charge_head_id) DO UPDATE
		SET rate = EXCLUDED.rate, last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db(ctx).Exec(ctx, query,
		o.TenantID, o.UnitID, o.ChargeHeadID, o.Rate, o.CreatedAt, o.CreatedBy, o.LastUpdatedAt, o.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save rate override for unit %s: %w", o.UnitID, mapPgError(err))
	}
	return nil
}
