package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
)

func (s *Store) FindBillingConfig(ctx context.Context, tenantID string) (*domain.BillingConfig, error) {
	var cfg domain.BillingConfig
	var ok bool
	s.read(ctx, func(t *tables) { cfg, ok = t.configs[tenantID] })
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &cfg, nil
}

func (s *Store) SaveBillingConfig(ctx context.Context, cfg domain.BillingConfig) error {
	return s.write(ctx, "SaveBillingConfig", func(t *tables) error {
		if existing, ok := t.configs[cfg.TenantID]; ok {
			cfg.CreatedAt = existing.CreatedAt
			cfg.CreatedBy = existing.CreatedBy
		}
		t.configs[cfg.TenantID] = cfg
		return nil
	})
}

func (s *Store) ListChargeHeads(ctx context.Context, tenantID string, activeOnly bool) ([]domain.ChargeHead, error) {
	heads := []domain.ChargeHead{}
	s.read(ctx, func(t *tables) {
		for _, h := range t.heads {
			if h.TenantID == tenantID && (h.IsActive || !activeOnly) {
				heads = append(heads, h)
			}
		}
	})
	sort.Slice(heads, func(i, j int) bool {
		if heads[i].SortOrder != heads[j].SortOrder {
			return heads[i].SortOrder < heads[j].SortOrder
		}
		return heads[i].Name < heads[j].Name
	})
	return heads, nil
}

func (s *Store) SaveChargeHead(ctx context.Context, head domain.ChargeHead) error {
	return s.write(ctx, "SaveChargeHead", func(t *tables) error {
		if head.IncomeAccountID != "" {
			if _, ok := t.accounts[head.IncomeAccountID]; !ok {
				return fmt.Errorf("%w: income account %s does not exist", apperrors.ErrValidation, head.IncomeAccountID)
			}
		}
		t.heads[head.ChargeHeadID] = head
		return nil
	})
}

func (s *Store) FindUnitByID(ctx context.Context, tenantID string, unitID string) (*domain.Unit, error) {
	var unit domain.Unit
	var ok bool
	s.read(ctx, func(t *tables) { unit, ok = t.units[unitID] })
	if !ok || unit.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &unit, nil
}

func (s *Store) ListUnits(ctx context.Context, tenantID string, billableOnly bool) ([]domain.Unit, error) {
	units := []domain.Unit{}
	s.read(ctx, func(t *tables) {
		for _, u := range t.units {
			if u.TenantID == tenantID && (u.IsBillable || !billableOnly) {
				units = append(units, u)
			}
		}
	})
	sort.Slice(units, func(i, j int) bool { return units[i].UnitNumber < units[j].UnitNumber })
	return units, nil
}

func (s *Store) SaveUnit(ctx context.Context, unit domain.Unit) error {
	return s.write(ctx, "SaveUnit", func(t *tables) error {
		for _, u := range t.units {
			if u.TenantID == unit.TenantID && u.UnitNumber == unit.UnitNumber {
				return fmt.Errorf("%w: unit %s already exists", apperrors.ErrDuplicate, unit.UnitNumber)
			}
		}
		if unit.ActiveMember != nil {
			m := *unit.ActiveMember
			unit.ActiveMember = &m
		}
		t.units[unit.UnitID] = unit
		return nil
	})
}

func (s *Store) ListRateOverrides(ctx context.Context, tenantID string) ([]domain.UnitRateOverride, error) {
	out := []domain.UnitRateOverride{}
	s.read(ctx, func(t *tables) {
		for _, o := range t.overrides {
			if o.TenantID == tenantID {
				out = append(out, o)
			}
		}
	})
	return out, nil
}

func (s *Store) SaveRateOverride(ctx context.Context, override domain.UnitRateOverride) error {
	return s.write(ctx, "SaveRateOverride", func(t *tables) error {
		if _, ok := t.units[override.UnitID]; !ok {
			return fmt.Errorf("%w: unit %s does not exist", apperrors.ErrValidation, override.UnitID)
		}
		if _, ok := t.heads[override.ChargeHeadID]; !ok {
			return fmt.Errorf("%w: charge head %s does not exist", apperrors.ErrValidation, override.ChargeHeadID)
		}
		t.overrides[override.UnitID+"|"+override.ChargeHeadID] = override
		return nil
	})
}
