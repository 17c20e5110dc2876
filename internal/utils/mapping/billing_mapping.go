package mapping

import (
	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/SscSPs/society_ledger/internal/models"
)

func ToModelChargeHead(d domain.ChargeHead) models.ChargeHead {
	return models.ChargeHead{
		ChargeHeadID:    d.ChargeHeadID,
		TenantID:        d.TenantID,
		Name:            d.Name,
		CalculationType: string(d.CalculationType),
		Rate:            d.Rate,
		GSTApplicable:   d.GSTApplicable,
		GSTRate:         d.GSTRate,
		IncomeAccountID: d.IncomeAccountID,
		IsActive:        d.IsActive,
		SortOrder:       d.SortOrder,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainChargeHead(m models.ChargeHead) domain.ChargeHead {
	return domain.ChargeHead{
		ChargeHeadID:    m.ChargeHeadID,
		TenantID:        m.TenantID,
		Name:            m.Name,
		CalculationType: domain.CalculationType(m.CalculationType),
		Rate:            m.Rate,
		GSTApplicable:   m.GSTApplicable,
		GSTRate:         m.GSTRate,
		IncomeAccountID: m.IncomeAccountID,
		IsActive:        m.IsActive,
		SortOrder:       m.SortOrder,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUnit converts a model Unit to a domain Unit. A blank member id means
// the unit has no active member.
func ToDomainUnit(m models.Unit) domain.Unit {
	u := domain.Unit{
		UnitID:      m.UnitID,
		TenantID:    m.TenantID,
		UnitNumber:  m.UnitNumber,
		AreaSqft:    m.AreaSqft,
		IsBillable:  m.IsBillable,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.MemberID != "" {
		u.ActiveMember = &domain.Member{
			MemberID: m.MemberID,
			Name:     m.MemberName,
			Email:    m.MemberEmail,
			Phone:    m.MemberPhone,
		}
	}
	return u
}

func ToModelUnit(d domain.Unit) models.Unit {
	m := models.Unit{
		UnitID:      d.UnitID,
		TenantID:    d.TenantID,
		UnitNumber:  d.UnitNumber,
		AreaSqft:    d.AreaSqft,
		IsBillable:  d.IsBillable,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	if d.ActiveMember != nil {
		m.MemberID = d.ActiveMember.MemberID
		m.MemberName = d.ActiveMember.Name
		m.MemberEmail = d.ActiveMember.Email
		m.MemberPhone = d.ActiveMember.Phone
	}
	return m
}

func ToDomainBillingConfig(m models.BillingConfig) domain.BillingConfig {
	return domain.BillingConfig{
		TenantID:            m.TenantID,
		DueDay:              m.DueDay,
		InterestRatePercent: m.InterestRatePercent,
		GraceDays:           m.GraceDays,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainRateOverride(m models.UnitRateOverride) domain.UnitRateOverride {
	return domain.UnitRateOverride{
		TenantID:     m.TenantID,
		UnitID:       m.UnitID,
		ChargeHeadID: m.ChargeHeadID,
		Rate:         m.Rate,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
