package mapping

import (
	"github.com/nimbusfin/coreledger/internal/core/domain"
	"github.com/nimbusfin/coreledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		Name:          d.Name,
		AccountType:   string(d.AccountType),
		CurrencyCode:  d.CurrencyCode,
		Description:   d.Description,
		IsActive:      d.IsActive,
		Balance:       d.Balance,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		Name:         m.Name,
		AccountType:  domain.AccountType(m.AccountType),
		CurrencyCode: m.CurrencyCode,
		Description:  m.Description,
		IsActive:     m.IsActive,
		Balance:      m.Balance,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}
