package mapping

import (
	"github.com/nimbusfin/coreledger/internal/core/domain"
	"github.com/nimbusfin/coreledger/internal/models"
)

// ToModelEntrySet converts a domain EntrySet header to its model form.
func ToModelEntrySet(d domain.EntrySet) models.EntrySet {
	return models.EntrySet{
		EntrySetID:          d.EntrySetID,
		CommandID:           d.CommandID,
		Description:         d.Description,
		Status:              string(d.Status),
		OriginalEntrySetID:  d.OriginalEntrySetID,
		ReversingEntrySetID: d.ReversingEntrySetID,
		CreatedAt:           d.CreatedAt,
		CreatedBy:           d.CreatedBy,
		LastUpdatedAt:       d.LastUpdatedAt,
		LastUpdatedBy:       d.LastUpdatedBy,
	}
}

// ToDomainEntrySet converts a model EntrySet header to its domain form.
func ToDomainEntrySet(m models.EntrySet) domain.EntrySet {
	return domain.EntrySet{
		EntrySetID:          m.EntrySetID,
		CommandID:           m.CommandID,
		Description:         m.Description,
		Status:              domain.EntrySetStatus(m.Status),
		OriginalEntrySetID:  m.OriginalEntrySetID,
		ReversingEntrySetID: m.ReversingEntrySetID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToModelEntry converts a domain Entry to its model form.
func ToModelEntry(d domain.Entry) models.Entry {
	return models.Entry{
		EntryID:        d.EntryID,
		EntrySetID:     d.EntrySetID,
		AccountID:      d.AccountID,
		Amount:         d.Amount,
		Direction:      string(d.Direction),
		CurrencyCode:   d.CurrencyCode,
		CommandID:      d.CommandID,
		RunningBalance: d.RunningBalance,
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
		LastUpdatedAt:  d.LastUpdatedAt,
		LastUpdatedBy:  d.LastUpdatedBy,
	}
}

// ToDomainEntry converts a model Entry to its domain form.
func ToDomainEntry(m models.Entry) domain.Entry {
	return domain.Entry{
		EntryID:        m.EntryID,
		EntrySetID:     m.EntrySetID,
		AccountID:      m.AccountID,
		Amount:         m.Amount,
		Direction:      domain.EntryDirection(m.Direction),
		CurrencyCode:   m.CurrencyCode,
		CommandID:      m.CommandID,
		RunningBalance: m.RunningBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}
