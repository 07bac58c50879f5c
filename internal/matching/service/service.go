package service

import (
	"context"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/matching/repository"
	"wholesale_crm_backend/internal/matching/scoring"
	"wholesale_crm_backend/internal/matching/transport"
	"wholesale_crm_backend/platform/apperr"
)

// MatchReader is the data access the service needs, satisfied by the
// module repository and by fakes in tests.
type MatchReader interface {
	FindPropertyByLead(ctx context.Context, leadID uuid.UUID) (*repository.PropertyRow, error)
	FindBuyersWithPreferences(ctx context.Context) ([]repository.BuyerRow, error)
}

type Service struct {
	repo MatchReader
}

func New(repo MatchReader) *Service {
	return &Service{repo: repo}
}

// MatchesForLead loads the lead's property and the full buyer list, runs
// the scorer, and returns the ranked result.
func (s *Service) MatchesForLead(ctx context.Context, leadID uuid.UUID) (*transport.MatchListResponse, error) {
	property, err := s.repo.FindPropertyByLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FindBuyersWithPreferences(ctx)
	if err != nil {
		appErr := apperr.Internal("failed to load buyers").WithOp("matching.MatchesForLead")
		appErr.Err = err
		return nil, appErr
	}

	buyers := make([]scoring.BuyerProfile, 0, len(rows))
	for _, row := range rows {
		buyers = append(buyers, toProfile(row))
	}

	results := scoring.ScoreBuyers(buyers, scoring.PropertySnapshot{
		Price:        property.Price,
		PropertyType: property.PropertyType,
		City:         property.City,
		State:        property.State,
	})

	items := make([]transport.MatchItem, len(results))
	for i, res := range results {
		reasons := res.MatchReasons
		if reasons == nil {
			reasons = []string{}
		}
		items[i] = transport.MatchItem{
			BuyerID:      res.BuyerID.String(),
			BuyerName:    res.BuyerName,
			MatchScore:   res.MatchScore,
			MatchReasons: reasons,
		}
	}

	return &transport.MatchListResponse{
		LeadID:  leadID.String(),
		Matches: items,
		Total:   len(items),
	}, nil
}

func toProfile(row repository.BuyerRow) scoring.BuyerProfile {
	profile := scoring.BuyerProfile{
		ID:           row.ID,
		Name:         row.Name,
		CashBuyer:    row.CashBuyer,
		ProofOfFunds: row.ProofOfFunds,
	}
	if row.HasPreference {
		profile.Preference = &scoring.Preference{
			MinPrice:      row.MinPrice,
			MaxPrice:      row.MaxPrice,
			Areas:         row.Areas,
			PropertyTypes: row.PropertyTypes,
		}
	}
	return profile
}
