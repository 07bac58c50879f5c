package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/matching/repository"
	"wholesale_crm_backend/platform/apperr"
)

type fakeMatchReader struct {
	property *repository.PropertyRow
	buyers   []repository.BuyerRow

	propertyErr error
	buyersErr   error
}

func (f *fakeMatchReader) FindPropertyByLead(_ context.Context, _ uuid.UUID) (*repository.PropertyRow, error) {
	if f.propertyErr != nil {
		return nil, f.propertyErr
	}
	return f.property, nil
}

func (f *fakeMatchReader) FindBuyersWithPreferences(_ context.Context) ([]repository.BuyerRow, error) {
	if f.buyersErr != nil {
		return nil, f.buyersErr
	}
	return f.buyers, nil
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestMatchesForLeadRanksBuyers(t *testing.T) {
	leadID := uuid.New()
	strongID := uuid.New()
	generalID := uuid.New()

	reader := &fakeMatchReader{
		property: &repository.PropertyRow{
			LeadID:       leadID,
			Price:        floatPtr(250000),
			PropertyType: strPtr("Duplex"),
			City:         "Dallas",
			State:        "TX",
		},
		buyers: []repository.BuyerRow{
			{ID: generalID, Name: "General Partner"},
			{
				ID: strongID, Name: "Dallas Duplex Fund", CashBuyer: true,
				HasPreference: true,
				MinPrice:      floatPtr(200000), MaxPrice: floatPtr(400000),
				Areas:         []string{"Dallas"},
				PropertyTypes: []string{"Duplex"},
			},
		},
	}

	svc := New(reader)
	resp, err := svc.MatchesForLead(context.Background(), leadID)
	if err != nil {
		t.Fatalf("MatchesForLead: %v", err)
	}

	if resp.Total != 2 {
		t.Fatalf("expected 2 matches, got %d", resp.Total)
	}
	if resp.Matches[0].BuyerID != strongID.String() {
		t.Errorf("expected preference-backed buyer first, got %s", resp.Matches[0].BuyerName)
	}
	if resp.Matches[0].MatchScore != 100 {
		t.Errorf("expected full match score, got %d", resp.Matches[0].MatchScore)
	}
	if resp.Matches[1].MatchScore != 10 {
		t.Errorf("expected general investor score 10, got %d", resp.Matches[1].MatchScore)
	}
	if resp.LeadID != leadID.String() {
		t.Errorf("expected lead id %s, got %s", leadID, resp.LeadID)
	}
}

func TestMatchesForLeadPropertyNotFound(t *testing.T) {
	reader := &fakeMatchReader{propertyErr: apperr.NotFound("property not found for lead")}
	svc := New(reader)

	_, err := svc.MatchesForLead(context.Background(), uuid.New())
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestMatchesForLeadBuyerQueryFailure(t *testing.T) {
	reader := &fakeMatchReader{
		property:  &repository.PropertyRow{LeadID: uuid.New()},
		buyersErr: errors.New("connection refused"),
	}
	svc := New(reader)

	_, err := svc.MatchesForLead(context.Background(), uuid.New())
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestMatchesForLeadEmptyBuyerList(t *testing.T) {
	reader := &fakeMatchReader{property: &repository.PropertyRow{LeadID: uuid.New()}}
	svc := New(reader)

	resp, err := svc.MatchesForLead(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("MatchesForLead: %v", err)
	}
	if resp.Total != 0 || len(resp.Matches) != 0 {
		t.Errorf("expected empty match list, got %+v", resp)
	}
}
