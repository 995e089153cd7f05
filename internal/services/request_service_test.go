package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/homefix/maintenance-service/internal/models"
	"github.com/homefix/maintenance-service/internal/repository"
)

var testRenter = models.User{ID: "1", Email: "renter@example.com", Name: "Robert Renter", Role: models.RenterRole}

func newTestService() *RequestService {
	repo := repository.NewMemoryRequestRepository(nil)
	return NewRequestService(repo, repository.NewMemoryPropertyRepository())
}

func createTestRequest(t *testing.T, s *RequestService) *models.MaintenanceRequest {
	t.Helper()
	request, err := s.CreateRequest(context.Background(), testRenter, models.RequestInput{
		PropertyID:  "1",
		Category:    models.Plumbing,
		Description: "leak under the kitchen sink",
	})
	if err != nil {
		t.Fatalf("CreateRequest returned error: %v", err)
	}
	return request
}

func statusCode(t *testing.T, err error) int {
	t.Helper()
	errorResponse, ok := err.(*models.ErrorResponse)
	if !ok {
		t.Fatalf("expected *models.ErrorResponse, got %T (%v)", err, err)
	}
	return errorResponse.StatusCode
}

func TestCreateRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("submission", func(t *testing.T) {
		s := newTestService()
		request := createTestRequest(t, s)

		if request.ID == "" {
			t.Fatal("expected a fresh id, got empty string")
		}
		if request.Status != models.SubmittedRequest {
			t.Fatalf("expected status %q, got %q", models.SubmittedRequest, request.Status)
		}
		if len(request.Bids) != 0 {
			t.Fatalf("expected no bids, got %d", len(request.Bids))
		}
		if request.RenterName != "Robert Renter" {
			t.Errorf("expected renter name snapshot, got %q", request.RenterName)
		}
		if request.PropertyAddress != "123 Main St, Apt 4B" {
			t.Errorf("expected property address snapshot, got %q", request.PropertyAddress)
		}
		if request.CreatedAt.IsZero() || !request.CreatedAt.Equal(request.UpdatedAt) {
			t.Errorf("expected createdAt == updatedAt, got %v and %v", request.CreatedAt, request.UpdatedAt)
		}
	})

	t.Run("unique ids", func(t *testing.T) {
		s := newTestService()
		first := createTestRequest(t, s)
		second := createTestRequest(t, s)
		if first.ID == second.ID {
			t.Fatalf("expected distinct ids, got %q twice", first.ID)
		}
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		s := newTestService()
		_, err := s.CreateRequest(ctx, testRenter, models.RequestInput{
			PropertyID:  "1",
			Category:    "roofing",
			Description: "broken tile",
		})
		if code := statusCode(t, err); code != http.StatusBadRequest {
			t.Fatalf("expected %d, got %d", http.StatusBadRequest, code)
		}
	})

	t.Run("rejects unknown property", func(t *testing.T) {
		s := newTestService()
		_, err := s.CreateRequest(ctx, testRenter, models.RequestInput{
			PropertyID:  "99",
			Category:    models.Plumbing,
			Description: "leak",
		})
		if code := statusCode(t, err); code != http.StatusBadRequest {
			t.Fatalf("expected %d, got %d", http.StatusBadRequest, code)
		}
	})
}

func TestBiddingAndAcceptance(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	request := createTestRequest(t, s)

	if _, err := s.UpdateRequestStatus(ctx, request.ID, models.SeekingBidsRequest); err != nil {
		t.Fatalf("UpdateRequestStatus returned error: %v", err)
	}

	updated, err := s.AddBid(ctx, request.ID, models.BidInput{
		Price:          100,
		StoreName:      "Acme",
		PhoneNumber:    "555-1234",
		AvailableDates: []string{"2024-01-10", "2024-01-12"},
	})
	if err != nil {
		t.Fatalf("AddBid returned error: %v", err)
	}
	if updated.Status != models.BidsReceivedRequest {
		t.Fatalf("expected status %q, got %q", models.BidsReceivedRequest, updated.Status)
	}
	if len(updated.Bids) != 1 {
		t.Fatalf("expected 1 bid, got %d", len(updated.Bids))
	}

	bidID := updated.Bids[0].ID
	accepted, err := s.AcceptBid(ctx, request.ID, bidID)
	if err != nil {
		t.Fatalf("AcceptBid returned error: %v", err)
	}
	if accepted.Status != models.ScheduledRequest {
		t.Fatalf("expected status %q, got %q", models.ScheduledRequest, accepted.Status)
	}
	if accepted.ScheduledDate != "2024-01-10" {
		t.Fatalf("expected scheduled date %q, got %q", "2024-01-10", accepted.ScheduledDate)
	}
	if accepted.AcceptedBidID != bidID {
		t.Fatalf("expected accepted bid id %q, got %q", bidID, accepted.AcceptedBidID)
	}
}

func TestAddBidValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty available dates without mutating the store", func(t *testing.T) {
		s := newTestService()
		request := createTestRequest(t, s)

		_, err := s.AddBid(ctx, request.ID, models.BidInput{
			Price:       50,
			StoreName:   "Acme",
			PhoneNumber: "555-1234",
		})
		if code := statusCode(t, err); code != http.StatusBadRequest {
			t.Fatalf("expected %d, got %d", http.StatusBadRequest, code)
		}

		stored, err := s.GetRequestByID(ctx, request.ID)
		if err != nil {
			t.Fatalf("GetRequestByID returned error: %v", err)
		}
		if len(stored.Bids) != 0 {
			t.Fatalf("expected store unchanged, got %d bids", len(stored.Bids))
		}
		if stored.Status != models.SubmittedRequest {
			t.Fatalf("expected status unchanged, got %q", stored.Status)
		}
	})

	t.Run("rejects negative price", func(t *testing.T) {
		s := newTestService()
		request := createTestRequest(t, s)

		_, err := s.AddBid(ctx, request.ID, models.BidInput{
			Price:          -5,
			StoreName:      "Acme",
			PhoneNumber:    "555-1234",
			AvailableDates: []string{"2024-01-10"},
		})
		if code := statusCode(t, err); code != http.StatusBadRequest {
			t.Fatalf("expected %d, got %d", http.StatusBadRequest, code)
		}
	})

	t.Run("rejects unknown request", func(t *testing.T) {
		s := newTestService()
		_, err := s.AddBid(ctx, "missing", models.BidInput{
			Price:          10,
			StoreName:      "Acme",
			PhoneNumber:    "555-1234",
			AvailableDates: []string{"2024-01-10"},
		})
		if code := statusCode(t, err); code != http.StatusNotFound {
			t.Fatalf("expected %d, got %d", http.StatusNotFound, code)
		}
	})
}

func TestAcceptBidUnknownBid(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	request := createTestRequest(t, s)

	_, err := s.AcceptBid(ctx, request.ID, "missing-bid")
	if code := statusCode(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, code)
	}
}

func TestDeclinePathIsTerminal(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	request := createTestRequest(t, s)

	declined, err := s.UpdateRequestStatus(ctx, request.ID, models.DeclinedRequest)
	if err != nil {
		t.Fatalf("UpdateRequestStatus returned error: %v", err)
	}
	if declined.Status != models.DeclinedRequest {
		t.Fatalf("expected status %q, got %q", models.DeclinedRequest, declined.Status)
	}

	for _, next := range []models.RequestStatus{
		models.SubmittedRequest,
		models.SeekingBidsRequest,
		models.ScheduledRequest,
		models.CompletedRequest,
	} {
		_, err := s.UpdateRequestStatus(ctx, request.ID, next)
		if code := statusCode(t, err); code != http.StatusBadRequest {
			t.Fatalf("expected transition to %q to be rejected with %d, got %d", next, http.StatusBadRequest, code)
		}
	}
}

func TestUpdateRequestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects status outside the enumeration", func(t *testing.T) {
		s := newTestService()
		request := createTestRequest(t, s)
		_, err := s.UpdateRequestStatus(ctx, request.ID, "archived")
		if code := statusCode(t, err); code != http.StatusBadRequest {
			t.Fatalf("expected %d, got %d", http.StatusBadRequest, code)
		}
	})

	t.Run("rejects skipping ahead in the lifecycle", func(t *testing.T) {
		s := newTestService()
		request := createTestRequest(t, s)
		_, err := s.UpdateRequestStatus(ctx, request.ID, models.CompletedRequest)
		if code := statusCode(t, err); code != http.StatusBadRequest {
			t.Fatalf("expected %d, got %d", http.StatusBadRequest, code)
		}
	})

	t.Run("unknown request id", func(t *testing.T) {
		s := newTestService()
		_, err := s.UpdateRequestStatus(ctx, "missing", models.SeekingBidsRequest)
		if code := statusCode(t, err); code != http.StatusNotFound {
			t.Fatalf("expected %d, got %d", http.StatusNotFound, code)
		}
	})
}

func TestConfirmSchedule(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	request := createTestRequest(t, s)

	confirmed, err := s.ConfirmSchedule(ctx, request.ID, true)
	if err != nil {
		t.Fatalf("ConfirmSchedule returned error: %v", err)
	}
	if !confirmed.IsConfirmed || confirmed.Status != models.ScheduledRequest {
		t.Fatalf("expected confirmed scheduled request, got isConfirmed=%v status=%q", confirmed.IsConfirmed, confirmed.Status)
	}

	declined, err := s.ConfirmSchedule(ctx, request.ID, false)
	if err != nil {
		t.Fatalf("ConfirmSchedule returned error: %v", err)
	}
	if declined.IsConfirmed || declined.Status != models.BidAcceptedRequest {
		t.Fatalf("expected reschedule to fall back to %q, got isConfirmed=%v status=%q",
			models.BidAcceptedRequest, declined.IsConfirmed, declined.Status)
	}
}

func TestMarkRequestComplete(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	request := createTestRequest(t, s)

	completed, err := s.MarkRequestComplete(ctx, request.ID, "")
	if err != nil {
		t.Fatalf("MarkRequestComplete returned error: %v", err)
	}
	if completed.Status != models.CompletedRequest {
		t.Fatalf("expected status %q, got %q", models.CompletedRequest, completed.Status)
	}
	if completed.CompletedDate == nil {
		t.Fatal("expected completedDate to be set")
	}
	if completed.CompletedNotes != "Work completed successfully." {
		t.Fatalf("expected default notes, got %q", completed.CompletedNotes)
	}
}

func TestRebidFlow(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	request := createTestRequest(t, s)

	if _, err := s.UpdateRequestStatus(ctx, request.ID, models.SeekingBidsRequest); err != nil {
		t.Fatalf("UpdateRequestStatus returned error: %v", err)
	}
	withBid, err := s.AddBid(ctx, request.ID, models.BidInput{
		Price:          200,
		StoreName:      "Acme",
		PhoneNumber:    "555-1234",
		AvailableDates: []string{"2024-02-01"},
	})
	if err != nil {
		t.Fatalf("AddBid returned error: %v", err)
	}
	if _, err := s.AcceptBid(ctx, request.ID, withBid.Bids[0].ID); err != nil {
		t.Fatalf("AcceptBid returned error: %v", err)
	}

	rebid, err := s.RequestRebid(ctx, request.ID, "wrong tech")
	if err != nil {
		t.Fatalf("RequestRebid returned error: %v", err)
	}
	if rebid.Status != models.ScheduledRequest {
		t.Fatalf("expected status unchanged (%q), got %q", models.ScheduledRequest, rebid.Status)
	}
	if !rebid.RebidRequired || rebid.RebidReason != "wrong tech" {
		t.Fatalf("expected rebidRequired with reason, got required=%v reason=%q", rebid.RebidRequired, rebid.RebidReason)
	}

	approved, err := s.ApproveRebid(ctx, request.ID, true)
	if err != nil {
		t.Fatalf("ApproveRebid returned error: %v", err)
	}
	if approved.Status != models.SeekingBidsRequest {
		t.Fatalf("expected status %q, got %q", models.SeekingBidsRequest, approved.Status)
	}
	if approved.RebidApproved == nil || !*approved.RebidApproved {
		t.Fatal("expected rebidApproved to be true")
	}
}

func TestApproveRebidDeclinedKeepsStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	request := createTestRequest(t, s)

	rejected, err := s.ApproveRebid(ctx, request.ID, false)
	if err != nil {
		t.Fatalf("ApproveRebid returned error: %v", err)
	}
	if rejected.Status != models.SubmittedRequest {
		t.Fatalf("expected status unchanged (%q), got %q", models.SubmittedRequest, rejected.Status)
	}
	if rejected.RebidApproved == nil || *rejected.RebidApproved {
		t.Fatal("expected rebidApproved to be false")
	}
}

// Статус заявки всегда остаётся в пределах перечисления, а updatedAt
// не убывает на протяжении всей последовательности операций.
func TestLifecycleInvariants(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	request := createTestRequest(t, s)

	lastUpdated := request.UpdatedAt
	checkInvariants := func(r *models.MaintenanceRequest) {
		t.Helper()
		if !models.AllowedStatuses[r.Status] {
			t.Fatalf("status %q is outside the enumeration", r.Status)
		}
		if r.UpdatedAt.Before(lastUpdated) {
			t.Fatalf("updatedAt went backwards: %v -> %v", lastUpdated, r.UpdatedAt)
		}
		if r.AcceptedBidID != "" {
			found := false
			for _, bid := range r.Bids {
				if bid.ID == r.AcceptedBidID {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("acceptedBidId %q does not reference a stored bid", r.AcceptedBidID)
			}
		}
		lastUpdated = r.UpdatedAt
	}

	r, err := s.UpdateRequestStatus(ctx, request.ID, models.SeekingBidsRequest)
	if err != nil {
		t.Fatalf("UpdateRequestStatus returned error: %v", err)
	}
	checkInvariants(r)

	r, err = s.AddBid(ctx, request.ID, models.BidInput{
		Price:          75,
		StoreName:      "Acme",
		PhoneNumber:    "555-1234",
		AvailableDates: []string{"2024-03-05", "2024-03-06"},
	})
	if err != nil {
		t.Fatalf("AddBid returned error: %v", err)
	}
	checkInvariants(r)

	r, err = s.AcceptBid(ctx, request.ID, r.Bids[0].ID)
	if err != nil {
		t.Fatalf("AcceptBid returned error: %v", err)
	}
	checkInvariants(r)

	r, err = s.RequestRebid(ctx, request.ID, "quote too high")
	if err != nil {
		t.Fatalf("RequestRebid returned error: %v", err)
	}
	checkInvariants(r)

	r, err = s.ApproveRebid(ctx, request.ID, true)
	if err != nil {
		t.Fatalf("ApproveRebid returned error: %v", err)
	}
	checkInvariants(r)

	r, err = s.MarkRequestComplete(ctx, request.ID, "replaced the trap")
	if err != nil {
		t.Fatalf("MarkRequestComplete returned error: %v", err)
	}
	checkInvariants(r)
}

// Срез предложений только растёт: каждое наблюдение является
// префиксом следующего.
func TestBidsAppendOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	request := createTestRequest(t, s)

	if _, err := s.UpdateRequestStatus(ctx, request.ID, models.SeekingBidsRequest); err != nil {
		t.Fatalf("UpdateRequestStatus returned error: %v", err)
	}

	var previous []string
	for i, store := range []string{"Acme", "Bolt Bros", "CityFix"} {
		r, err := s.AddBid(ctx, request.ID, models.BidInput{
			Price:          float64(100 + i),
			StoreName:      store,
			PhoneNumber:    "555-0000",
			AvailableDates: []string{"2024-04-01"},
		})
		if err != nil {
			t.Fatalf("AddBid returned error: %v", err)
		}
		if len(r.Bids) != len(previous)+1 {
			t.Fatalf("expected %d bids, got %d", len(previous)+1, len(r.Bids))
		}
		for j, id := range previous {
			if r.Bids[j].ID != id {
				t.Fatalf("earlier observation is not a prefix: position %d changed", j)
			}
		}
		previous = previous[:0]
		for _, bid := range r.Bids {
			previous = append(previous, bid.ID)
		}
	}
}

func TestReadAccessors(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	first := createTestRequest(t, s)
	second := createTestRequest(t, s)

	t.Run("by renter id preserves insertion order", func(t *testing.T) {
		requests, err := s.GetRequestsByRenterID(ctx, testRenter.ID)
		if err != nil {
			t.Fatalf("GetRequestsByRenterID returned error: %v", err)
		}
		if len(requests) != 2 {
			t.Fatalf("expected 2 requests, got %d", len(requests))
		}
		if requests[0].ID != first.ID || requests[1].ID != second.ID {
			t.Fatal("expected requests in insertion order")
		}
	})

	t.Run("by unknown renter id", func(t *testing.T) {
		requests, err := s.GetRequestsByRenterID(ctx, "nobody")
		if err != nil {
			t.Fatalf("GetRequestsByRenterID returned error: %v", err)
		}
		if len(requests) != 0 {
			t.Fatalf("expected no requests, got %d", len(requests))
		}
	})

	t.Run("unknown request id", func(t *testing.T) {
		_, err := s.GetRequestByID(ctx, "missing")
		if code := statusCode(t, err); code != http.StatusNotFound {
			t.Fatalf("expected %d, got %d", http.StatusNotFound, code)
		}
	})
}
