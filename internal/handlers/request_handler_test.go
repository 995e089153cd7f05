package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/homefix/maintenance-service/internal/models"
	"github.com/homefix/maintenance-service/internal/repository"
	"github.com/homefix/maintenance-service/internal/services"
	"github.com/homefix/maintenance-service/internal/utils"
)

func newTestRequestHandler() *RequestHandler {
	service := services.NewRequestService(
		repository.NewMemoryRequestRepository(nil),
		repository.NewMemoryPropertyRepository(),
	)
	logger := log.New(io.Discard, "", 0)
	return NewRequestHandler(service, logger, 5*time.Second)
}

func withRenter(r *http.Request) *http.Request {
	user := models.User{ID: "1", Email: "renter@example.com", Name: "Robert Renter", Role: models.RenterRole}
	return r.WithContext(utils.WithUser(r.Context(), user))
}

func TestCreateRequestHandler(t *testing.T) {
	h := newTestRequestHandler()

	body := `{"propertyId":"1","category":"plumbing","description":"leak"}`
	req := withRenter(httptest.NewRequest(http.MethodPost, "/api/requests/new", strings.NewReader(body)))
	rec := httptest.NewRecorder()

	h.CreateRequest(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d (%s)", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp models.RequestResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Maintenance request submitted successfully!" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if resp.Request.Status != models.SubmittedRequest {
		t.Errorf("expected status %q, got %q", models.SubmittedRequest, resp.Request.Status)
	}
	if resp.Request.PropertyAddress != "123 Main St, Apt 4B" {
		t.Errorf("expected snapshotted address, got %q", resp.Request.PropertyAddress)
	}
}

func TestCreateRequestHandlerBadBody(t *testing.T) {
	h := newTestRequestHandler()

	req := withRenter(httptest.NewRequest(http.MethodPost, "/api/requests/new", strings.NewReader("{not json")))
	rec := httptest.NewRecorder()

	h.CreateRequest(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAddBidHandlerRejectsEmptyDates(t *testing.T) {
	h := newTestRequestHandler()

	created := createRequestViaHandler(t, h)

	body := `{"price":100,"storeName":"Acme","phoneNumber":"555-1234","availableDates":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/requests/"+created.ID+"/bids/new", strings.NewReader(body))
	req.SetPathValue("requestId", created.ID)
	rec := httptest.NewRecorder()

	h.AddBid(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}

	var errResp models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Message == "" {
		t.Error("expected a user-visible rejection reason")
	}
}

func TestGetRequestByIDHandlerNotFound(t *testing.T) {
	h := newTestRequestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/requests/missing", nil)
	req.SetPathValue("requestId", "missing")
	rec := httptest.NewRecorder()

	h.GetRequestByID(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestGetMyRequestsHandlerRequiresUser(t *testing.T) {
	h := newTestRequestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/requests/my", nil)
	rec := httptest.NewRecorder()

	h.GetMyRequests(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func createRequestViaHandler(t *testing.T, h *RequestHandler) *models.MaintenanceRequest {
	t.Helper()

	body := `{"propertyId":"1","category":"plumbing","description":"leak"}`
	req := withRenter(httptest.NewRequest(http.MethodPost, "/api/requests/new", strings.NewReader(body)))
	rec := httptest.NewRecorder()

	h.CreateRequest(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("create request failed with %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.RequestResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Request
}
