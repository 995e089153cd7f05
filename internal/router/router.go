package router

import (
	"net/http"

	"github.com/homefix/maintenance-service/internal/handlers"
	"github.com/homefix/maintenance-service/internal/models"

	"github.com/justinas/alice"
	"github.com/rs/cors"
)

func InitRoutes(requestHandler *handlers.RequestHandler, authHandler *handlers.AuthHandler, mw *Middleware) http.Handler {
	mux := http.NewServeMux()

	standard := alice.New(mw.recoverPanic, mw.logRequest, secureHeaders)
	renterOnly := standard.Append(mw.RequireRole(models.RenterRole))
	landlordOnly := standard.Append(mw.RequireRole(models.LandlordRole))
	adminOnly := standard.Append(mw.RequireRole(models.AdminRole))
	anyRole := standard.Append(mw.RequireRole(models.RenterRole, models.LandlordRole, models.AdminRole))
	landlordOrAdmin := standard.Append(mw.RequireRole(models.LandlordRole, models.AdminRole))

	mux.Handle("/api/ping", standard.ThenFunc(handlers.PingHandler))

	mux.Handle("POST /api/auth/login", standard.ThenFunc(authHandler.Login))
	mux.Handle("POST /api/auth/signup", standard.ThenFunc(authHandler.SignUp))
	mux.Handle("POST /api/auth/logout", standard.ThenFunc(authHandler.Logout))

	mux.Handle("GET /api/properties", anyRole.ThenFunc(requestHandler.GetProperties))

	mux.Handle("GET /api/requests", landlordOrAdmin.ThenFunc(requestHandler.GetAllRequests))
	mux.Handle("GET /api/requests/my", renterOnly.ThenFunc(requestHandler.GetMyRequests))
	mux.Handle("GET /api/requests/{requestId}", anyRole.ThenFunc(requestHandler.GetRequestByID))
	mux.Handle("POST /api/requests/new", renterOnly.ThenFunc(requestHandler.CreateRequest))
	mux.Handle("PUT /api/requests/{requestId}/status", landlordOnly.ThenFunc(requestHandler.UpdateRequestStatus))

	mux.Handle("POST /api/requests/{requestId}/bids/new", adminOnly.ThenFunc(requestHandler.AddBid))
	mux.Handle("POST /api/requests/{requestId}/bids/{bidId}/accept", landlordOnly.ThenFunc(requestHandler.AcceptBid))

	mux.Handle("POST /api/requests/{requestId}/confirm", renterOnly.ThenFunc(requestHandler.ConfirmSchedule))
	mux.Handle("POST /api/requests/{requestId}/complete", adminOnly.ThenFunc(requestHandler.MarkRequestComplete))
	mux.Handle("POST /api/requests/{requestId}/rebid", renterOnly.ThenFunc(requestHandler.RequestRebid))
	mux.Handle("PUT /api/requests/{requestId}/rebid/decision", landlordOnly.ThenFunc(requestHandler.ApproveRebid))

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(mux)
}
