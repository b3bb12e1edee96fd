/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. CORS:          Cross-origin requests for frontends
  2. RequestLogger: Structured request logging (httplog over slog)
  3. CleanPath:     Normalized URLs
  4. Recoverer:     Panic recovery (500 instead of crash)
  5. Heartbeat:     Liveness probe on /health

ROUTE GROUPS:
  /api/intervals/*      Interval recording and derived rows
  /api/employees/*      Employee records, balances, listings
  /api/claims           Claim submission
  /api/policies/*       Policy management
  /api/penalty-types/*  Penalty category reference data
  /api/cost-codes/*     Cost code reference data
  /api/teams/*          Teams, membership, reports
  /api/holidays/*       Holiday calendar
  /api/admin/*          Pay period administration

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler, logger *slog.Logger, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.CleanPath)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	r.Route("/api", func(r chi.Router) {
		r.Route("/intervals", func(r chi.Router) {
			r.Post("/", h.RecordInterval)
			r.Get("/{id}", h.GetInterval)
			r.Get("/{id}/rows", h.GetLedgerRows)
			r.Get("/{id}/cost-codes", h.GetCostCodeRows)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Get("/{id}/balance", h.GetBalance)
			r.Get("/{id}/intervals", h.ListEmployeeIntervals)
			r.Get("/{id}/claims", h.ListEmployeeClaims)
		})

		r.Post("/claims", h.SubmitClaim)

		r.Route("/policies", func(r chi.Router) {
			r.Get("/", h.ListPolicies)
			r.Post("/", h.CreatePolicy)
			r.Get("/{id}", h.GetPolicy)
			r.Delete("/{id}", h.DeletePolicy)
		})

		r.Route("/penalty-types", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})

		r.Route("/cost-codes", func(r chi.Router) {
			r.Get("/", h.ListCostCodes)
			r.Post("/", h.CreateCostCode)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.ListTeams)
			r.Post("/", h.CreateTeam)
			r.Get("/{id}", h.GetTeam)
			r.Delete("/{id}", h.DeleteTeam)
			r.Get("/{id}/report", h.TeamReport)
			r.Post("/{id}/staff", h.AddStaff)
			r.Delete("/{id}/staff/{employeeID}", h.RemoveStaff)
			r.Post("/{id}/manager", h.AddManager)
			r.Delete("/{id}/manager/{employeeID}", h.RemoveManager)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Delete("/{date}", h.DeleteHoliday)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/pay-period", h.GetPayPeriod)
			r.Put("/pay-period", h.SetPayPeriod)
			r.Post("/pay-period/advance", h.AdvancePayPeriod)
		})
	})

	return r
}
