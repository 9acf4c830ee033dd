package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/landrise/Fund-Distribution-Backend/internal/api/handlers"
	custommiddleware "github.com/landrise/Fund-Distribution-Backend/internal/api/middleware"
	"github.com/landrise/Fund-Distribution-Backend/internal/config"
	"github.com/landrise/Fund-Distribution-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	fundService *service.FundService,
	distributionService *service.DistributionService,
	accrualService *service.AccrualService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		fundHandler := handlers.NewFundHandler(fundService)
		distributionHandler := handlers.NewDistributionHandler(distributionService)
		accrualHandler := handlers.NewAccrualHandler(accrualService)

		r.Route("/fund", func(r chi.Router) {
			r.Get("/", fundHandler.AllFunds)
			r.Post("/", fundHandler.CreateFund)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", fundHandler.GetFund)
				r.Get("/investors", fundHandler.FundInvestors)
				r.Post("/investors", fundHandler.CreateInvestor)
				r.Get("/tiers", fundHandler.FundTiers)
				r.Put("/tiers", fundHandler.ReplaceTiers)
				r.Get("/distributions", distributionHandler.FundDistributions)
				r.Get("/accruals", accrualHandler.FundAccruals)
			})
		})

		r.Route("/investor", func(r chi.Router) {
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Put("/", fundHandler.UpdateInvestor)
			})
		})

		r.Route("/distribution", func(r chi.Router) {
			r.Post("/", distributionHandler.CreateDistribution)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", distributionHandler.GetDistribution)
				r.Post("/calculate", distributionHandler.Calculate)
				r.Post("/save", distributionHandler.SaveCalculation)
				r.Get("/calculation", distributionHandler.LatestCalculation)
			})
		})

		r.Route("/calculation", func(r chi.Router) {
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Post("/approve", distributionHandler.Approve)
				r.Post("/record", distributionHandler.Record)
			})
		})

		// Internal namespace, API key protected
		r.Route("/internal", func(r chi.Router) {
			r.Use(custommiddleware.APIKeyMiddleware)
			r.Post("/accruals/run", accrualHandler.RunSnapshots)
		})
	})

	return r
}
