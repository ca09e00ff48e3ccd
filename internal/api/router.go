/**
 * @description
 * This file sets up the HTTP router for the donation-service. It defines the
 * API endpoints, associates them with their corresponding handlers, and
 * applies middleware for logging, panic recovery, timeouts and CORS.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware; the donation widget is embedded
 *   on third-party pages, so the API is intentionally permissive.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DonationRoutes creates and returns the router for the donation service.
func DonationRoutes(h *DonationHandlers) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/create-invoice", h.CreateInvoiceHandler)
	r.Get("/check-payment", h.CheckPaymentHandler)
	r.Get("/confirm-payment", h.ConfirmPaymentHandler)
	r.Get("/donation-stats", h.DonationStatsHandler)
	r.Get("/recent-donations", h.RecentDonationsHandler)
	r.Get("/donation-receipt", h.DonationReceiptHandler)

	return r
}
