// Package web serves the OurJourney HTTP API: entry CRUD, quick capture,
// the calendar and insights views, weekly rituals, and the ICS feed.
package web

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ourjourney/internal/config"
	"ourjourney/internal/errors"
)

// NewServer creates and configures the HTTP server for the journal API.
func NewServer(db *sql.DB, cfg *config.Config, version, bind string, port int) *http.Server {
	h := &Handlers{
		db:      db,
		cfg:     cfg,
		version: version,
	}

	mux := http.NewServeMux()

	// Unauthenticated routes
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("POST /api/auth/login", h.HandleLogin)

	// Authenticated API, using Go 1.22+ pattern syntax
	api := http.NewServeMux()
	api.HandleFunc("POST /api/capture", h.HandleCapture)
	api.HandleFunc("GET /api/entries", h.HandleListEntries)
	api.HandleFunc("POST /api/entries", h.HandleCreateEntry)
	api.HandleFunc("GET /api/entries/{id}", h.HandleGetEntry)
	api.HandleFunc("GET /api/entries/{id}/html", h.HandleEntryHTML)
	api.HandleFunc("PUT /api/entries/{id}", h.HandleUpdateEntry)
	api.HandleFunc("PATCH /api/entries/{id}", h.HandleUpdateEntry)
	api.HandleFunc("DELETE /api/entries/{id}", h.HandleDeleteEntry)
	api.HandleFunc("GET /api/calendar/month/{year}/{month}", h.HandleCalendarMonth)
	api.HandleFunc("GET /api/calendar/day/{date}", h.HandleCalendarDay)
	api.HandleFunc("GET /api/ideas", h.HandleIdeas)
	api.HandleFunc("POST /api/ideas", h.HandleCreateIdea)
	api.HandleFunc("GET /api/rituals/current", h.HandleRitualCurrent)
	api.HandleFunc("POST /api/rituals", h.HandleRitualSave)
	api.HandleFunc("GET /api/insights", h.HandleInsights)
	api.HandleFunc("GET /calendar.ics", h.HandleICSFeed)

	mux.Handle("/", h.requireAuth(api))

	// Wrap with CORS and security headers
	handler := securityHeaders(corsMiddleware(cfg.CORSOrigins, mux))

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware answers preflight requests and stamps the allowed origin.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed := matchOrigin(origins, origin); allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// matchOrigin resolves the Access-Control-Allow-Origin value for a request origin.
func matchOrigin(origins []string, origin string) string {
	for _, o := range origins {
		if o == "*" {
			return "*"
		}
		if origin != "" && o == origin {
			return origin
		}
	}
	return ""
}

// requireAuth enforces the shared-password bearer token on API routes.
// With no password configured, the API is open (local single-user mode).
func (h *Handlers) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.cfg.AuthPassword == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.cfg.AuthPassword)) != 1 {
			renderError(w, errors.NewUnauthorized())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}
	return auth[len(prefix):], true
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("OurJourney API running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
