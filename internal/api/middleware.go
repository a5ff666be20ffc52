package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ismailisimba/scraper/internal/ratelimit"
	"github.com/ismailisimba/scraper/pkg/models"
)

// RateLimitMiddleware enforces the per-owner request budget on the task
// route. Requests that carry no owner identity pass through unlimited.
func RateLimitMiddleware(limiter *ratelimit.Limiter, requestsPerHour int) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID := getOwnerID(r)
			if ownerID == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(ownerID) {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(requestsPerHour))
				w.Header().Set("X-RateLimit-Remaining", "0")
				writeJSON(w, http.StatusTooManyRequests, models.Failure("Rate limit exceeded."))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(requestsPerHour))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens(ownerID))))
			next.ServeHTTP(w, r)
		})
	}
}

// getOwnerID extracts the owner identity from query, header or the JSON
// body, in that order. The body is restored for the handler.
func getOwnerID(r *http.Request) string {
	if id := r.URL.Query().Get("userId"); id != "" {
		return id
	}
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return ownerFromBody(r)
}

func ownerFromBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	data, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	var body struct {
		UserID string `json:"userId"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	return body.UserID
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
