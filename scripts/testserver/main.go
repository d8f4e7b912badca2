// Command testserver is a local HTTP target for exercising pacer. It serves
// JSON endpoints with configurable latency and error injection so pacing,
// checks and failure reporting can be tried without a real system under test.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"
)

func main() {
	port := flag.Int("port", 8080, "Listening port")
	latency := flag.Duration("latency", 0, "Fixed delay added to every response")
	jitter := flag.Duration("jitter", 0, "Random extra delay, uniform in [0, jitter)")
	errorRate := flag.Float64("error-rate", 0, "Fraction of requests answered with HTTP 500")
	flag.Parse()

	if *errorRate < 0 || *errorRate > 1 {
		log.Fatalf("error-rate must be between 0 and 1")
	}

	var served atomic.Int64

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			delay := *latency
			if *jitter > 0 {
				delay += time.Duration(rand.Int63n(int64(*jitter)))
			}
			if delay > 0 {
				time.Sleep(delay)
			}
			served.Add(1)
			if *errorRate > 0 && rand.Float64() < *errorRate {
				respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "injected failure"})
				return
			}
			h(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", wrap(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}))
	mux.HandleFunc("/login", wrap(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
			return
		}
		var payload map[string]any
		if body, err := io.ReadAll(r.Body); err == nil {
			_ = json.Unmarshal(body, &payload)
		}
		user := "anonymous"
		if u, ok := payload["user"].(string); ok && u != "" {
			user = u
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"user":   user,
			"token":  fmt.Sprintf("token-%d", time.Now().UnixNano()),
		})
	}))
	mux.HandleFunc("/orders", wrap(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"orders": []map[string]any{
				{"id": "order-1", "status": "completed", "total": 50.00},
				{"id": "order-2", "status": "pending", "total": 75.50},
			},
			"total": 2,
		})
	}))
	mux.HandleFunc("/stats", wrap(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"served": served.Load()})
	}))
	mux.HandleFunc("/", wrap(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"ok": true, "path": r.URL.Path})
	}))

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("test server listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
