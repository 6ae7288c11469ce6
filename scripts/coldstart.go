//go:build ignore

// Coldstart is a target server for trying the keep-alive worker by hand.
// It answers slowly when it has been idle for longer than -idle, the way a
// scaled-to-zero service does after waking up.
//
// Usage:
//
//	go run scripts/coldstart.go -port 8081 -idle 2m -warmup 20s
//
// Keep the warmup below the worker's 25s ping timeout to see successes, or
// above it to see timeouts.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

type wakeState struct {
	mu       sync.Mutex
	lastSeen time.Time
}

// touch records a request and reports whether the server was cold.
func (s *wakeState) touch(idle time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cold := s.lastSeen.IsZero() || now.Sub(s.lastSeen) > idle
	s.lastSeen = now
	return cold
}

func main() {
	port := flag.Int("port", 8081, "port to listen on")
	idle := flag.Duration("idle", 2*time.Minute, "idle time after which the next request is a cold start")
	warmup := flag.Duration("warmup", 20*time.Second, "delay applied to a cold start")
	status := flag.Int("status", http.StatusOK, "status code returned to warm requests")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	instance := uuid.NewString()
	state := &wakeState{}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		cold := state.touch(*idle)
		log.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("from", r.RemoteAddr),
			slog.Bool("cold", cold))

		if cold {
			select {
			case <-time.After(*warmup):
			case <-r.Context().Done():
				log.Warn("client gave up during warmup", slog.String("from", r.RemoteAddr))
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(*status)
		json.NewEncoder(w).Encode(map[string]any{
			"instance":   instance,
			"request_id": uuid.NewString(),
			"cold":       cold,
		})
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Info("starting cold start target",
		slog.String("addr", addr),
		slog.Duration("idle", *idle),
		slog.Duration("warmup", *warmup))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("server failed", slog.Any("err", err))
		os.Exit(1)
	}
}
