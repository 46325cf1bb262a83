package collector

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupServer builds the operational HTTP surface: liveness, readiness,
// per-pipeline status, and Prometheus metrics.
func (a *App) setupServer() {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", a.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", a.handleReadyz).Methods(http.MethodGet)
	r.HandleFunc("/statusz", a.handleStatusz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	a.Server = &http.Server{
		Addr:         a.Config.ListenAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

func (a *App) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReadyz reports ready once the store is open and, when notifications
// are configured, the Redis connection answers a ping.
func (a *App) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if a.Notifier != nil {
		if err := a.Notifier.Health(r.Context()); err != nil {
			http.Error(w, "redis: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (a *App) handleStatusz(w http.ResponseWriter, _ *http.Request) {
	statuses := map[string]*PipelineStatus{}
	a.Status.Range(func(name string, status *PipelineStatus) bool {
		statuses[name] = status
		return true
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statuses)
}
