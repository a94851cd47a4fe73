package api

import (
	"encoding/json"
	"net/http"

	"resframe/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Version is stamped at build time.
var Version = "dev"

// OpsRouter serves operational endpoints (health, version) on a separate
// port from the result server.
type OpsRouter struct {
	router *chi.Mux
	log    *logging.Logger
}

// NewOpsRouter creates the ops router.
func NewOpsRouter(log *logging.Logger) *OpsRouter {
	if log == nil {
		log = logging.NewFromEnv()
	}
	o := &OpsRouter{router: chi.NewRouter(), log: log}
	o.router.Use(middleware.Recoverer)
	o.router.Get("/healthz", o.handleHealth)
	o.router.Get("/version", o.handleVersion)
	return o
}

// Run starts the ops listener on the given port.
func (o *OpsRouter) Run(port string) error {
	o.log.Info("ops listener on :%s", port)
	return http.ListenAndServe(":"+port, o.router)
}

func (o *OpsRouter) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (o *OpsRouter) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"version": Version})
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
