package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	appcheckpoint "pit-custody/internal/app/checkpoint"
	apprundown "pit-custody/internal/app/rundown"
	appsession "pit-custody/internal/app/session"
	apptotals "pit-custody/internal/app/totals"
	"pit-custody/internal/authz"
	"pit-custody/internal/config"
	"pit-custody/internal/gamingday"
	"pit-custody/internal/store"
)

func NewRouter(st *store.Store, cfg config.ServerConfig) *chi.Mux {
	loc, err := time.LoadLocation(cfg.GamingDayTZ)
	if err != nil {
		log.Warn().Str("tz", cfg.GamingDayTZ).Err(err).Msg("bad gaming day timezone, using UTC")
		loc = time.UTC
	}
	days := gamingday.NewResolver(gamingday.Config{StartHour: cfg.GamingDayStartHour, Location: loc})
	policy := authz.DefaultPolicy()

	sessionSvc := appsession.NewService(st, policy, days)
	totalsSvc := apptotals.NewService(st, policy)
	rundownSvc := apprundown.NewService(st, policy, days)
	checkpointSvc := appcheckpoint.NewService(st, policy, days)

	sessionHandlers := NewSessionHandlers(sessionSvc)
	eventHandlers := NewEventHandlers(totalsSvc)
	rundownHandlers := NewRundownHandlers(rundownSvc)
	checkpointHandlers := NewCheckpointHandlers(checkpointSvc)
	adminHandlers := NewAdminHandlers(st)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(ActorAuthMiddleware())
		r.Use(APILogMiddleware())

		r.Post("/sessions", sessionHandlers.Open())
		r.Get("/sessions", sessionHandlers.ListLive())
		r.Get("/sessions/{session_id}", sessionHandlers.Get())
		r.Post("/sessions/{session_id}/advance", sessionHandlers.Advance())
		r.Post("/sessions/{session_id}/close", sessionHandlers.Close())
		r.Get("/sessions/{session_id}/rundown", rundownHandlers.GetBySession())

		r.Post("/fills", eventHandlers.Fill())
		r.Post("/credits", eventHandlers.Credit())
		r.Post("/drops", eventHandlers.Drop())

		r.Post("/rundowns", rundownHandlers.Persist())
		r.Get("/rundowns/{report_id}", rundownHandlers.Get())
		r.Post("/rundowns/{report_id}/finalize", rundownHandlers.Finalize())

		r.Post("/checkpoints", checkpointHandlers.Capture())
		r.Get("/checkpoints", checkpointHandlers.List())
		r.Get("/checkpoints/delta", checkpointHandlers.Delta())
		r.Get("/checkpoints/replay", checkpointHandlers.ReplayWindow())
		r.Get("/checkpoints/{checkpoint_id}/replay", checkpointHandlers.Replay())

		r.Get("/audit", adminHandlers.Audit())

		r.Route("/debug", func(r chi.Router) {
			r.Use(BodyCaptureMiddleware(4096))
			r.Get("/vars", expvar.Handler().ServeHTTP)
		})
	})

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
