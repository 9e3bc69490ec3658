package driver

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m3uhub/iptvd/internal/application"
)

// Dependencies holds everything the HTTP surface needs. Playlists is nil
// when no storage backend is enabled; the CRUD routes then answer 503.
type Dependencies struct {
	Ingest        *application.IngestService
	Playlists     *application.PlaylistService
	Authority     *TokenAuthority
	AllowedOrigin string
	DBEnabled     bool
	Logger        *slog.Logger
}

// NewRouter wires all HTTP routes. Write routes are bearer-token guarded;
// token issuance is API-key guarded. Auth rejections happen before any
// storage call.
func NewRouter(deps Dependencies) http.Handler {
	health := NewHealthHTTPHandler(deps.DBEnabled)
	ingest := NewIngestHTTPHandler(deps.Ingest)
	playlists := NewPlaylistHTTPHandler(deps.Playlists)
	token := NewTokenHTTPHandler(deps.Authority)
	proxy := NewProxyHTTPHandler()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(deps.Logger))
	r.Use(CORS(deps.AllowedOrigin))

	r.Get("/", health.Root)
	r.Get("/connectionStatus", health.ConnectionStatus)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/parse", ingest.ParsePlaylist)
	r.Get("/parse-xml", ingest.ParseGuide)
	r.Get("/xtream", proxy.Xtream)
	r.Get("/stalker", proxy.Stalker)

	r.With(deps.Authority.RequireAPIKey).Post("/token", token.Issue)

	r.Group(func(r chi.Router) {
		r.Use(deps.Authority.RequireToken)

		r.Post("/addPlaylist", playlists.Add)
		r.Post("/addManyPlaylists", playlists.AddMany)
		r.Get("/getPlaylist/{id}", playlists.Get)
		r.Get("/getAllPlaylists", playlists.GetAll)
		r.Put("/updatePlaylist/{id}", playlists.Update)
		r.Delete("/deletePlaylist/{id}", playlists.Delete)
		r.Delete("/deleteAllPlaylists", playlists.DeleteAll)
	})

	return r
}
