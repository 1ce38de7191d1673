package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/sports/{sport}/matches", handler.ListMatchesByDate)
	mux.HandleFunc("GET /v1/sports/{sport}/matches/live", handler.ListLiveMatches)
	mux.HandleFunc("GET /v1/sports/{sport}/matches/{matchID}", handler.GetMatch)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	internal := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, RequireInternalJobToken(internalJobToken, fn))
	}

	internal("GET /v1/internal/jobs", handler.ListJobs)
	internal("POST /v1/internal/jobs/{job}", handler.RunJob)
	internal("POST /v1/internal/sports/{sport}/matches/{matchID}/grade", handler.GradeMatch)
	internal("POST /v1/internal/sports/{sport}/fix-stuck", handler.FixStuck)
	internal("POST /v1/internal/blacklist/reload", handler.ReloadBlacklist)
}
