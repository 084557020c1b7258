package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/leagues", handler.LinkLeague)
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("DELETE /v1/leagues/{leagueID}", handler.DeleteLeague)

	mux.HandleFunc("POST /v1/contests", handler.CreateContest)
	mux.HandleFunc("GET /v1/contests", handler.ListContests)
	mux.HandleFunc("GET /v1/contests/{contestID}", handler.GetContest)
	mux.HandleFunc("DELETE /v1/contests/{contestID}", handler.DeleteContest)
	mux.HandleFunc("GET /v1/contests/{contestID}/results", handler.GetContestResults)
	mux.HandleFunc("POST /v1/contests/{contestID}/results:recompute", handler.RecomputeContestResults)
}
