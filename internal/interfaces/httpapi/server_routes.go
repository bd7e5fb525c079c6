package httpapi

import (
	"net/http"

	"github.com/dimba-league/dimba-api/internal/domain/user"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/regions", handler.ListRegions)
	mux.HandleFunc("GET /v1/counties", handler.ListCounties)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/seasons/active", handler.GetActiveSeason)
	mux.HandleFunc("GET /v1/competitions", handler.ListCompetitions)
	mux.HandleFunc("GET /v1/competitions/{competitionID}", handler.GetCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/teams", handler.ListCompetitionTeams)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/bracket", handler.GetBracket)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/status", handler.GetCompetitionStatus)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/top-teams", handler.ListTopTeams)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/events/stream", handler.StreamEvents)
}

func registerCoachRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches/{matchID}/submit-result",
		RequireRole(verifier, http.HandlerFunc(handler.SubmitResult),
			user.RoleCoach, user.RoleCountyAdmin, user.RoleSuperAdmin))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	admin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, RequireAdmin(verifier, h))
	}

	admin("POST /v1/regions", handler.CreateRegion)
	admin("POST /v1/counties", handler.CreateCounty)
	admin("POST /v1/teams", handler.RegisterTeam)
	admin("PATCH /v1/teams/{teamID}/status", handler.SetTeamStatus)

	admin("POST /v1/seasons", handler.CreateSeason)
	admin("PATCH /v1/seasons/{seasonID}", handler.UpdateSeason)
	admin("POST /v1/seasons/{seasonID}/generate-county-fixtures", handler.GenerateCountyFixtures)

	admin("POST /v1/competitions", handler.CreateCompetition)
	admin("PATCH /v1/competitions/{competitionID}", handler.UpdateCompetition)
	admin("POST /v1/competitions/{competitionID}/teams", handler.AddCompetitionTeams)
	admin("POST /v1/competitions/{competitionID}/generate-fixtures", handler.GenerateFixtures)
	admin("POST /v1/competitions/{competitionID}/generate-groups", handler.GenerateGroups)
	admin("POST /v1/competitions/{competitionID}/generate-regional-groups", handler.GenerateRegionalGroups)
	admin("POST /v1/competitions/{competitionID}/advance-knockout", handler.AdvanceKnockout)
	admin("POST /v1/competitions/{competitionID}/generate-knockout", handler.GenerateKnockout)
	admin("POST /v1/competitions/{competitionID}/generate-cup-draw", handler.GenerateCupDraw)
	admin("DELETE /v1/competitions/{competitionID}/bracket", handler.ResetBracket)
	admin("POST /v1/competitions/{competitionID}/qualify-for-cl", handler.QualifyForChampionsLeague)
	admin("POST /v1/competitions/{competitionID}/qualify-for-regional", handler.QualifyForRegional)

	admin("POST /v1/fixtures/reset", handler.ResetFixtures)
	admin("POST /v1/matches", handler.CreateMatch)
	admin("POST /v1/matches/super", handler.CreateSuperMatch)
	admin("POST /v1/matches/{matchID}/confirm-result", handler.ConfirmResult)
}
