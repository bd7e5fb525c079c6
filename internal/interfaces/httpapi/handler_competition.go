package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dimba-league/dimba-api/internal/usecase"
)

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	rows, err := h.competitionService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list competitions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]competitionDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, competitionToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetition")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	row, err := h.competitionService.Get(ctx, competitionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionToDTO(row))
}

type createCompetitionRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=120"`
	Type     string `json:"type" validate:"required"`
	Category string `json:"category" validate:"required"`
	SeasonID int64  `json:"season_id" validate:"required"`
	RegionID *int64 `json:"region_id"`
	CountyID *int64 `json:"county_id"`
}

func (h *Handler) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateCompetition")
	defer span.End()

	var req createCompetitionRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.competitionService.Create(ctx, usecase.CreateCompetitionInput{
		Name:     req.Name,
		Type:     req.Type,
		Category: req.Category,
		SeasonID: req.SeasonID,
		RegionID: req.RegionID,
		CountyID: req.CountyID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create competition failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, competitionToDTO(created))
}

type updateCompetitionRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=3,max=120"`
	Type     *string `json:"type"`
	Category *string `json:"category"`
}

func (h *Handler) UpdateCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateCompetition")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateCompetitionRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.competitionService.Update(ctx, competitionID, usecase.UpdateCompetitionInput{
		Name:     req.Name,
		Type:     req.Type,
		Category: req.Category,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionToDTO(updated))
}

func (h *Handler) ListCompetitionTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitionTeams")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.competitionService.Teams(ctx, competitionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamsToDTOs(rows))
}

type addCompetitionTeamsRequest struct {
	TeamIDs []int64 `json:"team_ids" validate:"required,min=1,dive,required"`
}

func (h *Handler) AddCompetitionTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddCompetitionTeams")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req addCompetitionTeamsRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	added, err := h.competitionService.AddTeams(ctx, competitionID, req.TeamIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "add competition teams failed",
			"competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]int{"added": added})
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	seasonID, err := h.resolveSeasonID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	groupName := strings.TrimSpace(r.URL.Query().Get("group"))

	rows, err := h.standingsService.Table(ctx, competitionID, seasonID, groupName)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTOs(rows))
}

func (h *Handler) GetCompetitionStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetitionStatus")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.qualificationService.CompetitionStatus(ctx, competitionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, status)
}

func (h *Handler) ListTopTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTopTeams")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	seasonID, err := h.resolveSeasonID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	count, err := queryInt(r, "count")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if count <= 0 {
		count = 3
	}
	fromGroups, err := queryBool(r, "from_groups")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var teamIDs []int64
	if fromGroups {
		teamIDs, err = h.qualificationService.TopTeamsFromGroups(ctx, competitionID, seasonID, count)
	} else {
		teamIDs, err = h.qualificationService.TopTeams(ctx, competitionID, seasonID, count)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"team_ids": teamIDs})
}

// resolveSeasonID reads season_id from the query, defaulting to the active
// season when absent.
func (h *Handler) resolveSeasonID(r *http.Request) (int64, error) {
	seasonID, err := queryInt64(r, "season_id")
	if err != nil {
		return 0, err
	}
	if seasonID != 0 {
		return seasonID, nil
	}

	active, err := h.seasonService.Active(r.Context())
	if err != nil {
		return 0, fmt.Errorf("resolve active season: %w", err)
	}
	return active.ID, nil
}
