package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/match"
	"github.com/dimba-league/dimba-api/internal/usecase"
)

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	filter, err := matchFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.matchService.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTOs(rows))
}

func matchFilterFromQuery(r *http.Request) (match.Filter, error) {
	var f match.Filter
	var err error

	if f.CompetitionID, err = queryInt64(r, "competition_id"); err != nil {
		return f, err
	}
	if f.SeasonID, err = queryInt64(r, "season_id"); err != nil {
		return f, err
	}
	if f.TeamID, err = queryInt64(r, "team_id"); err != nil {
		return f, err
	}
	f.Status = strings.TrimSpace(r.URL.Query().Get("status"))
	f.Stage = strings.TrimSpace(r.URL.Query().Get("stage"))
	f.GroupName = strings.TrimSpace(r.URL.Query().Get("group"))

	if raw := strings.TrimSpace(r.URL.Query().Get("matchday")); raw != "" {
		matchday, err := queryInt(r, "matchday")
		if err != nil {
			return f, err
		}
		f.Matchday = &matchday
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, fmt.Errorf("%w: date must be YYYY-MM-DD", usecase.ErrInvalidInput)
		}
		f.Date = &day
	}

	return f, nil
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	row, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(row))
}

type createMatchRequest struct {
	CompetitionID int64      `json:"competition_id" validate:"required"`
	SeasonID      int64      `json:"season_id" validate:"required"`
	HomeTeamID    int64      `json:"home_team_id" validate:"required"`
	AwayTeamID    int64      `json:"away_team_id" validate:"required,nefield=HomeTeamID"`
	MatchDate     *time.Time `json:"match_date"`
	Venue         string     `json:"venue" validate:"omitempty,max=120"`
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.matchService.CreateMatch(ctx, usecase.CreateMatchInput{
		CompetitionID: req.CompetitionID,
		SeasonID:      req.SeasonID,
		HomeTeamID:    req.HomeTeamID,
		AwayTeamID:    req.AwayTeamID,
		MatchDate:     req.MatchDate,
		Venue:         req.Venue,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(created))
}

type createSuperMatchRequest struct {
	CompetitionID int64      `json:"competition_id" validate:"required"`
	HomeTeamID    int64      `json:"home_team_id" validate:"required"`
	AwayTeamID    int64      `json:"away_team_id" validate:"required,nefield=HomeTeamID"`
	MatchDate     *time.Time `json:"match_date"`
	Venue         string     `json:"venue" validate:"omitempty,max=120"`
}

func (h *Handler) CreateSuperMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSuperMatch")
	defer span.End()

	var req createSuperMatchRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.matchService.CreateSuperMatch(ctx,
		req.CompetitionID, req.HomeTeamID, req.AwayTeamID, req.MatchDate, req.Venue)
	if err != nil {
		h.logger.WarnContext(ctx, "create super match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(created))
}

type submitResultRequest struct {
	HomeScore int `json:"home_score" validate:"min=0"`
	AwayScore int `json:"away_score" validate:"min=0"`
}

func (h *Handler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitResult")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no authenticated principal", usecase.ErrUnauthorized))
		return
	}

	var req submitResultRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.matchService.SubmitResult(ctx, matchID, req.HomeScore, req.AwayScore, principal.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "submit result failed",
			"match_id", matchID, "actor_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

type confirmResultRequest struct {
	PenaltyWinnerID *int64 `json:"penalty_winner_id"`
}

func (h *Handler) ConfirmResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmResult")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no authenticated principal", usecase.ErrUnauthorized))
		return
	}

	// Confirm bodies are optional; an empty body means no shootout.
	var req confirmResultRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := h.decodeRequest(r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	confirmed, err := h.matchService.ConfirmResult(ctx, matchID, principal.ID, req.PenaltyWinnerID)
	if err != nil {
		h.logger.WarnContext(ctx, "confirm result failed",
			"match_id", matchID, "actor_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(confirmed))
}
