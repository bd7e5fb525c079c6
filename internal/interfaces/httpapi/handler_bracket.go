package httpapi

import (
	"net/http"
	"time"
)

func (h *Handler) GetBracket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBracket")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	bracket, err := h.bracketService.GetBracket(ctx, competitionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bracket)
}

func (h *Handler) AdvanceKnockout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceKnockout")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	advancement, err := h.bracketService.AdvanceCLKnockout(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "knockout advancement failed",
			"competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"qualified_team_ids": advancement.QualifiedTeamIDs,
		"pairings":           advancement.Pairings,
	})
}

type generateKnockoutRequest struct {
	Pairings     [][2]int64 `json:"pairings" validate:"omitempty,min=1"`
	StartDate    time.Time  `json:"start_date" validate:"required"`
	IntervalDays int        `json:"interval_days" validate:"omitempty,min=1,max=60"`
}

// GenerateKnockout builds the two-legged bracket. Pairings may be supplied
// explicitly; when omitted they are drawn from the finished group stage.
func (h *Handler) GenerateKnockout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateKnockout")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req generateKnockoutRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	pairings := req.Pairings
	if len(pairings) == 0 {
		advancement, err := h.bracketService.AdvanceCLKnockout(ctx, competitionID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		pairings = advancement.Pairings
	}

	created, err := h.bracketService.GenerateCLKnockoutBracket(ctx, competitionID, pairings, req.StartDate, req.IntervalDays)
	if err != nil {
		h.logger.WarnContext(ctx, "generate knockout failed",
			"competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"pairings":        pairings,
		"matches_created": len(created),
		"matches":         matchesToDTOs(created),
	})
}

type generateCupDrawRequest struct {
	StartDate    time.Time `json:"start_date" validate:"required"`
	IntervalDays int       `json:"interval_days" validate:"omitempty,min=1,max=60"`
}

func (h *Handler) GenerateCupDraw(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateCupDraw")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req generateCupDrawRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	draw, err := h.bracketService.GenerateCupDraw(ctx, competitionID, req.StartDate, req.IntervalDays)
	if err != nil {
		h.logger.WarnContext(ctx, "generate cup draw failed",
			"competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"matches_created": len(draw.Matches),
		"round1_matches":  len(draw.Round1Matches),
		"bye_team_ids":    draw.ByeTeamIDs,
		"num_byes":        draw.NumByes,
		"total_rounds":    draw.TotalRounds,
	})
}

func (h *Handler) ResetBracket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetBracket")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	deleted, err := h.bracketService.ResetBracket(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "bracket reset failed",
			"competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"deleted": deleted})
}
