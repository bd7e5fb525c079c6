package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dimba-league/dimba-api/internal/usecase"
)

type generateFixturesRequest struct {
	StartDate    time.Time `json:"start_date" validate:"required"`
	IntervalDays int       `json:"interval_days" validate:"omitempty,min=1,max=60"`
}

func (h *Handler) GenerateFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateFixtures")
	defer span.End()

	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req generateFixturesRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.schedulerService.GenerateRoundRobin(ctx, competitionID, req.StartDate, req.IntervalDays)
	if err != nil {
		h.logger.WarnContext(ctx, "generate fixtures failed",
			"competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"matches_created": len(created),
		"matches":         matchesToDTOs(created),
	})
}

func (h *Handler) GenerateCountyFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateCountyFixtures")
	defer span.End()

	seasonID, err := pathID(r, "seasonID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req generateFixturesRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	generated, err := h.schedulerService.GenerateCountyFixtures(ctx, seasonID, req.StartDate, req.IntervalDays)
	if err != nil {
		h.logger.WarnContext(ctx, "generate county fixtures failed",
			"season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	total := 0
	for _, count := range generated {
		total += count
	}
	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"competitions":    len(generated),
		"matches_created": total,
		"by_competition":  generated,
	})
}

func (h *Handler) GenerateGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateGroups")
	defer span.End()

	h.generateGroupDraw(ctx, w, r, false)
}

func (h *Handler) GenerateRegionalGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateRegionalGroups")
	defer span.End()

	h.generateGroupDraw(ctx, w, r, true)
}

func (h *Handler) generateGroupDraw(ctx context.Context, w http.ResponseWriter, r *http.Request, regional bool) {
	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req generateFixturesRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var draw usecase.GroupDraw
	if regional {
		draw, err = h.schedulerService.GenerateRegionalGroups(ctx, competitionID, req.StartDate, req.IntervalDays)
	} else {
		draw, err = h.schedulerService.GenerateCLGroups(ctx, competitionID, req.StartDate, req.IntervalDays)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "group draw failed",
			"competition_id", competitionID, "regional", regional, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"groups":          draw.Groups,
		"matches_created": len(draw.Matches),
		"matches":         matchesToDTOs(draw.Matches),
	})
}

type resetFixturesRequest struct {
	CountyOnly bool `json:"county_only"`
}

func (h *Handler) ResetFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetFixtures")
	defer span.End()

	var req resetFixturesRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := h.decodeRequest(r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	deleted, err := h.schedulerService.ResetFixtures(ctx, req.CountyOnly)
	if err != nil {
		h.logger.WarnContext(ctx, "fixtures reset failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"deleted":     deleted,
		"county_only": req.CountyOnly,
	})
}
