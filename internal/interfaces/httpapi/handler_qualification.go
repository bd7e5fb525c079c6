package httpapi

import (
	"context"
	"net/http"

	"github.com/dimba-league/dimba-api/internal/usecase"
)

type qualifyRequest struct {
	SeasonID int64 `json:"season_id" validate:"required"`
	TopN     int   `json:"top_n" validate:"omitempty,min=1,max=10"`
}

func (h *Handler) QualifyForChampionsLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.QualifyForChampionsLeague")
	defer span.End()

	h.runQualification(ctx, w, r, h.qualificationService.QualifyForChampionsLeague)
}

func (h *Handler) QualifyForRegional(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.QualifyForRegional")
	defer span.End()

	h.runQualification(ctx, w, r, h.qualificationService.QualifyForRegional)
}

func (h *Handler) runQualification(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	qualify func(ctx context.Context, seasonID, targetCompetitionID int64, topN int) (usecase.QualificationResult, error),
) {
	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req qualifyRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.TopN == 0 {
		req.TopN = 3
	}

	result, err := qualify(ctx, req.SeasonID, competitionID, req.TopN)
	if err != nil {
		h.logger.WarnContext(ctx, "qualification failed",
			"competition_id", competitionID, "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
