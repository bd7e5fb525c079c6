package httpapi

import (
	"net/http"

	"github.com/dimba-league/dimba-api/internal/domain/county"
	"github.com/dimba-league/dimba-api/internal/domain/region"
	"github.com/dimba-league/dimba-api/internal/domain/team"
)

func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRegions")
	defer span.End()

	rows, err := h.registryService.ListRegions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list regions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]regionDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, regionToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

type createRegionRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"required,min=2,max=3"`
}

func (h *Handler) CreateRegion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRegion")
	defer span.End()

	var req createRegionRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.registryService.CreateRegion(ctx, region.Region{Name: req.Name, Code: req.Code})
	if err != nil {
		h.logger.WarnContext(ctx, "create region failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, regionToDTO(created))
}

func (h *Handler) ListCounties(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCounties")
	defer span.End()

	regionID, err := queryInt64(r, "region_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.registryService.ListCounties(ctx, regionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list counties failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]countyDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, countyToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

type createCountyRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Code     int    `json:"code" validate:"required,min=1"`
	RegionID int64  `json:"region_id" validate:"required"`
}

func (h *Handler) CreateCounty(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateCounty")
	defer span.End()

	var req createCountyRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.registryService.CreateCounty(ctx, county.County{
		Name:     req.Name,
		Code:     req.Code,
		RegionID: req.RegionID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create county failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, countyToDTO(created))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	countyID, err := queryInt64(r, "county_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.registryService.ListTeams(ctx, countyID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamsToDTOs(rows))
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	row, err := h.registryService.GetTeam(ctx, teamID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(row))
}

type registerTeamRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	CountyID int64  `json:"county_id" validate:"required"`
	Category string `json:"category" validate:"required"`
	LogoURL  string `json:"logo_url" validate:"omitempty,url"`
}

func (h *Handler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterTeam")
	defer span.End()

	var req registerTeamRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.registryService.RegisterTeam(ctx, team.Team{
		Name:     req.Name,
		CountyID: req.CountyID,
		Category: req.Category,
		LogoURL:  req.LogoURL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register team failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(created))
}

type setTeamStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) SetTeamStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetTeamStatus")
	defer span.End()

	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setTeamStatusRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.registryService.SetTeamStatus(ctx, teamID, req.Status)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(updated))
}
