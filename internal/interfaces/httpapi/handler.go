package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/dimba-league/dimba-api/internal/eventbus"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
	"github.com/dimba-league/dimba-api/internal/usecase"
)

type Handler struct {
	registryService      *usecase.RegistryService
	seasonService        *usecase.SeasonService
	competitionService   *usecase.CompetitionService
	schedulerService     *usecase.SchedulerService
	bracketService       *usecase.BracketService
	matchService         *usecase.MatchService
	standingsService     *usecase.StandingsService
	qualificationService *usecase.QualificationService
	bus                  *eventbus.Bus
	logger               *logging.Logger
	validator            *validator.Validate
}

func NewHandler(
	registryService *usecase.RegistryService,
	seasonService *usecase.SeasonService,
	competitionService *usecase.CompetitionService,
	schedulerService *usecase.SchedulerService,
	bracketService *usecase.BracketService,
	matchService *usecase.MatchService,
	standingsService *usecase.StandingsService,
	qualificationService *usecase.QualificationService,
	bus *eventbus.Bus,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		registryService:      registryService,
		seasonService:        seasonService,
		competitionService:   competitionService,
		schedulerService:     schedulerService,
		bracketService:       bracketService,
		matchService:         matchService,
		standingsService:     standingsService,
		qualificationService: qualificationService,
		bus:                  bus,
		logger:               logger,
		validator:            validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return id, nil
}

func queryInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	value, err := queryInt64(r, name)
	return int(value), err
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
