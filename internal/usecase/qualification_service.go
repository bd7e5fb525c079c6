package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/match"
	"github.com/dimba-league/dimba-api/internal/domain/standing"
	"github.com/dimba-league/dimba-api/internal/domain/store"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
)

const (
	qualificationWorkers = 4

	// DefaultRegionalTopN is how many teams each county league sends up.
	DefaultRegionalTopN = 4
	// DefaultCLTopN is how many teams each regional league sends up.
	DefaultCLTopN = 3
)

// CompetitionStatus reports how far a league or group stage has progressed.
type CompetitionStatus struct {
	CompetitionID   int64  `json:"competition_id"`
	CompetitionName string `json:"competition_name"`
	Total           int    `json:"total"`
	Confirmed       int    `json:"confirmed"`
	Remaining       int    `json:"remaining"`
	Complete        bool   `json:"complete"`
}

// SourceSummary is the per-feeder breakdown of a qualification run.
type SourceSummary struct {
	Competition      string  `json:"competition"`
	Scope            string  `json:"scope"`
	QualifiedTeamIDs []int64 `json:"qualified_team_ids"`
}

// QualificationResult summarizes one promotion run into a target competition.
type QualificationResult struct {
	TargetCompetitionID int64           `json:"target_competition_id"`
	QualifiedCount      int             `json:"qualified_count"`
	Added               int             `json:"added"`
	AlreadyPresent      int             `json:"already_present"`
	Sources             []SourceSummary `json:"sources"`
}

// QualificationService promotes finishers between pyramid tiers: county
// leagues feed the regional competition, regional leagues feed the champions
// league. Completion checks across feeder competitions fan out over a worker
// pool.
type QualificationService struct {
	store     store.Store
	standings *StandingsService
	logger    *logging.Logger
}

func NewQualificationService(st store.Store, standings *StandingsService, logger *logging.Logger) *QualificationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &QualificationService{store: st, standings: standings, logger: logger}
}

// CompetitionStatus counts a competition's league and group matches and how
// many of them are confirmed.
func (s *QualificationService) CompetitionStatus(ctx context.Context, competitionID int64) (CompetitionStatus, error) {
	comp, ok, err := s.store.Competitions().GetByID(ctx, competitionID)
	if err != nil {
		return CompetitionStatus{}, fmt.Errorf("get competition: %w", err)
	}
	if !ok {
		return CompetitionStatus{}, fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
	}

	leagueStages := []string{match.StageLeague, match.StageGroup}
	total, err := s.store.Matches().Count(ctx, match.Filter{CompetitionID: competitionID, Stages: leagueStages})
	if err != nil {
		return CompetitionStatus{}, fmt.Errorf("count matches: %w", err)
	}
	confirmed, err := s.store.Matches().Count(ctx, match.Filter{
		CompetitionID: competitionID,
		Stages:        leagueStages,
		Status:        match.StatusConfirmed,
	})
	if err != nil {
		return CompetitionStatus{}, fmt.Errorf("count confirmed matches: %w", err)
	}

	return CompetitionStatus{
		CompetitionID:   competitionID,
		CompetitionName: comp.Name,
		Total:           total,
		Confirmed:       confirmed,
		Remaining:       total - confirmed,
		Complete:        total > 0 && confirmed == total,
	}, nil
}

// TopTeams returns the best count team ids of a competition's overall table.
func (s *QualificationService) TopTeams(ctx context.Context, competitionID, seasonID int64, count int) ([]int64, error) {
	rows, err := s.store.Standings().ListByCompetition(ctx, competitionID, seasonID, "")
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no standings found for competition=%d", ErrNotFound, competitionID)
	}
	sorted, err := s.standings.Sort(ctx, rows, competitionID, seasonID)
	if err != nil {
		return nil, err
	}
	if count > len(sorted) {
		count = len(sorted)
	}
	out := make([]int64, 0, count)
	for _, row := range sorted[:count] {
		out = append(out, row.TeamID)
	}
	return out, nil
}

// TopTeamsFromGroups collects qualifiers from a grouped competition: all group
// winners first (best overall record first), then runners-up, and so on until
// count teams are gathered.
func (s *QualificationService) TopTeamsFromGroups(ctx context.Context, competitionID, seasonID int64, count int) ([]int64, error) {
	rows, err := s.store.Standings().ListByCompetition(ctx, competitionID, seasonID, "")
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no standings found for competition=%d", ErrNotFound, competitionID)
	}

	byGroup := make(map[string][]standing.Standing)
	var groupNames []string
	for _, row := range rows {
		if _, ok := byGroup[row.GroupName]; !ok {
			groupNames = append(groupNames, row.GroupName)
		}
		byGroup[row.GroupName] = append(byGroup[row.GroupName], row)
	}
	sort.Strings(groupNames)

	for _, name := range groupNames {
		sorted, err := s.standings.Sort(ctx, byGroup[name], competitionID, seasonID)
		if err != nil {
			return nil, err
		}
		byGroup[name] = sorted
	}

	var out []int64
	for rank := 0; len(out) < count; rank++ {
		var tier []standing.Standing
		for _, name := range groupNames {
			if rank < len(byGroup[name]) {
				tier = append(tier, byGroup[name][rank])
			}
		}
		if len(tier) == 0 {
			break
		}
		sort.SliceStable(tier, func(i, j int) bool {
			if tier[i].Points != tier[j].Points {
				return tier[i].Points > tier[j].Points
			}
			if tier[i].GoalDifference != tier[j].GoalDifference {
				return tier[i].GoalDifference > tier[j].GoalDifference
			}
			return tier[i].GoalsFor > tier[j].GoalsFor
		})
		for _, row := range tier {
			if len(out) == count {
				break
			}
			out = append(out, row.TeamID)
		}
	}
	return out, nil
}

// QualifyForRegional promotes the top finishers of every completed county
// league in the target's region into the regional competition.
func (s *QualificationService) QualifyForRegional(ctx context.Context, seasonID, regionalCompetitionID int64, topN int) (QualificationResult, error) {
	if topN <= 0 {
		topN = DefaultRegionalTopN
	}

	target, ok, err := s.store.Competitions().GetByID(ctx, regionalCompetitionID)
	if err != nil {
		return QualificationResult{}, fmt.Errorf("get target competition: %w", err)
	}
	if !ok {
		return QualificationResult{}, fmt.Errorf("%w: competition=%d", ErrNotFound, regionalCompetitionID)
	}
	if target.Type != competition.TypeRegional {
		return QualificationResult{}, fmt.Errorf("%w: target competition must be of type regional", ErrInvalidInput)
	}
	if target.SeasonID != seasonID {
		return QualificationResult{}, fmt.Errorf("%w: target competition does not belong to this season", ErrInvalidInput)
	}
	if target.RegionID == nil {
		return QualificationResult{}, fmt.Errorf("%w: target competition has no region scope", ErrInvalidInput)
	}

	counties, err := s.store.Competitions().ListBySeasonAndType(ctx, seasonID, competition.TypeCounty)
	if err != nil {
		return QualificationResult{}, fmt.Errorf("list county competitions: %w", err)
	}
	var feeders []competition.Competition
	for _, c := range counties {
		if c.RegionID != nil && *c.RegionID == *target.RegionID {
			feeders = append(feeders, c)
		}
	}
	if len(feeders) == 0 {
		return QualificationResult{}, fmt.Errorf("%w: no county competitions found for this region and season", ErrNotFound)
	}

	return s.promote(ctx, target, feeders, topN, false, func(c competition.Competition) string {
		if c.CountyID != nil {
			return fmt.Sprintf("county %d", *c.CountyID)
		}
		return "county"
	})
}

// QualifyForChampionsLeague promotes the top finishers of every completed
// regional league in the season into the national competition. Grouped
// regionals are read with the per-group extractor, plain leagues with the
// overall table. The qualifier count must come out to |regionals| * topN.
func (s *QualificationService) QualifyForChampionsLeague(ctx context.Context, seasonID, clCompetitionID int64, topN int) (QualificationResult, error) {
	if topN <= 0 {
		topN = DefaultCLTopN
	}

	target, ok, err := s.store.Competitions().GetByID(ctx, clCompetitionID)
	if err != nil {
		return QualificationResult{}, fmt.Errorf("get target competition: %w", err)
	}
	if !ok {
		return QualificationResult{}, fmt.Errorf("%w: competition=%d", ErrNotFound, clCompetitionID)
	}
	if target.Type != competition.TypeNational {
		return QualificationResult{}, fmt.Errorf("%w: target competition must be of type national", ErrInvalidInput)
	}
	if target.SeasonID != seasonID {
		return QualificationResult{}, fmt.Errorf("%w: target competition does not belong to this season", ErrInvalidInput)
	}

	feeders, err := s.store.Competitions().ListBySeasonAndType(ctx, seasonID, competition.TypeRegional)
	if err != nil {
		return QualificationResult{}, fmt.Errorf("list regional competitions: %w", err)
	}
	if len(feeders) == 0 {
		return QualificationResult{}, fmt.Errorf("%w: no regional competitions found for this season", ErrNotFound)
	}

	result, err := s.promote(ctx, target, feeders, topN, true, func(c competition.Competition) string {
		if c.RegionID != nil {
			return fmt.Sprintf("region %d", *c.RegionID)
		}
		return "region"
	})
	if err != nil {
		return QualificationResult{}, err
	}

	expected := len(feeders) * topN
	if result.QualifiedCount != expected {
		return QualificationResult{}, fmt.Errorf("%w: expected %d qualified teams (%d sources x %d), got %d",
			ErrInvalidInput, expected, len(feeders), topN, result.QualifiedCount)
	}
	return result, nil
}

// promote checks every feeder for completion in parallel, extracts its top
// teams, and registers them with the target. Re-running is a no-op for teams
// already present.
func (s *QualificationService) promote(ctx context.Context, target competition.Competition, feeders []competition.Competition, topN int, groupAware bool, scope func(competition.Competition) string) (QualificationResult, error) {
	type feederState struct {
		comp   competition.Competition
		status CompetitionStatus
		err    error
	}
	states := make([]feederState, len(feeders))

	pool, err := ants.NewPool(qualificationWorkers)
	if err != nil {
		return QualificationResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i := range feeders {
		i := i
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			states[i].comp = feeders[i]
			states[i].status, states[i].err = s.CompetitionStatus(ctx, feeders[i].ID)
		}); err != nil {
			workers.Done()
			return QualificationResult{}, fmt.Errorf("submit completion check: %w", err)
		}
	}
	workers.Wait()

	var incomplete []string
	for _, st := range states {
		if st.err != nil {
			return QualificationResult{}, fmt.Errorf("check %s: %w", st.comp.Name, st.err)
		}
		if !st.status.Complete {
			incomplete = append(incomplete,
				fmt.Sprintf("%s (%d/%d remaining)", st.comp.Name, st.status.Remaining, st.status.Total))
		}
	}
	if len(incomplete) > 0 {
		return QualificationResult{}, fmt.Errorf("%w: feeder competitions not yet complete: %s",
			ErrConflict, strings.Join(incomplete, ", "))
	}

	result := QualificationResult{TargetCompetitionID: target.ID}
	var qualified []int64
	for _, st := range states {
		extract := s.TopTeams
		if groupAware {
			grouped, err := s.isGrouped(ctx, st.comp.ID, st.comp.SeasonID)
			if err != nil {
				return QualificationResult{}, err
			}
			if grouped {
				extract = s.TopTeamsFromGroups
			}
		}
		teamIDs, err := extract(ctx, st.comp.ID, st.comp.SeasonID, topN)
		if err != nil {
			return QualificationResult{}, fmt.Errorf("top teams of %s: %w", st.comp.Name, err)
		}
		qualified = append(qualified, teamIDs...)
		result.Sources = append(result.Sources, SourceSummary{
			Competition:      st.comp.Name,
			Scope:            scope(st.comp),
			QualifiedTeamIDs: teamIDs,
		})
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		for _, teamID := range qualified {
			added, err := tx.Competitions().AddTeam(ctx, target.ID, teamID)
			if err != nil {
				return fmt.Errorf("add team %d: %w", teamID, err)
			}
			if added {
				result.Added++
			} else {
				result.AlreadyPresent++
			}
		}
		return nil
	})
	if err != nil {
		return QualificationResult{}, err
	}

	result.QualifiedCount = len(qualified)
	s.logger.InfoContext(ctx, "qualification completed",
		"target_competition_id", target.ID, "qualified", result.QualifiedCount,
		"added", result.Added, "already_present", result.AlreadyPresent)
	return result, nil
}

func (s *QualificationService) isGrouped(ctx context.Context, competitionID, seasonID int64) (bool, error) {
	rows, err := s.store.Standings().ListByCompetition(ctx, competitionID, seasonID, "")
	if err != nil {
		return false, fmt.Errorf("list standings: %w", err)
	}
	for _, row := range rows {
		if row.GroupName != "" {
			return true, nil
		}
	}
	return false, nil
}
