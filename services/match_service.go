package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
	"github.com/gnbf/badminton-registry/validation"
)

const (
	categoryMatchLimit = 50
	recentMatchLimit   = 20
)

type MatchService interface {
	CreateTie(ctx context.Context, input CreateTieInput) (*models.MatchTie, error)
	GetTie(ctx context.Context, id int) (*models.MatchTieView, error)
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.MatchView, error)
	GetMatch(ctx context.Context, id int) (*models.MatchView, error)
	ListByCategory(ctx context.Context, category string) ([]models.MatchView, error)
	ListRecent(ctx context.Context) ([]models.MatchView, error)
	PlayerStats(ctx context.Context, playerID int) (*models.PlayerStats, error)
	HeadToHead(ctx context.Context, player1ID, player2ID int) (*models.HeadToHead, error)
}

type CreateTieInput struct {
	TournamentID int        `json:"tournament_id" validate:"required,min=1"`
	GroupName    *string    `json:"group_name" validate:"omitempty,max=100"`
	TieDate      *time.Time `json:"tie_date"`
	Club1ID      *int       `json:"club_1_id" validate:"omitempty,min=1"`
	Club2ID      *int       `json:"club_2_id" validate:"omitempty,min=1"`
}

// CreateMatchInput describes one rubber of a tie. Singles use player_1_id and
// player_2_id; doubles use side_1 and side_2 with two players each.
type CreateMatchInput struct {
	TieID           int     `json:"tie_id" validate:"required,min=1"`
	Category        string  `json:"category" validate:"required,category"`
	MatchType       string  `json:"match_type" validate:"omitempty,oneof=singles doubles"`
	Player1ID       *int    `json:"player_1_id" validate:"omitempty,min=1"`
	Player2ID       *int    `json:"player_2_id" validate:"omitempty,min=1"`
	Side1           []int   `json:"side_1" validate:"omitempty,dive,min=1"`
	Side2           []int   `json:"side_2" validate:"omitempty,dive,min=1"`
	WinnerID        *int    `json:"winner_id" validate:"omitempty,min=1"`
	Set1Score       *string `json:"set_1_score" validate:"omitempty,score"`
	Set2Score       *string `json:"set_2_score" validate:"omitempty,score"`
	Set3Score       *string `json:"set_3_score" validate:"omitempty,score"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,min=0,max=600"`
	UmpireID        *int    `json:"umpire_id" validate:"omitempty,min=1"`
}

type matchService struct {
	matchRepo      repositories.MatchRepository
	playerRepo     repositories.PlayerRepository
	tournamentRepo repositories.TournamentRepository
	views          matchViewBuilder
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		playerRepo:     playerRepo,
		tournamentRepo: tournamentRepo,
		views:          matchViewBuilder{playerRepo: playerRepo},
	}
}

func (s *matchService) CreateTie(ctx context.Context, input CreateTieInput) (*models.MatchTie, error) {
	if input.Club1ID != nil && input.Club2ID != nil && *input.Club1ID == *input.Club2ID {
		return nil, validation.Field("club_2_id", "must differ from club_1_id")
	}
	if _, err := s.tournamentRepo.GetByID(ctx, input.TournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: tournament", ErrInvalidReference)
		}
		return nil, fmt.Errorf("%w: %w", ErrMatchCreationFailed, err)
	}

	tie := &models.MatchTie{
		TournamentID: input.TournamentID,
		GroupName:    input.GroupName,
		TieDate:      input.TieDate,
		Club1ID:      input.Club1ID,
		Club2ID:      input.Club2ID,
	}
	if err := s.matchRepo.CreateTie(ctx, tie); err != nil {
		if errors.Is(err, repositories.ErrMatchInvalidReference) {
			return nil, fmt.Errorf("%w: club", ErrInvalidReference)
		}
		return nil, fmt.Errorf("%w: %w", ErrMatchCreationFailed, err)
	}
	return tie, nil
}

func (s *matchService) GetTie(ctx context.Context, id int) (*models.MatchTieView, error) {
	tie, err := s.matchRepo.GetTie(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTieNotFound) {
			return nil, ErrTieNotFound
		}
		return nil, fmt.Errorf("failed to get tie %d: %w", id, err)
	}
	records, err := s.matchRepo.ListByTie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of tie %d: %w", id, err)
	}
	views, err := s.views.build(ctx, records)
	if err != nil {
		return nil, err
	}
	return &models.MatchTieView{MatchTie: *tie, Matches: views}, nil
}

// checkMatch enforces the participant rules and returns the rows to store.
func checkMatch(input CreateMatchInput) (*models.IndividualMatch, []models.MatchDoublesPlayer, error) {
	verrs := validation.Errors{}
	expected := models.MatchTypeFor(input.Category)
	matchType := input.MatchType
	if matchType == "" {
		matchType = expected
	}
	if matchType != expected {
		verrs.Add("match_type", fmt.Sprintf("must be %s for category %s", expected, input.Category))
		return nil, nil, verrs
	}

	match := &models.IndividualMatch{
		TieID:           input.TieID,
		MatchType:       matchType,
		Category:        input.Category,
		WinnerID:        input.WinnerID,
		Set1Score:       input.Set1Score,
		Set2Score:       input.Set2Score,
		Set3Score:       input.Set3Score,
		DurationMinutes: input.DurationMinutes,
		UmpireID:        input.UmpireID,
	}

	var participants []int
	var doubles []models.MatchDoublesPlayer
	if matchType == models.MatchSingles {
		if input.Player1ID == nil {
			verrs.Add("player_1_id", "is required")
		}
		if input.Player2ID == nil {
			verrs.Add("player_2_id", "is required")
		}
		if len(input.Side1) > 0 || len(input.Side2) > 0 {
			verrs.Add("side_1", "is only allowed for doubles")
		}
		if len(verrs) > 0 {
			return nil, nil, verrs
		}
		match.Player1ID = input.Player1ID
		match.Player2ID = input.Player2ID
		participants = []int{*input.Player1ID, *input.Player2ID}
	} else {
		if len(input.Side1) != 2 {
			verrs.Add("side_1", "must contain exactly 2 players")
		}
		if len(input.Side2) != 2 {
			verrs.Add("side_2", "must contain exactly 2 players")
		}
		if len(verrs) > 0 {
			return nil, nil, verrs
		}
		p1, p2 := input.Side1[0], input.Side2[0]
		match.Player1ID = &p1
		match.Player2ID = &p2
		for side, ids := range [][]int{input.Side1, input.Side2} {
			for _, id := range ids {
				doubles = append(doubles, models.MatchDoublesPlayer{PlayerID: id, TeamSide: side + 1})
				participants = append(participants, id)
			}
		}
	}

	seen := make(map[int]bool, len(participants))
	for _, id := range participants {
		if seen[id] {
			verrs.Add("players", "a player cannot appear twice in one match")
		}
		seen[id] = true
	}
	if input.WinnerID != nil && !seen[*input.WinnerID] {
		verrs.Add("winner_id", "must be one of the match players")
	}
	if err := verrs.Err(); err != nil {
		return nil, nil, err
	}
	return match, doubles, nil
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.MatchView, error) {
	input.Category = strings.ToUpper(input.Category)
	match, doubles, err := checkMatch(input)
	if err != nil {
		return nil, err
	}

	if err := s.matchRepo.CreateMatch(ctx, match, doubles); err != nil {
		if errors.Is(err, repositories.ErrMatchInvalidReference) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidReference, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrMatchCreationFailed, err)
	}
	return s.GetMatch(ctx, match.ID)
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.MatchView, error) {
	record, err := s.matchRepo.GetMatch(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	views, err := s.views.build(ctx, []models.MatchRecord{*record})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ParseCategory upper-cases and checks a category path or query value.
func ParseCategory(category string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(category))
	if !models.IsCategory(c) {
		return "", validation.Field("category", "must be one of: "+strings.Join(models.Categories, ", "))
	}
	return c, nil
}

func (s *matchService) ListByCategory(ctx context.Context, category string) ([]models.MatchView, error) {
	c, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}
	records, err := s.matchRepo.ListByCategory(ctx, c, categoryMatchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s matches: %w", c, err)
	}
	return s.views.build(ctx, records)
}

func (s *matchService) ListRecent(ctx context.Context) ([]models.MatchView, error) {
	records, err := s.matchRepo.ListRecent(ctx, recentMatchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent matches: %w", err)
	}
	return s.views.build(ctx, records)
}

func (s *matchService) player(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return player, nil
}

func (s *matchService) PlayerStats(ctx context.Context, playerID int) (*models.PlayerStats, error) {
	if _, err := s.player(ctx, playerID); err != nil {
		return nil, err
	}
	records, err := s.matchRepo.ListByPlayer(ctx, playerID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of player %d: %w", playerID, err)
	}
	return computeStats(playerID, records), nil
}

func (s *matchService) HeadToHead(ctx context.Context, player1ID, player2ID int) (*models.HeadToHead, error) {
	if player1ID == player2ID {
		return nil, validation.Field("player2", "must differ from player1")
	}
	p1, err := s.player(ctx, player1ID)
	if err != nil {
		return nil, err
	}
	p2, err := s.player(ctx, player2ID)
	if err != nil {
		return nil, err
	}

	records, err := s.matchRepo.ListByPlayer(ctx, player1ID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of player %d: %w", player1ID, err)
	}

	h2h := &models.HeadToHead{Player1: p1.Ref(), Player2: p2.Ref()}
	var shared []models.MatchRecord
	for _, rec := range records {
		side1, side2 := sideOf(rec, player1ID), sideOf(rec, player2ID)
		if side1 == 0 || side2 == 0 || side1 == side2 {
			continue
		}
		shared = append(shared, rec)
		switch rec.WinningSide() {
		case side1:
			h2h.Player1Wins++
		case side2:
			h2h.Player2Wins++
		}
	}
	h2h.Matches, err = s.views.build(ctx, shared)
	if err != nil {
		return nil, err
	}
	return h2h, nil
}

// matchViewBuilder resolves the player references of match records.
type matchViewBuilder struct {
	playerRepo repositories.PlayerRepository
}

func (b matchViewBuilder) build(ctx context.Context, records []models.MatchRecord) ([]models.MatchView, error) {
	views := make([]models.MatchView, 0, len(records))
	if len(records) == 0 {
		return views, nil
	}

	seen := make(map[int]bool)
	var ids []int
	collect := func(id *int) {
		if id != nil && !seen[*id] {
			seen[*id] = true
			ids = append(ids, *id)
		}
	}
	for _, rec := range records {
		collect(rec.Player1ID)
		collect(rec.Player2ID)
		collect(rec.WinnerID)
		for i := range rec.Doubles {
			collect(&rec.Doubles[i].PlayerID)
		}
	}

	players, err := b.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load match players: %w", err)
	}
	refs := make(map[int]models.PlayerRef, len(players))
	for _, p := range players {
		refs[p.ID] = p.Ref()
	}
	ref := func(id *int) *models.PlayerRef {
		if id == nil {
			return nil
		}
		if r, ok := refs[*id]; ok {
			return &r
		}
		return nil
	}

	for _, rec := range records {
		view := models.MatchView{
			IndividualMatch: rec.IndividualMatch,
			TournamentID:    rec.TournamentID,
			Player1:         ref(rec.Player1ID),
			Player2:         ref(rec.Player2ID),
			Winner:          ref(rec.WinnerID),
		}
		if rec.MatchType == models.MatchDoubles {
			for _, side := range []int{1, 2} {
				var sideRefs []models.PlayerRef
				for _, id := range rec.Side(side) {
					if r, ok := refs[id]; ok {
						sideRefs = append(sideRefs, r)
					}
				}
				if side == 1 {
					view.Side1 = sideRefs
				} else {
					view.Side2 = sideRefs
				}
			}
		}
		views = append(views, view)
	}
	return views, nil
}
