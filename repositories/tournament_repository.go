package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gnbf/badminton-registry/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTournamentNotFound         = errors.New("tournament not found")
	ErrTournamentSlugConflict     = errors.New("tournament slug conflict")
	ErrTournamentInvalidReference = errors.New("tournament references a missing record")
	ErrWinnersNotFound            = errors.New("tournament winners not found")
	ErrEntryNotFound              = errors.New("tournament entry not found")
	ErrEntryConflict              = errors.New("player is already registered for this event")
	ErrLineupConflict             = errors.New("player is already in the lineup for this category")
)

// TournamentParts carries the nested collections written with a tournament.
// A nil pointer leaves the stored collection untouched; a non-nil pointer
// replaces it, so an empty slice clears it.
type TournamentParts struct {
	Venue      *models.TournamentVenue
	Events     *[]models.TournamentEvent
	Courts     *[]models.TournamentCourt
	TimeBlocks *[]models.TournamentTimeBlock
	Entries    *[]models.TournamentEntry
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament, parts TournamentParts) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tournament, error)
	List(ctx context.Context, status models.TournamentStatus) ([]models.Tournament, error)
	Search(ctx context.Context, query string, limit int) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament, parts TournamentParts) error
	UpdateLogo(ctx context.Context, id int, logoURL string) error
	Delete(ctx context.Context, id int) error

	GetVenue(ctx context.Context, tournamentID int) (*models.TournamentVenue, error)
	ListEvents(ctx context.Context, tournamentID int) ([]models.TournamentEvent, error)
	ListCourts(ctx context.Context, tournamentID int) ([]models.TournamentCourt, error)
	ListTimeBlocks(ctx context.Context, tournamentID int) ([]models.TournamentTimeBlock, error)
	ListEntries(ctx context.Context, tournamentID int) ([]models.TournamentEntry, error)
	CreateEntry(ctx context.Context, entry *models.TournamentEntry) error
	DeleteEntry(ctx context.Context, tournamentID, entryID int) error

	GetWinners(ctx context.Context, tournamentID int) (*models.TournamentWinner, error)
	UpsertWinners(ctx context.Context, winners *models.TournamentWinner) error
	ListWinners(ctx context.Context) ([]models.TournamentWinnerSummary, error)

	AddLineup(ctx context.Context, lineup *models.TournamentLineup) error
	ListLineups(ctx context.Context, tournamentID int) ([]models.TournamentLineup, error)
	// ListByClubs returns the tournaments any of the clubs entered a lineup
	// in, newest first.
	ListByClubs(ctx context.Context, clubIDs []int) ([]models.Tournament, error)
}

type gormTournamentRepository struct {
	db *gorm.DB
}

func NewTournamentRepository(db *gorm.DB) TournamentRepository {
	return &gormTournamentRepository{db: db}
}

var tournamentErrors = pgErrors{
	notFound:   ErrTournamentNotFound,
	unique:     map[string]error{"tournaments_slug_key": ErrTournamentSlugConflict},
	foreignKey: ErrTournamentInvalidReference,
}

func (r *gormTournamentRepository) Create(ctx context.Context, tournament *models.Tournament, parts TournamentParts) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tournament).Error; err != nil {
			return err
		}
		return writeParts(tx, tournament.ID, parts)
	})
	if err != nil {
		return tournamentErrors.translate(err)
	}
	tournament.ComputeReadiness()
	return nil
}

func (r *gormTournamentRepository) Update(ctx context.Context, tournament *models.Tournament, parts TournamentParts) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(tournament).
			Select("*").Omit("id", "created_at", "deleted_at").
			Updates(tournament)
		if err := checkAffectedRows(result, ErrTournamentNotFound); err != nil {
			return err
		}
		return writeParts(tx, tournament.ID, parts)
	})
	if err != nil {
		return tournamentErrors.translate(err)
	}
	tournament.ComputeReadiness()
	return nil
}

// writeParts replaces the nested collections named in parts. It runs inside the
// caller's transaction.
func writeParts(tx *gorm.DB, tournamentID int, parts TournamentParts) error {
	if parts.Venue != nil {
		parts.Venue.TournamentID = tournamentID
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tournament_id"}},
			UpdateAll: true,
		}).Create(parts.Venue).Error
		if err != nil {
			return fmt.Errorf("venue: %w", err)
		}
	}

	if parts.Events != nil {
		if err := tx.Where("tournament_id = ?", tournamentID).Delete(&models.TournamentEvent{}).Error; err != nil {
			return fmt.Errorf("events: %w", err)
		}
		events := *parts.Events
		for i := range events {
			events[i].ID = 0
			events[i].TournamentID = tournamentID
		}
		if len(events) > 0 {
			if err := tx.Create(&events).Error; err != nil {
				return fmt.Errorf("events: %w", err)
			}
		}
	}

	if parts.Courts != nil {
		if err := tx.Where("tournament_id = ?", tournamentID).Delete(&models.TournamentCourt{}).Error; err != nil {
			return fmt.Errorf("courts: %w", err)
		}
		courts := *parts.Courts
		for i := range courts {
			courts[i].ID = 0
			courts[i].TournamentID = tournamentID
		}
		if len(courts) > 0 {
			if err := tx.Create(&courts).Error; err != nil {
				return fmt.Errorf("courts: %w", err)
			}
		}
	}

	if parts.TimeBlocks != nil {
		if err := tx.Where("tournament_id = ?", tournamentID).Delete(&models.TournamentTimeBlock{}).Error; err != nil {
			return fmt.Errorf("time blocks: %w", err)
		}
		blocks := *parts.TimeBlocks
		for i := range blocks {
			blocks[i].ID = 0
			blocks[i].TournamentID = tournamentID
		}
		if len(blocks) > 0 {
			if err := tx.Create(&blocks).Error; err != nil {
				return fmt.Errorf("time blocks: %w", err)
			}
		}
	}

	if parts.Entries != nil {
		if err := tx.Where("tournament_id = ?", tournamentID).Delete(&models.TournamentEntry{}).Error; err != nil {
			return fmt.Errorf("entries: %w", err)
		}
		entries := *parts.Entries
		for i := range entries {
			entries[i].ID = 0
			entries[i].TournamentID = tournamentID
		}
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return fmt.Errorf("entries: %w", entryErrors.translate(err))
			}
		}
	}

	return nil
}

func (r *gormTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	var t models.Tournament
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, tournamentErrors.translate(err)
	}
	return &t, nil
}

func (r *gormTournamentRepository) GetBySlug(ctx context.Context, slug string) (*models.Tournament, error) {
	var t models.Tournament
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&t).Error; err != nil {
		return nil, tournamentErrors.translate(err)
	}
	return &t, nil
}

func (r *gormTournamentRepository) List(ctx context.Context, status models.TournamentStatus) ([]models.Tournament, error) {
	tournaments := make([]models.Tournament, 0)
	q := r.db.WithContext(ctx).Order("start_date DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&tournaments).Error; err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *gormTournamentRepository) Search(ctx context.Context, query string, limit int) ([]models.Tournament, error) {
	pattern := "%" + escapeLike(query) + "%"
	tournaments := make([]models.Tournament, 0)
	err := r.db.WithContext(ctx).
		Joins("LEFT JOIN tournament_venues v ON v.tournament_id = tournaments.id").
		Where("tournaments.name ILIKE ? OR v.venue_city ILIKE ? OR v.venue_name ILIKE ?", pattern, pattern, pattern).
		Order("tournaments.start_date DESC").
		Limit(limit).
		Find(&tournaments).Error
	if err != nil {
		return nil, err
	}
	return tournaments, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *gormTournamentRepository) UpdateLogo(ctx context.Context, id int, logoURL string) error {
	result := r.db.WithContext(ctx).Model(&models.Tournament{}).Where("id = ?", id).Update("logo_url", logoURL)
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *gormTournamentRepository) Delete(ctx context.Context, id int) error {
	return checkAffectedRows(r.db.WithContext(ctx).Delete(&models.Tournament{}, id), ErrTournamentNotFound)
}

func (r *gormTournamentRepository) GetVenue(ctx context.Context, tournamentID int) (*models.TournamentVenue, error) {
	var venues []models.TournamentVenue
	err := r.db.WithContext(ctx).Where("tournament_id = ?", tournamentID).Limit(1).Find(&venues).Error
	if err != nil {
		return nil, err
	}
	if len(venues) == 0 {
		return nil, nil
	}
	return &venues[0], nil
}

func (r *gormTournamentRepository) ListEvents(ctx context.Context, tournamentID int) ([]models.TournamentEvent, error) {
	events := make([]models.TournamentEvent, 0)
	err := r.db.WithContext(ctx).Where("tournament_id = ?", tournamentID).Order("id").Find(&events).Error
	return events, err
}

func (r *gormTournamentRepository) ListCourts(ctx context.Context, tournamentID int) ([]models.TournamentCourt, error) {
	courts := make([]models.TournamentCourt, 0)
	err := r.db.WithContext(ctx).Where("tournament_id = ?", tournamentID).Order("court_number, id").Find(&courts).Error
	return courts, err
}

func (r *gormTournamentRepository) ListTimeBlocks(ctx context.Context, tournamentID int) ([]models.TournamentTimeBlock, error) {
	blocks := make([]models.TournamentTimeBlock, 0)
	err := r.db.WithContext(ctx).Where("tournament_id = ?", tournamentID).
		Order("block_date, start_time, id").Find(&blocks).Error
	return blocks, err
}

func (r *gormTournamentRepository) ListEntries(ctx context.Context, tournamentID int) ([]models.TournamentEntry, error) {
	entries := make([]models.TournamentEntry, 0)
	err := r.db.WithContext(ctx).Where("tournament_id = ?", tournamentID).Order("id").Find(&entries).Error
	return entries, err
}

var entryErrors = pgErrors{
	notFound:   ErrEntryNotFound,
	unique:     map[string]error{"tournament_entries_player_key": ErrEntryConflict},
	foreignKey: ErrTournamentInvalidReference,
}

func (r *gormTournamentRepository) CreateEntry(ctx context.Context, entry *models.TournamentEntry) error {
	return entryErrors.translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *gormTournamentRepository) DeleteEntry(ctx context.Context, tournamentID, entryID int) error {
	result := r.db.WithContext(ctx).
		Where("tournament_id = ? AND id = ?", tournamentID, entryID).
		Delete(&models.TournamentEntry{})
	return checkAffectedRows(result, ErrEntryNotFound)
}

func (r *gormTournamentRepository) GetWinners(ctx context.Context, tournamentID int) (*models.TournamentWinner, error) {
	var w models.TournamentWinner
	err := r.db.WithContext(ctx).Where("tournament_id = ?", tournamentID).First(&w).Error
	if err != nil {
		return nil, pgErrors{notFound: ErrWinnersNotFound}.translate(err)
	}
	return &w, nil
}

func (r *gormTournamentRepository) UpsertWinners(ctx context.Context, winners *models.TournamentWinner) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tournament_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"first_place_club_id", "second_place_club_id", "third_place_club_id",
			"first_place_player_id", "second_place_player_id", "third_place_player_id",
			"updated_at",
		}),
	}).Create(winners).Error
	return pgErrors{foreignKey: ErrTournamentInvalidReference}.translate(err)
}

func (r *gormTournamentRepository) ListWinners(ctx context.Context) ([]models.TournamentWinnerSummary, error) {
	winners := make([]models.TournamentWinnerSummary, 0)
	err := r.db.WithContext(ctx).
		Table("tournament_winners AS w").
		Select("w.*, t.name AS tournament_name, t.slug AS tournament_slug").
		Joins("JOIN tournaments t ON t.id = w.tournament_id AND t.deleted_at IS NULL").
		Order("t.start_date DESC").
		Scan(&winners).Error
	return winners, err
}

var lineupErrors = pgErrors{
	unique:     map[string]error{"tournament_lineups_player_category_key": ErrLineupConflict},
	foreignKey: ErrTournamentInvalidReference,
}

func (r *gormTournamentRepository) AddLineup(ctx context.Context, lineup *models.TournamentLineup) error {
	return lineupErrors.translate(r.db.WithContext(ctx).Create(lineup).Error)
}

func (r *gormTournamentRepository) ListByClubs(ctx context.Context, clubIDs []int) ([]models.Tournament, error) {
	tournaments := make([]models.Tournament, 0)
	if len(clubIDs) == 0 {
		return tournaments, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN (SELECT tournament_id FROM tournament_lineups WHERE club_id IN ?)", clubIDs).
		Order("start_date DESC, id DESC").
		Find(&tournaments).Error
	return tournaments, err
}

func (r *gormTournamentRepository) ListLineups(ctx context.Context, tournamentID int) ([]models.TournamentLineup, error) {
	lineups := make([]models.TournamentLineup, 0)
	err := r.db.WithContext(ctx).Where("tournament_id = ?", tournamentID).Order("category, id").Find(&lineups).Error
	return lineups, err
}
