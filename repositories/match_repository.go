package repositories

import (
	"context"
	"errors"

	"github.com/gnbf/badminton-registry/models"
	"gorm.io/gorm"
)

var (
	ErrTieNotFound           = errors.New("match tie not found")
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchInvalidReference = errors.New("match references a missing record")
)

type MatchRepository interface {
	CreateTie(ctx context.Context, tie *models.MatchTie) error
	GetTie(ctx context.Context, id int) (*models.MatchTie, error)
	ListTies(ctx context.Context, tournamentID int) ([]models.MatchTie, error)

	CreateMatch(ctx context.Context, match *models.IndividualMatch, doubles []models.MatchDoublesPlayer) error
	GetMatch(ctx context.Context, id int) (*models.MatchRecord, error)
	ListByTie(ctx context.Context, tieID int) ([]models.MatchRecord, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.MatchRecord, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]models.MatchRecord, error)
	ListRecent(ctx context.Context, limit int) ([]models.MatchRecord, error)
	ListByPlayer(ctx context.Context, playerID int, limit int) ([]models.MatchRecord, error)
	ListByUmpire(ctx context.Context, umpireID int) ([]models.MatchRecord, error)
}

type gormMatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &gormMatchRepository{db: db}
}

var matchErrors = pgErrors{
	notFound:   ErrMatchNotFound,
	foreignKey: ErrMatchInvalidReference,
}

func (r *gormMatchRepository) CreateTie(ctx context.Context, tie *models.MatchTie) error {
	return matchErrors.translate(r.db.WithContext(ctx).Create(tie).Error)
}

func (r *gormMatchRepository) GetTie(ctx context.Context, id int) (*models.MatchTie, error) {
	var tie models.MatchTie
	if err := r.db.WithContext(ctx).First(&tie, id).Error; err != nil {
		return nil, pgErrors{notFound: ErrTieNotFound}.translate(err)
	}
	return &tie, nil
}

func (r *gormMatchRepository) ListTies(ctx context.Context, tournamentID int) ([]models.MatchTie, error) {
	ties := make([]models.MatchTie, 0)
	err := r.db.WithContext(ctx).Where("tournament_id = ?", tournamentID).Order("tie_date, id").Find(&ties).Error
	return ties, err
}

func (r *gormMatchRepository) CreateMatch(ctx context.Context, match *models.IndividualMatch, doubles []models.MatchDoublesPlayer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(match).Error; err != nil {
			return err
		}
		if len(doubles) == 0 {
			return nil
		}
		for i := range doubles {
			doubles[i].ID = 0
			doubles[i].MatchID = match.ID
		}
		return tx.Create(&doubles).Error
	})
	return matchErrors.translate(err)
}

// records is the base query for match reads; it carries the tournament id of
// the owning tie.
func (r *gormMatchRepository) records(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("individual_matches AS m").
		Select("m.*, t.tournament_id").
		Joins("JOIN match_ties t ON t.id = m.tie_id")
}

func (r *gormMatchRepository) load(ctx context.Context, q *gorm.DB) ([]models.MatchRecord, error) {
	records := make([]models.MatchRecord, 0)
	if err := q.Scan(&records).Error; err != nil {
		return nil, err
	}
	if err := r.attachDoubles(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *gormMatchRepository) attachDoubles(ctx context.Context, records []models.MatchRecord) error {
	var ids []int
	for _, rec := range records {
		if rec.MatchType == models.MatchDoubles {
			ids = append(ids, rec.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var sides []models.MatchDoublesPlayer
	err := r.db.WithContext(ctx).Where("match_id IN ?", ids).Order("match_id, team_side, id").Find(&sides).Error
	if err != nil {
		return err
	}
	byMatch := make(map[int][]models.MatchDoublesPlayer, len(ids))
	for _, s := range sides {
		byMatch[s.MatchID] = append(byMatch[s.MatchID], s)
	}
	for i := range records {
		records[i].Doubles = byMatch[records[i].ID]
	}
	return nil
}

func (r *gormMatchRepository) GetMatch(ctx context.Context, id int) (*models.MatchRecord, error) {
	records, err := r.load(ctx, r.records(ctx).Where("m.id = ?", id))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrMatchNotFound
	}
	return &records[0], nil
}

func (r *gormMatchRepository) ListByTie(ctx context.Context, tieID int) ([]models.MatchRecord, error) {
	return r.load(ctx, r.records(ctx).Where("m.tie_id = ?", tieID).Order("m.id"))
}

func (r *gormMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.MatchRecord, error) {
	return r.load(ctx, r.records(ctx).Where("t.tournament_id = ?", tournamentID).Order("m.id"))
}

func (r *gormMatchRepository) ListByCategory(ctx context.Context, category string, limit int) ([]models.MatchRecord, error) {
	return r.load(ctx, r.records(ctx).Where("m.category = ?", category).
		Order("m.created_at DESC, m.id DESC").Limit(limit))
}

func (r *gormMatchRepository) ListRecent(ctx context.Context, limit int) ([]models.MatchRecord, error) {
	return r.load(ctx, r.records(ctx).Where("m.winner_id IS NOT NULL").
		Order("m.created_at DESC, m.id DESC").Limit(limit))
}

func (r *gormMatchRepository) ListByPlayer(ctx context.Context, playerID int, limit int) ([]models.MatchRecord, error) {
	q := r.records(ctx).
		Where(`m.player_1_id = ? OR m.player_2_id = ? OR EXISTS (
			SELECT 1 FROM match_doubles_players d WHERE d.match_id = m.id AND d.player_id = ?)`,
			playerID, playerID, playerID).
		Order("m.created_at DESC, m.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.load(ctx, q)
}

func (r *gormMatchRepository) ListByUmpire(ctx context.Context, umpireID int) ([]models.MatchRecord, error) {
	return r.load(ctx, r.records(ctx).Where("m.umpire_id = ?", umpireID).Order("m.id"))
}
