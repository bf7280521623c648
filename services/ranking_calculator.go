package services

import (
	"sort"
	"time"

	"github.com/gnbf/badminton-registry/models"
)

var placementKeys = map[int]string{1: "1st_place", 2: "2nd_place", 3: "3rd_place"}

const setWinKey = "set"

type pointKey struct {
	achievementType string
	achievementKey  string
	category        string
}

// pointTable resolves configured point values, preferring a category specific
// row over the general one.
type pointTable map[pointKey]int

func newPointTable(config []models.RankingPointConfig) pointTable {
	table := make(pointTable, len(config))
	for _, c := range config {
		if !c.Active {
			continue
		}
		k := pointKey{achievementType: c.AchievementType, achievementKey: c.AchievementKey}
		if c.Category != nil {
			k.category = *c.Category
		}
		table[k] = c.Points
	}
	return table
}

func (t pointTable) value(achievementType, achievementKey, category string) int {
	if v, ok := t[pointKey{achievementType, achievementKey, category}]; ok {
		return v
	}
	return t[pointKey{achievementType, achievementKey, ""}]
}

type pointsKey struct {
	playerID int
	category string
}

// tally accumulates per player and category points for one tournament.
type tally map[pointsKey]*models.TournamentPlayerPoints

func (t tally) get(playerID int, category string) *models.TournamentPlayerPoints {
	k := pointsKey{playerID, category}
	p, ok := t[k]
	if !ok {
		p = &models.TournamentPlayerPoints{PlayerID: playerID, Category: category}
		t[k] = p
	}
	return p
}

// calculatePoints awards placement, match win and set win points for one
// tournament. Match wins need a decided match; set wins count every scored set.
func calculatePoints(
	config []models.RankingPointConfig,
	winners *models.TournamentWinner,
	lineups []models.TournamentLineup,
	matches []models.MatchRecord,
	awardedAt time.Time,
) ([]models.TournamentPlayerPoints, int) {
	table := newPointTable(config)
	points := make(tally)

	ordered := append([]models.MatchRecord(nil), matches...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	decided := make([]models.MatchRecord, 0, len(ordered))
	for _, m := range ordered {
		if m.WinningSide() != 0 {
			decided = append(decided, m)
		}
	}

	if winners != nil {
		for place, playerID := range winners.PlacedPlayers() {
			for _, category := range placementCategories(playerID, lineups, decided) {
				p := points.get(playerID, category)
				p.PlacementPoints = table.value(models.AchievementPlacement, placementKeys[place], category)
				placement := place
				p.FinalPlacement = &placement
			}
		}
	}

	for _, m := range decided {
		winSide := m.WinningSide()
		matchPoints := table.value(models.AchievementMatchWin, m.MatchType, m.Category)
		for _, side := range []int{1, 2} {
			for _, playerID := range m.Side(side) {
				p := points.get(playerID, m.Category)
				if side == winSide {
					p.MatchesWon++
					p.MatchPoints += matchPoints
				} else {
					p.MatchesLost++
				}
			}
		}
	}

	for _, m := range ordered {
		sets1, sets2 := setsWon(m.IndividualMatch)
		if sets1 == 0 && sets2 == 0 {
			continue
		}
		setPoints := table.value(models.AchievementSetWin, setWinKey, m.Category)
		for _, side := range []int{1, 2} {
			won, lost := sets1, sets2
			if side == 2 {
				won, lost = sets2, sets1
			}
			for _, playerID := range m.Side(side) {
				p := points.get(playerID, m.Category)
				p.SetsWon += won
				p.SetsLost += lost
				p.SetPoints += won * setPoints
			}
		}
	}

	out := make([]models.TournamentPlayerPoints, 0, len(points))
	for _, p := range points {
		p.TotalPoints = p.PlacementPoints + p.MatchPoints + p.SetPoints
		p.AwardedAt = awardedAt
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, len(decided)
}

// placementCategories lists the categories a placed player competed in: their
// lineup categories, else the category of their first match.
func placementCategories(playerID int, lineups []models.TournamentLineup, matches []models.MatchRecord) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, l := range lineups {
		if l.PlayerID == playerID || (l.Player2ID != nil && *l.Player2ID == playerID) {
			if !seen[l.Category] {
				seen[l.Category] = true
				categories = append(categories, l.Category)
			}
		}
	}
	if len(categories) > 0 {
		return categories
	}
	for _, m := range matches {
		if sideOf(m, playerID) != 0 {
			return []string{m.Category}
		}
	}
	return nil
}
