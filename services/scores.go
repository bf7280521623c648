package services

import (
	"strconv"
	"strings"

	"github.com/gnbf/badminton-registry/models"
)

const defaultScore = "[default]"

// parseScore reads a set score of the form "21-15". Walkovers and malformed
// scores report ok == false.
func parseScore(score string) (side1, side2 int, ok bool) {
	score = strings.TrimSpace(score)
	if score == "" || score == defaultScore {
		return 0, 0, false
	}
	left, right, found := strings.Cut(score, "-")
	if !found {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil || a < 0 {
		return 0, 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil || b < 0 {
		return 0, 0, false
	}
	return a, b, true
}

// setsWon counts the decided sets taken by each side of a match.
func setsWon(m models.IndividualMatch) (side1, side2 int) {
	for _, score := range m.SetScores() {
		a, b, ok := parseScore(score)
		if !ok || a == b {
			continue
		}
		if a > b {
			side1++
		} else {
			side2++
		}
	}
	return side1, side2
}

// sideOf returns the side (1 or 2) playerID played on, or 0.
func sideOf(m models.MatchRecord, playerID int) int {
	for _, side := range []int{1, 2} {
		for _, id := range m.Side(side) {
			if id == playerID {
				return side
			}
		}
	}
	return 0
}
