package services

const (
	EventTournamentUpdated  = "tournament.updated"
	EventTournamentWinners  = "tournament.winners"
	EventRankingsCalculated = "rankings.calculated"
)

// Notifier pushes live events to subscribers of a tournament, keyed by slug.
type Notifier interface {
	Publish(room, event string, payload interface{})
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, string, interface{}) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
