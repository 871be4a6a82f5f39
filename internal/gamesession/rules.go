package gamesession

import "github.com/TheAwiteb/xors/internal/domain"

// Best-of policy, chosen for the open question in the engine spec:
// first to RoundsToWin round wins the game outright; otherwise the game
// ends as a draw once MaxRounds rounds have been played.
const (
	RoundsToWin = 3
	MaxRounds   = 5
)

// gameOverCheck reports whether the game ends given the current scores
// and the number of the round that just finished, and if so, who won
// the game overall (empty for a draw game).
func gameOverCheck(scores map[domain.PlayerId]int, round int) (over bool, winner domain.PlayerId) {
	for player, score := range scores {
		if score >= RoundsToWin {
			return true, player
		}
	}
	if round >= MaxRounds {
		return true, ""
	}
	return false, ""
}
