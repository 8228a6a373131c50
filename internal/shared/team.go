package shared

import "github.com/google/uuid"

// Team numbers for the two fixed partnerships: seats 0 and 2 form team 1,
// seats 1 and 3 form team 2.
const (
	Team1 = 1
	Team2 = 2
)

// Team represents a partnership in a 400 match.
type Team struct {
	ID         string     `json:"id"`
	Players    [2]*Player `json:"players"`
	TeamNumber int        `json:"team_number"`
}

// NewTeam creates a team with the given logical number and partners.
func NewTeam(teamNumber int, player1, player2 *Player) *Team {
	player1.TeamID = teamNumber
	player2.TeamID = teamNumber
	return &Team{
		ID:         uuid.NewString(),
		Players:    [2]*Player{player1, player2},
		TeamNumber: teamNumber,
	}
}

// Score returns the partnership's cumulative score, the sum of both
// partners' individual scores.
func (t *Team) Score() int {
	return t.Players[0].Score + t.Players[1].Score
}
