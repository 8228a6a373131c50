package database

import (
	"database/sql"
	"os"
	"sync"

	_ "github.com/joho/godotenv/autoload"
	_ "github.com/mattn/go-sqlite3"
)

// Service is the sqlite-backed store of finished match results.
type Service struct {
	db         *sql.DB
	m          *sync.Mutex
	table_name string
}

var tableName = "fourhundred"

// New opens (or creates) the results database at the given path. The
// FOURHUNDRED_DB environment variable overrides the path.
func New(path string) Service {
	if env := os.Getenv("FOURHUNDRED_DB"); env != "" {
		path = env
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		panic(err)
	}

	sqlStmt := `
	create table if not exists fourhundred (
		id string not null primary key,
		created_at string,
		player1 string,
		player2 string,
		player3 string,
		player4 string,
		player1_team integer,
		player2_team integer,
		player3_team integer,
		player4_team integer,
		team1_score integer,
		team2_score integer,
		rounds_played integer,
		winner_team integer
	);
	`
	_, err = db.Exec(sqlStmt)
	if err != nil {
		panic(err)
	}

	return Service{
		db:         db,
		table_name: tableName,
		m:          &sync.Mutex{},
	}
}

func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) TableName() string {
	return s.table_name
}

func scanResult(scan func(dest ...any) error) (MatchResult, error) {
	var result MatchResult
	err := scan(
		&result.ID,
		&result.CreatedAt,
		&result.Player1,
		&result.Player2,
		&result.Player3,
		&result.Player4,
		&result.Player1Team,
		&result.Player2Team,
		&result.Player3Team,
		&result.Player4Team,
		&result.Team1Score,
		&result.Team2Score,
		&result.RoundsPlayed,
		&result.WinnerTeam)
	return result, err
}

func (s *Service) GetAll() ([]MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query("SELECT * FROM " + s.table_name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		result, err := scanResult(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *Service) GetByID(id string) (MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	row := s.db.QueryRow("SELECT * FROM "+s.table_name+" WHERE id = ?", id)
	return scanResult(row.Scan)
}

func (s *Service) Insert(result MatchResult) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec("INSERT INTO "+s.table_name+
		" (id, created_at, player1, player2, player3, player4, player1_team, player2_team, player3_team, player4_team, team1_score, team2_score, rounds_played, winner_team)"+
		" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		result.ID,
		result.CreatedAt,
		result.Player1,
		result.Player2,
		result.Player3,
		result.Player4,
		result.Player1Team,
		result.Player2Team,
		result.Player3Team,
		result.Player4Team,
		result.Team1Score,
		result.Team2Score,
		result.RoundsPlayed,
		result.WinnerTeam)

	return err
}

func (s *Service) GetByPlayer(player_name string) ([]MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query("SELECT * FROM "+s.table_name+
		" WHERE player1 = ? OR player2 = ? OR player3 = ? OR player4 = ?",
		player_name,
		player_name,
		player_name,
		player_name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		result, err := scanResult(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, sql.ErrNoRows
	}

	return results, nil
}
