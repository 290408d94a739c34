package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"tarot-game/internal/game"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const tableName = "tarot_rounds"

// columns lists the stored columns in RoundResult field order.
var columns = []string{
	"id", "created_at", "table_code",
	"seat1", "seat2", "seat3", "seat4", "seat5",
	"taker", "partner", "bid", "made", "value",
	"payoff1", "payoff2", "payoff3", "payoff4", "payoff5",
	"detail",
}

// Service stores round results in SQLite or PostgreSQL.
type Service struct {
	db        *sql.DB
	m         *sync.Mutex
	driver    string
	tableName string
}

// New opens the database with driver ("sqlite3" or "pgx") and makes sure
// the results table exists.
func New(driver, dsn string) (*Service, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	sqlStmt := `
	create table if not exists ` + tableName + ` (
		id text not null primary key,
		created_at text,
		table_code text,
		seat1 text,
		seat2 text,
		seat3 text,
		seat4 text,
		seat5 text,
		taker text,
		partner text,
		bid text,
		made boolean,
		value integer,
		payoff1 integer,
		payoff2 integer,
		payoff3 integer,
		payoff4 integer,
		payoff5 integer,
		detail text
	);
	`
	if _, err := db.Exec(sqlStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create %s: %w", tableName, err)
	}

	return &Service{
		db:        db,
		m:         &sync.Mutex{},
		driver:    driver,
		tableName: tableName,
	}, nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) TableName() string {
	return s.tableName
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Service) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Service) selectQuery(where string) string {
	q := "SELECT " + strings.Join(columns, ", ") + " FROM " + s.tableName
	if where != "" {
		q += " WHERE " + where
	}
	return s.rebind(q + " ORDER BY created_at")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (RoundResult, error) {
	var r RoundResult
	err := row.Scan(
		&r.ID,
		&r.CreatedAt,
		&r.TableCode,
		&r.Seat1,
		&r.Seat2,
		&r.Seat3,
		&r.Seat4,
		&r.Seat5,
		&r.Taker,
		&r.Partner,
		&r.Bid,
		&r.Made,
		&r.Value,
		&r.Payoff1,
		&r.Payoff2,
		&r.Payoff3,
		&r.Payoff4,
		&r.Payoff5,
		&r.Detail)
	return r, err
}

func (s *Service) query(q string, args ...any) ([]RoundResult, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []RoundResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *Service) GetAll() ([]RoundResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.query(s.selectQuery(""))
}

func (s *Service) GetByID(id string) (RoundResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	r, err := scanResult(s.db.QueryRow(s.selectQuery("id = ?"), id))
	if err != nil {
		return RoundResult{}, err
	}
	return r, nil
}

func (s *Service) Insert(result RoundResult) error {
	s.m.Lock()
	defer s.m.Unlock()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	_, err := s.db.Exec(s.rebind("INSERT INTO "+s.tableName+
		" ("+strings.Join(columns, ", ")+") VALUES ("+placeholders+")"),
		result.ID,
		result.CreatedAt,
		result.TableCode,
		result.Seat1,
		result.Seat2,
		result.Seat3,
		result.Seat4,
		result.Seat5,
		result.Taker,
		result.Partner,
		result.Bid,
		result.Made,
		result.Value,
		result.Payoff1,
		result.Payoff2,
		result.Payoff3,
		result.Payoff4,
		result.Payoff5,
		result.Detail)
	return err
}

// GetByPlayer returns every round seat name sat in. It returns
// sql.ErrNoRows when there are none.
func (s *Service) GetByPlayer(seatName string) ([]RoundResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	results, err := s.query(
		s.selectQuery("seat1 = ? OR seat2 = ? OR seat3 = ? OR seat4 = ? OR seat5 = ?"),
		seatName,
		seatName,
		seatName,
		seatName,
		seatName)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows
	}
	return results, nil
}

// NewRoundResult flattens a scored round into a storable row.
func NewRoundResult(tableCode string, r *game.Result, at time.Time) (RoundResult, error) {
	if len(r.Seats) != 5 {
		return RoundResult{}, fmt.Errorf("round %s has %d seats, want 5", r.ID, len(r.Seats))
	}
	detail, err := json.Marshal(r)
	if err != nil {
		return RoundResult{}, fmt.Errorf("failed to encode round %s: %w", r.ID, err)
	}
	return RoundResult{
		ID:        r.ID,
		CreatedAt: at.UTC().Format(time.RFC3339Nano),
		TableCode: tableCode,
		Seat1:     r.Seats[0],
		Seat2:     r.Seats[1],
		Seat3:     r.Seats[2],
		Seat4:     r.Seats[3],
		Seat5:     r.Seats[4],
		Taker:     r.Camp.Taker,
		Partner:   r.Camp.Partner,
		Bid:       string(r.Bid),
		Made:      r.Score.Made,
		Value:     r.Score.Value,
		Payoff1:   r.Payoffs[r.Seats[0]],
		Payoff2:   r.Payoffs[r.Seats[1]],
		Payoff3:   r.Payoffs[r.Seats[2]],
		Payoff4:   r.Payoffs[r.Seats[3]],
		Payoff5:   r.Payoffs[r.Seats[4]],
		Detail:    string(detail),
	}, nil
}
