package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"boardgame-catalog/internal/catalog"
)

const gamesQuery = `
	SELECT id, title, genre, rating, min_players, max_players, playtime,
		description, rules, shelf, difficulty, image
	FROM games
	ORDER BY id`

// Postgres reads the catalog from a games table. It connects for the single
// fetch and closes the pool afterwards.
type Postgres struct {
	dsn string
}

func NewPostgres(dsn string) *Postgres {
	return &Postgres{dsn: dsn}
}

func (s *Postgres) Name() string {
	return "postgres"
}

func (s *Postgres) Fetch(ctx context.Context) ([]catalog.RawRecord, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", s.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return fetchGames(ctx, db)
}

type gameRow struct {
	ID          int64           `db:"id"`
	Title       sql.NullString  `db:"title"`
	Genre       sql.NullString  `db:"genre"`
	Rating      sql.NullFloat64 `db:"rating"`
	MinPlayers  sql.NullInt64   `db:"min_players"`
	MaxPlayers  sql.NullInt64   `db:"max_players"`
	Playtime    sql.NullInt64   `db:"playtime"`
	Description sql.NullString  `db:"description"`
	Rules       sql.NullString  `db:"rules"`
	Shelf       sql.NullString  `db:"shelf"`
	Difficulty  sql.NullString  `db:"difficulty"`
	Image       sql.NullString  `db:"image"`
}

func fetchGames(ctx context.Context, db *sqlx.DB) ([]catalog.RawRecord, error) {
	var rows []gameRow
	if err := db.SelectContext(ctx, &rows, gamesQuery); err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}

	records := make([]catalog.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.raw())
	}
	return records, nil
}

func (r gameRow) raw() catalog.RawRecord {
	return catalog.RawRecord{
		ID:          r.ID,
		Title:       nullString(r.Title),
		Genre:       nullString(r.Genre),
		Rating:      nullFloat(r.Rating),
		Players:     &catalog.RawPlayers{Min: nullInt(r.MinPlayers), Max: nullInt(r.MaxPlayers)},
		Playtime:    nullInt(r.Playtime),
		Description: nullString(r.Description),
		Rules:       nullString(r.Rules),
		Shelf:       nullString(r.Shelf),
		Difficulty:  nullString(r.Difficulty),
		Image:       nullString(r.Image),
	}
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullFloat(f sql.NullFloat64) any {
	if !f.Valid {
		return nil
	}
	return f.Float64
}

func nullInt(i sql.NullInt64) any {
	if !i.Valid {
		return nil
	}
	return i.Int64
}
