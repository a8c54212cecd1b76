package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)
}

// Run is one saved calculation. Input and Result are stored as JSON so the
// history survives changes to the engine's types.
type Run struct {
	ID        string          `json:"id"`
	UserID    int             `json:"-"`
	Model     string          `json:"model"`
	Input     json.RawMessage `json:"input"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

type RunRepository interface {
	SaveRun(ctx context.Context, run Run) (string, error)
	ListRuns(ctx context.Context, userID, limit int) ([]Run, error)
}

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserDB(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

// GetByLogin returns id 0 and no error when the login is unknown.
func (r *PostgresUserRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresUserRepository) SaveRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	query := "INSERT INTO wind_runs (id, user_id, model, input, result) VALUES ($1, $2, $3, $4, $5)"
	_, err := r.db.ExecContext(ctx, query, run.ID, run.UserID, run.Model, []byte(run.Input), []byte(run.Result))
	return run.ID, err
}

func (r *PostgresUserRepository) ListRuns(ctx context.Context, userID, limit int) ([]Run, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT id, model, input, result, created_at FROM wind_runs
		WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run := Run{UserID: userID}
		var input, result []byte
		if err := rows.Scan(&run.ID, &run.Model, &input, &result, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.Input, run.Result = input, result
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Schema creates the tables the repository uses.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id       SERIAL PRIMARY KEY,
	login    TEXT UNIQUE NOT NULL,
	email    TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS wind_runs (
	id         UUID PRIMARY KEY,
	user_id    INTEGER NOT NULL REFERENCES users(id),
	model      TEXT NOT NULL,
	input      JSONB NOT NULL,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS wind_runs_user_created ON wind_runs (user_id, created_at DESC);
`

func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
