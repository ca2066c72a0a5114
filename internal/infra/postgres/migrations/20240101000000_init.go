package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

const createUsersSQL = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password VARCHAR(255) NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

const createScoresSQL = `
CREATE TABLE IF NOT EXISTS scores (
    id SERIAL PRIMARY KEY,
    user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
    score INTEGER NOT NULL,
    questions_attempted INTEGER NOT NULL,
    game_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

const createQuestionSetsSQL = `
CREATE TABLE IF NOT EXISTS question_sets (
    id TEXT PRIMARY KEY,
    data JSONB NOT NULL
)`

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			for _, stmt := range []string{createUsersSQL, createScoresSQL, createQuestionSetsSQL} {
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			for _, stmt := range []string{
				`DROP TABLE IF EXISTS question_sets`,
				`DROP TABLE IF EXISTS scores`,
				`DROP TABLE IF EXISTS users`,
			} {
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			return nil
		},
	)
}
