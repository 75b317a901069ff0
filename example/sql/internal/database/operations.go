package database

import (
	"context"
	"database/sql"
	"errors"
	"log"
)

// User represents a user in the database
type User struct {
	ID    int
	Name  string
	Email string
}

// CreateTable creates the users table if it doesn't exist
func (db *DB) CreateTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100),
			email VARCHAR(100)
		)
	`
	_, err := db.ExecContext(ctx, query)
	return err
}

// InsertUsers inserts sample users into the database
func (db *DB) InsertUsers(ctx context.Context) error {
	users := []User{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Bob", Email: "bob@example.com"},
		{Name: "Charlie", Email: "charlie@example.com"},
	}

	for _, user := range users {
		_, err := db.ExecContext(
			ctx,
			"INSERT INTO users (name, email) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			user.Name,
			user.Email,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// QueryUsers lists users and walks the result set, so the driver-level rows
// spans show up under the query trace.
func (db *DB) QueryUsers(ctx context.Context) error {
	rows, err := db.QueryContext(ctx, "SELECT id, name, email FROM users LIMIT 10")
	if err != nil {
		return err
	}
	defer rows.Close()

	var count int
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	log.Printf("Queried %d users", count)
	return nil
}

// GetUser looks up a single user through a prepared statement
func (db *DB) GetUser(ctx context.Context, name string) (*User, error) {
	stmt, err := db.PrepareContext(ctx, "SELECT id, name, email FROM users WHERE name = $1")
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var user User
	err = stmt.QueryRowContext(ctx, name).Scan(&user.ID, &user.Name, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	log.Printf("Got user: %s (%s)", user.Name, user.Email)
	return &user, nil
}

// InsertWithTransaction demonstrates transaction usage
func (db *DB) InsertWithTransaction(ctx context.Context) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (name, email) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		"Transaction User",
		"tx@example.com",
	)
	if err != nil {
		return err
	}

	var user User
	err = tx.QueryRowContext(
		ctx,
		"SELECT id, name, email FROM users WHERE email = $1",
		"tx@example.com",
	).Scan(&user.ID, &user.Name, &user.Email)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return err
	}
	log.Printf("Transaction committed for %s", user.Name)
	return nil
}
