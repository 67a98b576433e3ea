// Package users owns account registration, sign-in and the session log.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/auth"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmailTaken         = errors.New("email is already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const uniqueViolation = "23505"

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// Register creates the account and its first session row in one transaction
// and returns a typed result instead of relying on session-scoped output
// variables.
func (c *Conf) Register(ctx context.Context, nu NewUser, passwordHash string) (AuthResult, error) {
	var result AuthResult

	err := c.withTx(ctx, func(tx *sql.Tx) error {
		queryInsertUser := `
			INSERT INTO users (firstname, lastname, address, mobile, email, password_hash, role)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, queryInsertUser,
			nu.FirstName, nu.LastName, nu.Address, nu.Mobile, nu.Email, passwordHash, auth.RoleUser,
		).Scan(&result.UserID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}

		queryInsertLogin := `
			INSERT INTO user_logins (user_id, email)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, queryInsertLogin, result.UserID, nu.Email); err != nil {
			return fmt.Errorf("failed to insert login row: %w", err)
		}

		result.FirstName = nu.FirstName
		result.Role = auth.RoleUser
		return nil
	})
	if err != nil {
		return AuthResult{}, err
	}

	return result, nil
}

// Authenticate verifies the credentials and records a login row. Both an
// unknown email and a wrong password surface as ErrInvalidCredentials.
func (c *Conf) Authenticate(ctx context.Context, email, password string) (AuthResult, error) {
	var result AuthResult
	var passwordHash string

	querySelect := `
		SELECT id, firstname, password_hash, role
		FROM users
		WHERE email = $1
	`
	err := c.db.QueryRowContext(ctx, querySelect, email).Scan(
		&result.UserID, &result.FirstName, &passwordHash, &result.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("failed to query user: %w", err)
	}

	if !auth.CheckPassword(password, passwordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}

	queryInsertLogin := `
		INSERT INTO user_logins (user_id, email)
		VALUES ($1, $2)
	`
	if _, err := c.db.ExecContext(ctx, queryInsertLogin, result.UserID, email); err != nil {
		return AuthResult{}, fmt.Errorf("failed to insert login row: %w", err)
	}

	return result, nil
}

// Logout stamps the user's open session rows, if any exist.
func (c *Conf) Logout(ctx context.Context, userID int64) error {
	queryUpdate := `
		UPDATE user_logins
		SET logout_time = NOW()
		WHERE user_id = $1 AND logout_time IS NULL
	`
	if _, err := c.db.ExecContext(ctx, queryUpdate, userID); err != nil {
		return fmt.Errorf("failed to update logout time: %w", err)
	}
	return nil
}

// GetProfile returns the display fields for an account.
func (c *Conf) GetProfile(ctx context.Context, userID int64) (Profile, error) {
	var p Profile
	querySelect := `
		SELECT firstname, email
		FROM users
		WHERE id = $1
	`
	err := c.db.QueryRowContext(ctx, querySelect, userID).Scan(&p.FirstName, &p.Email)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to query profile: %w", err)
	}
	return p, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if er := tx.Rollback(); er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
