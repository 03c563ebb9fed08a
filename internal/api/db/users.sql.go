package db

import (
	"context"
	"database/sql"
)

const userColumns = `id, first_name, last_name, email, mobile_no, password_hash, is_admin, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.MobileNo,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

const createUser = `INSERT INTO users (id, first_name, last_name, email, mobile_no, password_hash, is_admin)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// CreateUserParams はCreateUserの引数。
type CreateUserParams struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	MobileNo     string
	PasswordHash string
	IsAdmin      bool
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) error {
	_, err := q.db.ExecContext(ctx, createUser,
		arg.ID,
		arg.FirstName,
		arg.LastName,
		arg.Email,
		arg.MobileNo,
		arg.PasswordHash,
		arg.IsAdmin,
	)
	return err
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const countUsersByEmail = `SELECT COUNT(*) FROM users WHERE email = ?`

func (q *Queries) CountUsersByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUsersByEmail, email).Scan(&count)
	return count, err
}

// NULLのカラムは更新しない。
const updateUserProfile = `UPDATE users SET
    first_name = COALESCE(?, first_name),
    last_name = COALESCE(?, last_name),
    mobile_no = COALESCE(?, mobile_no),
    updated_at = datetime('now')
WHERE id = ?`

// UpdateUserProfileParams はUpdateUserProfileの引数。
type UpdateUserProfileParams struct {
	FirstName sql.NullString
	LastName  sql.NullString
	MobileNo  sql.NullString
	ID        string
}

// UpdateUserProfile は更新した行数を返す。
func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateUserProfile,
		arg.FirstName,
		arg.LastName,
		arg.MobileNo,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateUserPassword = `UPDATE users SET password_hash = ?, updated_at = datetime('now') WHERE id = ?`

// UpdateUserPasswordParams はUpdateUserPasswordの引数。
type UpdateUserPasswordParams struct {
	PasswordHash string
	ID           string
}

// UpdateUserPassword は更新した行数を返す。
func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateUserPassword, arg.PasswordHash, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setUserAdmin = `UPDATE users SET is_admin = 1, updated_at = datetime('now') WHERE id = ?`

// SetUserAdmin は更新した行数を返す。
func (q *Queries) SetUserAdmin(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, setUserAdmin, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
