package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/user-auth-service/internal/model"
)

// UserStore is the persistence contract consumed by handlers and middleware.
// Tests substitute an in-memory implementation.
type UserStore interface {
	Create(ctx context.Context, u *model.User) (uint64, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) error
	Update(ctx context.Context, u *model.User) error
	Deactivate(ctx context.Context, id uint64) error
	List(ctx context.Context, offset, limit int, activeOnly bool) ([]model.User, error)
	Count(ctx context.Context, activeOnly bool) (int, error)
	Search(ctx context.Context, q string, offset, limit int) ([]model.User, error)
}

// UserRepo implements UserStore on MySQL.
//
// Expected schema:
//
//	CREATE TABLE users (
//	  id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//	  email         VARCHAR(255) NOT NULL,
//	  username      VARCHAR(50)  NOT NULL,
//	  first_name    VARCHAR(100) NOT NULL,
//	  last_name     VARCHAR(100) NOT NULL,
//	  password_hash VARCHAR(100) NOT NULL,
//	  is_active     BOOLEAN NOT NULL DEFAULT TRUE,
//	  is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
//	  created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	  updated_at    DATETIME NULL,
//	  UNIQUE KEY uq_users_email (email),
//	  UNIQUE KEY uq_users_username (username)
//	);
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var _ UserStore = (*UserRepo)(nil)

const userColumns = "id,email,username,first_name,last_name,password_hash,is_active,is_admin,created_at,updated_at"

// Create inserts a user and returns its ID. Uniqueness of email and username
// is enforced by the database; a duplicate-key violation is mapped to the
// matching sentinel so two concurrent registrations resolve to exactly one row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, first_name, last_name, password_hash, is_active, is_admin) VALUES (?,?,?,?,?,?,?)",
		strings.ToLower(u.Email), u.Username, u.FirstName, u.LastName, u.PasswordHash, u.IsActive, u.IsAdmin)
	if err != nil {
		return 0, mapDuplicate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1",
		strings.ToLower(strings.TrimSpace(email))))
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username))
}

// GetByIdentifier fetches a user whose email or username matches the given
// identifier. Emails are compared lowercase, usernames exactly.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? OR username=? LIMIT 1",
		strings.ToLower(identifier), identifier))
}

// UpdatePassword stores a new password hash and bumps updated_at.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=? WHERE id=?",
		hash, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Update persists profile fields and flags. Email/username collisions surface
// as the same sentinels Create returns.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email=?, username=?, first_name=?, last_name=?, is_active=?, is_admin=?, updated_at=? WHERE id=?",
		strings.ToLower(u.Email), u.Username, u.FirstName, u.LastName, u.IsActive, u.IsAdmin, time.Now().UTC(), u.ID)
	if err != nil {
		return mapDuplicate(err)
	}
	return requireRow(res)
}

// Deactivate soft deletes a user by clearing the active flag.
func (r *UserRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=FALSE, updated_at=? WHERE id=?",
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// List returns users ordered by creation time with offset/limit pagination.
func (r *UserRepo) List(ctx context.Context, offset, limit int, activeOnly bool) ([]model.User, error) {
	q := "SELECT " + userColumns + " FROM users"
	if activeOnly {
		q += " WHERE is_active=TRUE"
	}
	q += " ORDER BY created_at, id LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context, activeOnly bool) (int, error) {
	q := "SELECT COUNT(*) FROM users"
	if activeOnly {
		q += " WHERE is_active=TRUE"
	}
	var n int
	err := r.DB.QueryRowContext(ctx, q).Scan(&n)
	return n, err
}

// Search matches active users whose name, email or username contains q.
func (r *UserRepo) Search(ctx context.Context, q string, offset, limit int) ([]model.User, error) {
	like := "%" + q + "%"
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE is_active=TRUE AND (first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR username LIKE ?) ORDER BY created_at, id LIMIT ? OFFSET ?",
		like, like, like, like, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	var (
		u         model.User
		updatedAt sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.IsActive, &u.IsAdmin, &u.CreatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		u.UpdatedAt = &t
	}
	return &u, nil
}

func collect(rows *sql.Rows) ([]model.User, error) {
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var (
			u         model.User
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
			&u.PasswordHash, &u.IsActive, &u.IsAdmin, &u.CreatedAt, &updatedAt); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			u.UpdatedAt = &t
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// mapDuplicate converts MySQL duplicate-key errors (1062) into sentinels by
// inspecting the violated index name.
func mapDuplicate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != 1062 {
		return err
	}
	if strings.Contains(me.Message, "uq_users_username") {
		return ErrUsernameExists
	}
	return ErrEmailExists
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
