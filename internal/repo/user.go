package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/crucial707/job-board/internal/models"
	"github.com/lib/pq"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userColumns = `id, username, nickname, phone, email, password_hash, image_url, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Nickname,
		&user.Phone,
		&user.Email,
		&user.PasswordHash,
		&user.ImageURL,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ==========================
// Create User
// ==========================
// Create inserts a new user. passwordHash must already be a bcrypt hash.
// A duplicate username returns ErrConflict.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash, nickname, phone, email string, imageURL *string) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, nickname, phone, email, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	row := r.DB.QueryRowContext(ctx, query, username, passwordHash, nickname, phone, email, imageURL)
	user, err := scanUser(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, id))
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, username))
}

// UserUpdate holds the optional profile fields of a PATCH. Nil means "leave as is".
type UserUpdate struct {
	Nickname *string
	Phone    *string
	Email    *string
	ImageURL *string
}

// ==========================
// Update Profile
// ==========================
// UpdateProfile applies the non-nil fields to the given user. The returned
// count is the number of affected rows (0 when the user does not exist).
func (r *UserRepo) UpdateProfile(ctx context.Context, id int, upd UserUpdate) (int64, error) {
	var set []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Nickname != nil {
		add("nickname", *upd.Nickname)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}

	if len(set) == 0 {
		return 0, errors.New("no fields to update")
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
