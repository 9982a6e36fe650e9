package repository

//go:generate mockgen -source=user_repository.go -destination=mocks/mock_user_repository.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eaglebank/user-accounts/shared/models"
)

var (
	// ErrNotFound is returned when no user row matches the given id.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when a write violates the username uniqueness constraint.
	ErrDuplicate = errors.New("username already exists")
)

// UserRepository is the record store for users.
type UserRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	// Get returns ErrNotFound when the id is absent.
	Get(ctx context.Context, id int64) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Save inserts the user when its ID is zero and fully overwrites the row
	// otherwise. The returned user carries the store-assigned ID.
	Save(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// SQLUserRepository implements UserRepository on top of database/sql.
type SQLUserRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewUserRepository(db *sql.DB, dialect Dialect) *SQLUserRepository {
	return &SQLUserRepository{db: db, dialect: dialect}
}

var _ UserRepository = (*SQLUserRepository)(nil)

func (r *SQLUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := r.dialect.rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`)
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (r *SQLUserRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	query := r.dialect.rebind(`
		SELECT id, username, gender, birth_date, account_creation
		FROM users
		WHERE id = $1
	`)
	var user models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Gender, &user.BirthDate, &user.AccountCreation,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *SQLUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := r.dialect.rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`)
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

func (r *SQLUserRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == 0 {
		return r.insert(ctx, user)
	}
	return r.update(ctx, user)
}

func (r *SQLUserRepository) insert(ctx context.Context, user *models.User) (*models.User, error) {
	query := r.dialect.rebind(`
		INSERT INTO users (username, gender, birth_date, account_creation)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`)
	saved := *user
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Gender, user.BirthDate, user.AccountCreation,
	).Scan(&saved.ID)
	if err != nil {
		if r.dialect.isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &saved, nil
}

func (r *SQLUserRepository) update(ctx context.Context, user *models.User) (*models.User, error) {
	query := r.dialect.rebind(`
		UPDATE users
		SET username = $1, gender = $2, birth_date = $3, account_creation = $4
		WHERE id = $5
	`)
	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Gender, user.BirthDate, user.AccountCreation, user.ID,
	)
	if err != nil {
		if r.dialect.isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	saved := *user
	return &saved, nil
}

func (r *SQLUserRepository) Delete(ctx context.Context, id int64) error {
	query := r.dialect.rebind(`DELETE FROM users WHERE id = $1`)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
