package service

import (
	"context"
	"database/sql"
	"strings"

	"artisan-market/internal/apperr"
	"artisan-market/internal/auth"
	"artisan-market/pkg/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// UserService handles user persistence. The surrogate id is the primary key;
// phone and email are secondary lookups whose uniqueness is configurable.
type UserService struct {
	db     *sqlx.DB
	opts   Options
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(db *sqlx.DB, opts Options, logger *zap.Logger) *UserService {
	return &UserService{
		db:     db,
		opts:   opts,
		logger: logger,
	}
}

// Create inserts a user, hashing the password when one is given
func (s *UserService) Create(ctx context.Context, req model.UserCreateRequest) (*model.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	switch {
	case name == "":
		return nil, apperr.NewBadRequest("name is required")
	case email == "":
		return nil, apperr.NewBadRequest("email is required")
	case phone == "":
		return nil, apperr.NewBadRequest("phone is required")
	}

	var hash sql.NullString
	if req.Password != "" {
		h, err := auth.HashPassword(req.Password, s.opts.BcryptCost)
		if err != nil {
			return nil, apperr.Wrap(err, "Failed to create user")
		}
		hash = sql.NullString{String: h, Valid: true}
	}

	var user model.User
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.checkSecondaryKeys(ctx, tx, email, phone, ""); err != nil {
			return err
		}
		return tx.GetContext(ctx, &user, `
            INSERT INTO users (id, name, email, phone, password_hash, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
            RETURNING `+userColumns,
			uuid.NewString(), name, email, phone, hash)
	})
	if err != nil {
		return nil, apperr.Wrap(translate(err, "User not found"), "Failed to create user")
	}
	user.Assignments = []model.Assignment{}

	s.logger.Info("User created", zap.String("user_id", user.ID))
	return &user, nil
}

// List returns every user with assignments
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := s.db.SelectContext(ctx, &users, "SELECT "+userColumns+" FROM users ORDER BY created_at, id"); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch users")
	}
	if err := attachUserAssignments(ctx, s.db, users); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch users")
	}
	return users, nil
}

// Get returns one user by id
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := getUser(ctx, s.db, id, noLock)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch user")
	}
	users := []model.User{*user}
	if err := attachUserAssignments(ctx, s.db, users); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch user")
	}
	return &users[0], nil
}

// GetByPhone returns the user holding phone
func (s *UserService) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	id, err := s.idByPhone(ctx, phone)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch user")
	}
	return s.Get(ctx, id)
}

// Update overwrites the provided fields
func (s *UserService) Update(ctx context.Context, id string, req model.UserUpdateRequest) (*model.User, error) {
	var user model.User
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		current, err := getUser(ctx, tx, id, lockUpdate)
		if err != nil {
			return err
		}

		var b updateBuilder
		email, phone := "", ""
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperr.NewBadRequest("name must not be empty")
			}
			b.set("name", name)
		}
		if req.Email != nil {
			v := strings.TrimSpace(*req.Email)
			if v == "" {
				return apperr.NewBadRequest("email must not be empty")
			}
			if v != current.Email {
				email = v
			}
			b.set("email", v)
		}
		if req.Phone != nil {
			v := strings.TrimSpace(*req.Phone)
			if v == "" {
				return apperr.NewBadRequest("phone must not be empty")
			}
			if v != current.Phone {
				phone = v
			}
			b.set("phone", v)
		}
		if err := s.checkSecondaryKeys(ctx, tx, email, phone, id); err != nil {
			return err
		}
		if req.Password != nil {
			h, err := auth.HashPassword(*req.Password, s.opts.BcryptCost)
			if err != nil {
				return err
			}
			b.set("password_hash", h)
		}

		query, args := b.build("users", id, userColumns)
		return tx.GetContext(ctx, &user, query, args...)
	})
	if err != nil {
		return nil, apperr.Wrap(translate(err, "User not found"), "Failed to update user")
	}

	users := []model.User{user}
	if err := attachUserAssignments(ctx, s.db, users); err != nil {
		return nil, apperr.Wrap(err, "Failed to update user")
	}

	s.logger.Info("User updated", zap.String("user_id", id))
	return &users[0], nil
}

// UpdateByPhone updates the user holding phone. The phone itself is the key and stays unchanged.
func (s *UserService) UpdateByPhone(ctx context.Context, req model.UserPhoneUpdateRequest) (*model.User, error) {
	id, err := s.idByPhone(ctx, req.Phone)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to update user")
	}
	return s.Update(ctx, id, model.UserUpdateRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
}

// Delete removes a user, honouring the delete policy for assignments
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := getUser(ctx, tx, id, lockUpdate); err != nil {
			return err
		}

		var count int
		if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM assignments WHERE user_id = $1", id); err != nil {
			return err
		}
		if count > 0 {
			if !s.opts.cascade() {
				return apperr.NewConflict("User has dependent records (assignments: %d)", count)
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM assignments WHERE user_id = $1", id); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
		return err
	})
	if err != nil {
		return apperr.Wrap(translate(err, "User not found"), "Failed to delete user")
	}

	s.logger.Info("User deleted", zap.String("user_id", id))
	return nil
}

// DeleteByPhone removes the user holding phone
func (s *UserService) DeleteByPhone(ctx context.Context, phone string) error {
	id, err := s.idByPhone(ctx, phone)
	if err != nil {
		return apperr.Wrap(err, "Failed to delete user")
	}
	return s.Delete(ctx, id)
}

// idByPhone resolves the phone key. Several matches are only possible when
// phone uniqueness is disabled, and are reported instead of picking one.
func (s *UserService) idByPhone(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", apperr.NewBadRequest("phone is required")
	}
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, "SELECT id FROM users WHERE phone = $1 ORDER BY created_at LIMIT 2", phone); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", apperr.NewNotFound("User not found")
	case 1:
		return ids[0], nil
	default:
		return "", apperr.NewConflict("Several users share this phone; use /api/users/id/:id")
	}
}

// checkSecondaryKeys enforces configured email and phone uniqueness.
// Empty values are skipped.
func (s *UserService) checkSecondaryKeys(ctx context.Context, tx *sqlx.Tx, email, phone, exceptID string) error {
	if email != "" && s.opts.Uniqueness.UserEmail {
		taken, err := secondaryKeyTaken(ctx, tx, "users", "email", email, exceptID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.NewConflict("A user with this email already exists")
		}
	}
	if phone != "" && s.opts.Uniqueness.UserPhone {
		taken, err := secondaryKeyTaken(ctx, tx, "users", "phone", phone, exceptID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.NewConflict("A user with this phone already exists")
		}
	}
	return nil
}

func attachUserAssignments(ctx context.Context, q sqlx.QueryerContext, users []model.User) error {
	ids := make([]string, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	byUser, err := assignmentsByUser(ctx, q, ids)
	if err != nil {
		return err
	}
	for i := range users {
		users[i].Assignments = byUser[users[i].ID]
		if users[i].Assignments == nil {
			users[i].Assignments = []model.Assignment{}
		}
	}
	return nil
}
