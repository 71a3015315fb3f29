package postgres

import (
	"context"
	"errors"
	"fmt"
	"taskManager/internal/logger"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// Create опирается на ограничение users_email_key
func (s *Storage) Create(ctx context.Context, userToCreate *user.User) error {
	start := time.Now()

	if userToCreate.ID.IsZero() {
		userToCreate.ID = primitive.NewObjectID()
	}

	query := `INSERT INTO users
				(id, email, name, image, location, description)
				VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
		userToCreate.ID.Hex(),
		userToCreate.Email,
		userToCreate.Name,
		userToCreate.Image,
		userToCreate.Location,
		userToCreate.Description,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			logger.Warn("Repository: Дубликат email", zap.String("email", userToCreate.Email))
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить пользователя", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление пользователя: %w", err)
	}
	return nil
}

func (s *Storage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT id, email, name, image, location, description
				FROM users
				WHERE email = $1`

	found, err := scanUser(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return found, nil
}

func (s *Storage) UpdateProfile(ctx context.Context, email string, profile user.Profile) (*user.User, error) {
	query := `UPDATE users
			SET name = $1,
				location = $2,
				description = $3,
				image = $4
			WHERE email = $5
			RETURNING id, email, name, image, location, description`

	updated, err := scanUser(s.pool.QueryRow(ctx, query,
		profile.Name,
		profile.Location,
		profile.Description,
		profile.Image,
		email,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить пользователя", err)
		return nil, fmt.Errorf("обновление пользователя: %w", err)
	}
	return updated, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var id string
	u := &user.User{}

	if err := row.Scan(&id, &u.Email, &u.Name, &u.Image, &u.Location, &u.Description); err != nil {
		return nil, err
	}

	parsed, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("разбор id %q: %w", id, err)
	}
	u.ID = parsed
	return u, nil
}
