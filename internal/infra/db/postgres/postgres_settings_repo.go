package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"telefication/internal/domain"
	"telefication/internal/domain/model"
	"telefication/internal/domain/ports/repository"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Ensure interface compliance
var _ repository.SettingsRepository = (*PostgresSettingsRepo)(nil)

// optionName is the row holding the option set, mirroring the single
// serialized option the site stores.
const optionName = "telefication_options"

// Sealer encrypts the bot token before it is written to the row.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(value string) (string, error)
}

type PostgresSettingsRepo struct {
	pool   *pgxpool.Pool
	sealer Sealer
}

// NewPostgresSettingsRepo stores the token in clear text when sealer is nil.
func NewPostgresSettingsRepo(pool *pgxpool.Pool, sealer Sealer) *PostgresSettingsRepo {
	return &PostgresSettingsRepo{pool: pool, sealer: sealer}
}

func (r *PostgresSettingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	const sql = `
SELECT value
  FROM telefication_options
 WHERE name = $1;
`
	var raw []byte
	if err := r.pool.QueryRow(ctx, sql, optionName).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("Get settings: %w", err)
	}
	var s model.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if r.sealer != nil {
		tok, err := r.sealer.Open(s.BotToken)
		if err != nil {
			return nil, fmt.Errorf("open bot token: %w", err)
		}
		s.BotToken = tok
	}
	return &s, nil
}

func (r *PostgresSettingsRepo) Save(ctx context.Context, s *model.Settings) error {
	if s == nil {
		return domain.ErrInvalidArgument
	}
	if r.sealer != nil {
		tok, err := r.sealer.Seal(s.BotToken)
		if err != nil {
			return fmt.Errorf("seal bot token: %w", err)
		}
		s = s.Clone()
		s.BotToken = tok
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	const sql = `
INSERT INTO telefication_options (name, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE
  SET value      = EXCLUDED.value,
      updated_at = EXCLUDED.updated_at;
`
	var tag pgconn.CommandTag
	tag, err = r.pool.Exec(ctx, sql, optionName, raw)
	if err != nil {
		return fmt.Errorf("Save settings: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("Save settings: %d rows affected", tag.RowsAffected())
	}
	return nil
}
