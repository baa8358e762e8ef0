package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/platform/logger"
	"github.com/phrazzld/kinetic-api/internal/store"
)

// DefaultListLimit caps ListByLearner when the caller passes no limit.
const DefaultListLimit = 50

// MaxListLimit is the largest page ListByLearner returns.
const MaxListLimit = 500

// PostgresInteractionStore implements store.InteractionStore.
type PostgresInteractionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.InteractionStore = (*PostgresInteractionStore)(nil)

// NewPostgresInteractionStore creates a store on db, which may be a pool or
// a transaction owned by the caller.
func NewPostgresInteractionStore(db store.DBTX, logger *slog.Logger) *PostgresInteractionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresInteractionStore{
		db:     db,
		logger: logger.With(slog.String("component", "interaction_store")),
	}
}

// Create implements store.InteractionStore. A row with the same ID is left
// untouched.
func (s *PostgresInteractionStore) Create(ctx context.Context, interaction *domain.Interaction) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := interaction.Validate(); err != nil {
		log.Warn("interaction validation failed during create",
			slog.String("error", err.Error()),
			slog.String("interaction_id", interaction.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO interactions
			(id, learner_id, slide_id, module_id, submodule_id, interaction_id, value, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query,
		interaction.ID,
		interaction.LearnerID,
		interaction.SlideID,
		interaction.ModuleID,
		interaction.SubmoduleID,
		interaction.InteractionID,
		string(interaction.Value),
		interaction.Timestamp,
		interaction.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create interaction",
			slog.String("error", err.Error()),
			slog.String("interaction_id", interaction.ID.String()))
		return store.NewStoreError("interaction", "create", "insert failed", MapError(err))
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		log.Debug("interaction already stored",
			slog.String("interaction_id", interaction.ID.String()))
	}
	return nil
}

// GetByID implements store.InteractionStore.
func (s *PostgresInteractionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Interaction, error) {
	query := `
		SELECT id, learner_id, slide_id, module_id, submodule_id, interaction_id, value, occurred_at, created_at
		FROM interactions
		WHERE id = $1
	`

	var i domain.Interaction
	var value []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&i.ID, &i.LearnerID, &i.SlideID, &i.ModuleID, &i.SubmoduleID,
		&i.InteractionID, &value, &i.Timestamp, &i.CreatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			return nil, store.ErrInteractionNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get interaction",
			slog.String("error", err.Error()),
			slog.String("interaction_id", id.String()))
		return nil, store.NewStoreError("interaction", "get", "query failed", mapped)
	}

	i.Value = value
	return &i, nil
}

// ListByLearner implements store.InteractionStore.
func (s *PostgresInteractionStore) ListByLearner(
	ctx context.Context,
	learnerID uuid.UUID,
	limit int,
) ([]*domain.Interaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	limit = clampLimit(limit)

	query := `
		SELECT id, learner_id, slide_id, module_id, submodule_id, interaction_id, value, occurred_at, created_at
		FROM interactions
		WHERE learner_id = $1
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, learnerID, limit)
	if err != nil {
		log.Error("failed to list interactions",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, store.NewStoreError("interaction", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	interactions := make([]*domain.Interaction, 0, limit)
	for rows.Next() {
		var i domain.Interaction
		var value []byte
		if err := rows.Scan(
			&i.ID, &i.LearnerID, &i.SlideID, &i.ModuleID, &i.SubmoduleID,
			&i.InteractionID, &value, &i.Timestamp, &i.CreatedAt,
		); err != nil {
			return nil, store.NewStoreError("interaction", "list", "scan failed", err)
		}
		i.Value = value
		interactions = append(interactions, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("interaction", "list", "row iteration failed", err)
	}

	return interactions, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
