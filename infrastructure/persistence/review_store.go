package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrskbj/wildberries-reviews-analysis/domain/review"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/database"
)

// upsertBatchSize is the statement chunk size for reference upserts.
// Batching is a throughput choice only; the end state equals sequential
// inserts.
const upsertBatchSize = 500

// ReviewStore implements review.Store using GORM.
type ReviewStore struct {
	db       database.Database
	mapper   ReviewMapper
	products ProductMapper
	users    UserMapper
}

// NewReviewStore creates a new ReviewStore.
func NewReviewStore(db database.Database) ReviewStore {
	return ReviewStore{db: db}
}

// Reset truncates products, users, and reviews in a single transaction,
// restarting identity counters. Sentiment rows cascade with their
// reviews. On SQLite, where multi-table TRUNCATE does not exist, the
// equivalent DELETE + sequence reset runs inside the same transaction.
func (s ReviewStore) Reset(ctx context.Context) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if s.db.IsPostgres() {
			if err := tx.Exec(`TRUNCATE TABLE products, users, reviews RESTART IDENTITY CASCADE`).Error; err != nil {
				return fmt.Errorf("truncate tables: %w", err)
			}
			return nil
		}

		for _, table := range []string{"sentiment_analysis", "reviews", "users", "products"} {
			if err := tx.Exec(`DELETE FROM ` + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		// sqlite_sequence only exists once an AUTOINCREMENT column has
		// been written to; skip the reset on a fresh database.
		var hasSequence int64
		if err := tx.Raw(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'`).Scan(&hasSequence).Error; err != nil {
			return fmt.Errorf("check sqlite_sequence: %w", err)
		}
		if hasSequence > 0 {
			if err := tx.Exec(`DELETE FROM sqlite_sequence WHERE name IN ('products', 'users', 'reviews')`).Error; err != nil {
				return fmt.Errorf("reset identity counters: %w", err)
			}
		}
		return nil
	})
}

// UpsertReferences inserts product and reviewer natural keys, ignoring
// keys that already exist. Both tables are written inside one
// transaction, committing once after both sets.
func (s ReviewStore) UpsertReferences(ctx context.Context, productKeys, userKeys []string) error {
	if len(productKeys) == 0 && len(userKeys) == 0 {
		return nil
	}
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.upsertProducts(tx, productKeys); err != nil {
			return fmt.Errorf("upsert products: %w", err)
		}
		if err := s.upsertUsers(tx, userKeys); err != nil {
			return fmt.Errorf("upsert users: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert references: %w", err)
	}
	return nil
}

// UpsertProducts inserts product natural keys only.
func (s ReviewStore) UpsertProducts(ctx context.Context, names []string) error {
	return s.UpsertReferences(ctx, names, nil)
}

// UpsertUsers inserts reviewer natural keys only.
func (s ReviewStore) UpsertUsers(ctx context.Context, names []string) error {
	return s.UpsertReferences(ctx, nil, names)
}

func (s ReviewStore) upsertProducts(tx *gorm.DB, names []string) error {
	if len(names) == 0 {
		return nil
	}
	models := make([]ProductModel, len(names))
	for i, name := range names {
		models[i] = s.products.ToModel(review.NewProduct(name))
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_name"}},
		DoNothing: true,
	}).CreateInBatches(&models, upsertBatchSize).Error
}

func (s ReviewStore) upsertUsers(tx *gorm.DB, names []string) error {
	if len(names) == 0 {
		return nil
	}
	models := make([]UserModel, len(names))
	for i, name := range names {
		models[i] = s.users.ToModel(review.NewUser(name))
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_name"}},
		DoNothing: true,
	}).CreateInBatches(&models, upsertBatchSize).Error
}

// ProductIDs reads back the full product name-to-identifier mapping.
func (s ReviewStore) ProductIDs(ctx context.Context) (map[string]int64, error) {
	var models []ProductModel
	if err := s.db.Session(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("read product ids: %w", err)
	}
	ids := make(map[string]int64, len(models))
	for _, m := range models {
		p := s.products.ToDomain(m)
		ids[p.Name()] = p.ID()
	}
	return ids, nil
}

// UserIDs reads back the full reviewer name-to-identifier mapping.
func (s ReviewStore) UserIDs(ctx context.Context) (map[string]int64, error) {
	var models []UserModel
	if err := s.db.Session(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("read user ids: %w", err)
	}
	ids := make(map[string]int64, len(models))
	for _, m := range models {
		u := s.users.ToDomain(m)
		ids[u.Name()] = u.ID()
	}
	return ids, nil
}

// InsertReviews bulk-inserts reviews in chunks of batchSize rows inside
// one transaction, committing once after all chunks.
func (s ReviewStore) InsertReviews(ctx context.Context, reviews []review.Review, batchSize int) (int, error) {
	if len(reviews) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = upsertBatchSize
	}

	models := make([]ReviewModel, len(reviews))
	for i, r := range reviews {
		models[i] = s.mapper.ToModel(r)
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		return tx.CreateInBatches(&models, batchSize).Error
	})
	if err != nil {
		return 0, fmt.Errorf("insert reviews: %w", err)
	}
	return len(models), nil
}

// ReviewText returns the body of one persisted review.
func (s ReviewStore) ReviewText(ctx context.Context, reviewID int64) (string, error) {
	var model ReviewModel
	err := s.db.Session(ctx).First(&model, "review_id = ?", reviewID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("review %d not found", reviewID)
		}
		return "", fmt.Errorf("read review %d: %w", reviewID, err)
	}
	return s.mapper.ToDomain(model).Text(), nil
}

var _ review.Store = ReviewStore{}
