package persistence

import (
	"fmt"

	"github.com/mrskbj/wildberries-reviews-analysis/internal/database"
)

// AutoMigrate runs GORM auto migration for all models.
func AutoMigrate(db database.Database) error {
	if err := db.GORM().AutoMigrate(
		&ProductModel{},
		&UserModel{},
		&ReviewModel{},
		&SentimentModel{},
	); err != nil {
		return err
	}
	return postMigrate(db)
}

// postMigrate creates the FK constraints GORM's struct tags cannot
// express here: reviews reference products/users without association
// fields on the models, and sentiment rows must cascade when their
// review goes away. Idempotent; safe to run on every startup.
func postMigrate(db database.Database) error {
	if !db.IsPostgres() {
		return nil
	}

	gdb := db.GORM()

	constraints := []struct {
		table      string
		name       string
		definition string
	}{
		{
			table:      "reviews",
			name:       "fk_reviews_product_id",
			definition: "FOREIGN KEY (product_id) REFERENCES products(product_id) ON DELETE CASCADE",
		},
		{
			table:      "reviews",
			name:       "fk_reviews_user_id",
			definition: "FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE",
		},
		{
			table:      "sentiment_analysis",
			name:       "fk_sentiment_review_id",
			definition: "FOREIGN KEY (review_id) REFERENCES reviews(review_id) ON DELETE CASCADE",
		},
	}

	for _, c := range constraints {
		if err := gdb.Exec(fmt.Sprintf(
			`ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s`, c.table, c.name,
		)).Error; err != nil {
			return fmt.Errorf("drop constraint %s.%s: %w", c.table, c.name, err)
		}
		if err := gdb.Exec(fmt.Sprintf(
			`ALTER TABLE %s ADD CONSTRAINT %s %s`, c.table, c.name, c.definition,
		)).Error; err != nil {
			return fmt.Errorf("create constraint %s.%s: %w", c.table, c.name, err)
		}
	}

	return nil
}
