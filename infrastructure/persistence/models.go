// Package persistence provides GORM-backed storage for the review
// pipeline schema.
package persistence

import "time"

// ProductModel represents a product reference row.
type ProductModel struct {
	ID   int64  `gorm:"column:product_id;primaryKey;autoIncrement"`
	Name string `gorm:"column:product_name;uniqueIndex;size:512;not null"`
}

// TableName returns the table name.
func (ProductModel) TableName() string {
	return "products"
}

// UserModel represents a reviewer reference row.
type UserModel struct {
	ID   int64  `gorm:"column:user_id;primaryKey;autoIncrement"`
	Name string `gorm:"column:user_name;uniqueIndex;size:512;not null"`
}

// TableName returns the table name.
func (UserModel) TableName() string {
	return "users"
}

// ReviewModel represents a review row.
type ReviewModel struct {
	ID         int64     `gorm:"column:review_id;primaryKey;autoIncrement"`
	ProductID  int64     `gorm:"column:product_id;index;not null"`
	UserID     int64     `gorm:"column:user_id;index;not null"`
	Text       string    `gorm:"column:review_text;type:text;not null"`
	Rating     int       `gorm:"column:rating;not null"`
	ReviewDate time.Time `gorm:"column:review_date"`
}

// TableName returns the table name.
func (ReviewModel) TableName() string {
	return "reviews"
}

// SentimentModel represents the NLP enrichment row for one review.
// The review_id primary key enforces at most one analysis per review.
type SentimentModel struct {
	ReviewID  int64     `gorm:"column:review_id;primaryKey"`
	Label     string    `gorm:"column:sentiment_label;size:16;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName returns the table name.
func (SentimentModel) TableName() string {
	return "sentiment_analysis"
}
