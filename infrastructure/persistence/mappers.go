package persistence

import (
	"github.com/mrskbj/wildberries-reviews-analysis/domain/review"
	"github.com/mrskbj/wildberries-reviews-analysis/domain/sentiment"
)

// ProductMapper maps between domain Product and ProductModel.
type ProductMapper struct{}

// ToDomain converts a ProductModel to a domain Product.
func (ProductMapper) ToDomain(e ProductModel) review.Product {
	return review.ReconstructProduct(e.ID, e.Name)
}

// ToModel converts a domain Product to a ProductModel.
func (ProductMapper) ToModel(p review.Product) ProductModel {
	return ProductModel{ID: p.ID(), Name: p.Name()}
}

// UserMapper maps between domain User and UserModel.
type UserMapper struct{}

// ToDomain converts a UserModel to a domain User.
func (UserMapper) ToDomain(e UserModel) review.User {
	return review.ReconstructUser(e.ID, e.Name)
}

// ToModel converts a domain User to a UserModel.
func (UserMapper) ToModel(u review.User) UserModel {
	return UserModel{ID: u.ID(), Name: u.Name()}
}

// ReviewMapper maps between domain Review and ReviewModel.
type ReviewMapper struct{}

// ToDomain converts a ReviewModel to a domain Review.
func (ReviewMapper) ToDomain(e ReviewModel) review.Review {
	return review.ReconstructReview(e.ID, e.ProductID, e.UserID, e.Text, e.Rating, e.ReviewDate)
}

// ToModel converts a domain Review to a ReviewModel.
func (ReviewMapper) ToModel(r review.Review) ReviewModel {
	return ReviewModel{
		ID:         r.ID(),
		ProductID:  r.ProductID(),
		UserID:     r.UserID(),
		Text:       r.Text(),
		Rating:     r.Rating(),
		ReviewDate: r.ReviewedAt(),
	}
}

// SentimentMapper maps between domain Analysis and SentimentModel.
type SentimentMapper struct{}

// ToDomain converts a SentimentModel to a domain Analysis.
func (SentimentMapper) ToDomain(e SentimentModel) sentiment.Analysis {
	return sentiment.ReconstructAnalysis(e.ReviewID, sentiment.Label(e.Label), e.CreatedAt)
}

// ToModel converts a domain Analysis to a SentimentModel.
func (SentimentMapper) ToModel(a sentiment.Analysis) SentimentModel {
	return SentimentModel{
		ReviewID:  a.ReviewID(),
		Label:     string(a.Label()),
		CreatedAt: a.CreatedAt(),
	}
}
