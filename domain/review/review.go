// Package review provides domain types for the product-review load
// pipeline: normalized ingestion rows, the persisted entities they
// become, and the store contract the pipeline drives.
package review

import "time"

// Product is a reference entity identified by its normalized name.
// Created on first upsert, never updated, only removed by a bulk reset.
type Product struct {
	id   int64
	name string
}

// NewProduct creates a Product that has not been persisted yet.
func NewProduct(name string) Product {
	return Product{name: NormalizeKey(name)}
}

// ReconstructProduct rebuilds a Product from persisted state.
func ReconstructProduct(id int64, name string) Product {
	return Product{id: id, name: name}
}

// ID returns the store-assigned surrogate identifier (0 until persisted).
func (p Product) ID() int64 { return p.id }

// Name returns the normalized product name.
func (p Product) Name() string { return p.name }

// User is a reviewer reference entity, with the same lifecycle and
// uniqueness rule as Product.
type User struct {
	id   int64
	name string
}

// NewUser creates a User that has not been persisted yet.
func NewUser(name string) User {
	return User{name: NormalizeKey(name)}
}

// ReconstructUser rebuilds a User from persisted state.
func ReconstructUser(id int64, name string) User {
	return User{id: id, name: name}
}

// ID returns the store-assigned surrogate identifier (0 until persisted).
func (u User) ID() int64 { return u.id }

// Name returns the normalized reviewer name.
func (u User) Name() string { return u.name }

// Review is a persisted review row. Immutable once created; a review
// always references a resolved Product and User.
type Review struct {
	id         int64
	productID  int64
	userID     int64
	text       string
	rating     int
	reviewedAt time.Time
}

// NewReview creates a Review ready for insertion, from a normalized row
// and the resolved surrogate identifiers.
func NewReview(productID, userID int64, row Row) Review {
	return Review{
		productID:  productID,
		userID:     userID,
		text:       row.Text(),
		rating:     row.Rating(),
		reviewedAt: row.ReviewedAt(),
	}
}

// ReconstructReview rebuilds a Review from persisted state.
func ReconstructReview(id, productID, userID int64, text string, rating int, reviewedAt time.Time) Review {
	return Review{
		id:         id,
		productID:  productID,
		userID:     userID,
		text:       text,
		rating:     rating,
		reviewedAt: reviewedAt,
	}
}

// ID returns the store-assigned surrogate identifier (0 until persisted).
func (r Review) ID() int64 { return r.id }

// ProductID returns the referenced product identifier.
func (r Review) ProductID() int64 { return r.productID }

// UserID returns the referenced reviewer identifier.
func (r Review) UserID() int64 { return r.userID }

// Text returns the review body.
func (r Review) Text() string { return r.text }

// Rating returns the integer rating.
func (r Review) Rating() int { return r.rating }

// ReviewedAt returns the review timestamp.
func (r Review) ReviewedAt() time.Time { return r.reviewedAt }
