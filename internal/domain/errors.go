package domain

import "errors"

var (
	// ErrNotFound: the requested review (or processed record) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrProductNotFound: batch submission named an unknown product.
	ErrProductNotFound = errors.New("product not found")

	// ErrReviewMismatch: batch submission included review ids that do not
	// exist or do not belong to the given product.
	ErrReviewMismatch = errors.New("reviews not found or not owned by product")

	// ErrMalformedReview: the review payload lacks rawReview.attributes.
	ErrMalformedReview = errors.New("malformed review payload")

	// ErrAgentFailure: at least one agent invocation produced no result,
	// so the run persisted nothing.
	ErrAgentFailure = errors.New("agent invocation failed")

	// ErrDuplicate: an insert hit the unique index on org_review_id.
	ErrDuplicate = errors.New("processed review already exists")
)
