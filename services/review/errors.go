package review

import "errors"

var (
	// ErrInvalidRating signals a rating outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrNotYourRequest signals the caller is not the request's client.
	ErrNotYourRequest = errors.New("request belongs to another client")

	// ErrNoReview signals a comment for a request that was never rated.
	ErrNoReview = errors.New("no review exists for this request")
)
