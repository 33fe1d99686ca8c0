package services

import "errors"

var (
	ErrMissingField     = errors.New("missing required field")
	ErrNotFound         = errors.New("not found")
	ErrDuplicateRequest = errors.New("contact request already exists")
	ErrDuplicateRating  = errors.New("rating already submitted")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrForbidden        = errors.New("only clients may perform this action")
	ErrNotUnlocked      = errors.New("agent has not been unlocked")
)
