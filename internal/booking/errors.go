package booking

import "campus-backend/internal/apperr"

var (
	errMissingStart   = apperr.Validation("Valid start time is required")
	errMissingEnd     = apperr.Validation("Valid end time is required")
	errEndBeforeStart = apperr.Validation("End time must be after start time")
)
