package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken      = errors.New("INVALID_TOKEN")
	ErrProductNotFound   = errors.New("PRODUCT_NOT_FOUND")
	ErrCategoryNotFound  = errors.New("CATEGORY_NOT_FOUND")
	ErrSessionNotFound   = errors.New("SESSION_NOT_FOUND")
	ErrDatasetNotLoaded  = errors.New("DATASET_NOT_LOADED")
	ErrUnsupportedSource = errors.New("UNSUPPORTED_SOURCE")
)
