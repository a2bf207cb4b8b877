package planner

import "errors"

// Sentinel errors returned by Apply. A rejected action never changes the session.
var (
	ErrWrongPhase         = errors.New("action not allowed in current phase")
	ErrEmptyName          = errors.New("category name is empty")
	ErrInvalidBudget      = errors.New("budget must be greater than zero")
	ErrNoSubcategories    = errors.New("at least one subcategory is required")
	ErrDuplicateCategory  = errors.New("category already exists")
	ErrInvalidDays        = errors.New("number of days must be greater than zero")
	ErrNoCategories       = errors.New("add at least one category first")
	ErrNegativeAmount     = errors.New("amount must not be negative")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownSubcategory = errors.New("unknown subcategory")
	ErrCategoryComplete   = errors.New("category has logged every day")
)
