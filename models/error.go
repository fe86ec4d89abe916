package models

import (
	"errors"
)

// custom error types (generic types found in apperror package)

// section
// transformed by controllers to respective Unprocessable Entity (422)
var (
	ErrSectionTitleMissing = errors.New("section title is required")
	ErrSectionNotFound     = errors.New("section does not exist")
	ErrSectionNotPostable  = errors.New("section does not accept this item type")
	ErrLinkExists          = errors.New("section is already linked here")
)

// item
var (
	ErrItemTitleMissing = errors.New("item title is required")
	ErrItemNotOffer     = errors.New("operation applies to offers only")
	ErrPriceMissing     = errors.New("price is required in this section")
)

// draft
var (
	ErrDraftNotFound = errors.New("draft does not exist")
)

// currency
var (
	ErrRatesIncomplete = errors.New("rate feed is missing configured currencies")
)
