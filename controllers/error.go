package controllers

import (
	"fmt"
	"market-api/apperror"
	"market-api/models"
	"net/http"
)

// ErrorResponse is the standardized error structure which may be returned by any API
type ErrorResponse struct {
	Code    int32  `json:"code"`
	Message string `json:"msg"`
}

// HandleError maps a model error to the std ErrorResponse and its HTTP status
func HandleError(err error) (httpStatus int, apiError ErrorResponse) {

	if err == nil {
		return 0, apiError
	}

	fmt.Println(err)
	switch err {
	// system
	case apperror.ErrMultipleRecords:
		apiError.Code = MultipleRecords
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusInternalServerError
	case apperror.ErrRecordChanged:
		apiError.Code = RecordChanged
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusInternalServerError
	// permissions
	case apperror.ErrGuest:
		apiError.Code = PermissionGuest
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusForbidden
	case apperror.ErrDenied:
		apiError.Code = ActionDenied
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusForbidden
	case apperror.ErrNotOwner:
		apiError.Code = ActionDenied
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusForbidden
	// domain conflicts
	case apperror.ErrSectionNotEmpty:
		apiError.Code = SectionNotEmpty
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusConflict
	case apperror.ErrItemClosed:
		apiError.Code = ItemClosed
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusConflict
	// validation
	case models.ErrSectionTitleMissing:
		apiError.Code = SectionTitleMissing
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrItemTitleMissing:
		apiError.Code = ItemTitleMissing
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrPriceMissing:
		apiError.Code = PriceMissing
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrSectionNotPostable:
		apiError.Code = SectionNotPostable
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrItemNotOffer:
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrLinkExists:
		apiError.Code = LinkExists
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	// not found
	case models.ErrSectionNotFound:
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusNotFound
	case models.ErrDraftNotFound:
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusNotFound
	case apperror.ErrNoData:
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusNotFound
	default:
		apiError.Code = SystemError
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusInternalServerError
	}
	return httpStatus, apiError
}

// Application Error Codes (API Errors)
const (
	// client/api
	InvalidJSON int32 = (10000 + iota)
	InvalidRequest
	// generic system
	MultipleRecords
	RecordChanged
	ActionDenied
	// permission
	PermissionGuest
	// section
	SectionTitleMissing
	SectionNotEmpty
	SectionNotPostable
	LinkExists
	// item
	ItemTitleMissing
	ItemClosed
	PriceMissing
	SystemError = 99999
)

func (er ErrorResponse) String(code int32) string {
	msg := ""
	switch code {
	// common (system)
	case InvalidJSON:
		msg = "Invalid JSON"
	case InvalidRequest:
		msg = "Invalid Request" // JSON was correct, data was not
	case MultipleRecords:
		msg = "multiple records found"
	case RecordChanged:
		msg = "record changed by another user"
	case ActionDenied:
		msg = "action not allowed"
	// permission (item access)
	case PermissionGuest:
		msg = "user is guest"
	// section
	case SectionTitleMissing:
		msg = "section title is required"
	case SectionNotEmpty:
		msg = "section still has children, links or items"
	case SectionNotPostable:
		msg = "section does not accept this item type"
	case LinkExists:
		msg = "section is already linked here"
	// item
	case ItemTitleMissing:
		msg = "item title is required"
	case ItemClosed:
		msg = "item is already closed"
	case PriceMissing:
		msg = "price is required in this section"
	case SystemError:
		msg = "Server Problem"
	}

	return msg
}
