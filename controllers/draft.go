package controllers

import (
	"market-api/apperror"
	"market-api/environment"
	"market-api/helpers"
	"market-api/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// drafts are private working copies; every route here is member-only

// ListDrafts returns the viewer's open drafts
func ListDrafts(c *gin.Context) {

	creds, ok := memberCredentials(c)
	if !ok {
		return
	}

	drafts, err := environment.Env.DraftModel.ListDrafts(creds.UserID)
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, drafts)
}

// GetDraft returns one draft (owners only)
func GetDraft(c *gin.Context) {

	creds, ok := memberCredentials(c)
	if !ok {
		return
	}

	draft, err := environment.Env.DraftModel.GetDraft(c.Param("id"), creds)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// AddDraft starts a new listing
func AddDraft(c *gin.Context) {

	creds, ok := memberCredentials(c)
	if !ok {
		return
	}

	var (
		apiError ErrorResponse
		data     models.Draft
	)

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	data.UserID = creds.UserID

	id, err := environment.Env.DraftModel.CreateDraft(&data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, Created{id})
}

// UpdateDraft saves the work in progress
func UpdateDraft(c *gin.Context) {

	creds, ok := memberCredentials(c)
	if !ok {
		return
	}

	var (
		apiError ErrorResponse
		data     models.Draft
	)

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	data.ID = helpers.ObjectID(c.Param("id"))

	err := environment.Env.DraftModel.UpdateDraft(&data, creds)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// DeleteDraft discards a draft
func DeleteDraft(c *gin.Context) {

	creds, ok := memberCredentials(c)
	if !ok {
		return
	}

	err := environment.Env.DraftModel.DeleteDraft(c.Param("id"), creds)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// PublishDraft turns a draft into a live listing and deletes the draft.
// Validation happens here, not while drafting - a draft may stay
// incomplete for as long as it lives.
func PublishDraft(c *gin.Context) {

	creds, ok := memberCredentials(c)
	if !ok {
		return
	}

	draft, err := environment.Env.DraftModel.GetDraft(c.Param("id"), creds)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	section, err := environment.Env.SectionModel.GetSection(draft.SectionID.Hex())
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	item, err := environment.Env.ItemModel.Validate(models.Item{
		TypeCode:    draft.TypeCode,
		SectionID:   draft.SectionID,
		UserID:      creds.UserID,
		UserName:    creds.LoginName,
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		Currency:    draft.Currency,
	}, section)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	id, err := environment.Env.ItemModel.CreateItem(item, creds.Hellbanned)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// the draft has served its purpose; an error here leaves a stale
	// draft behind which the purge job removes eventually
	_ = environment.Env.DraftModel.DeleteDraft(draft.ID.Hex(), creds)

	c.JSON(http.StatusOK, Created{id})
}
