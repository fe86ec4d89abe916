package controllers

import (
	"market-api/apperror"
	"market-api/environment"
	"market-api/helpers"
	"market-api/models"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetItem returns one listing, counting the view
func GetItem(c *gin.Context) {

	creds := credentials(c)

	item, err := environment.Env.ItemModel.GetItem(c.Param("id"), creds)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// count the view (cached, flushed by the cron job) and show the
	// caller an up-to-date number right away
	viewerID := ""
	if creds.UserID != primitive.NilObjectID {
		viewerID = creds.UserID.Hex()
	}
	environment.Env.ViewCounter.SaveView(item.ID.Hex(), viewerID, c.ClientIP())
	item.Views += environment.Env.ViewCounter.PendingViews(item.ID.Hex())

	noPrice, err := environment.Env.SectionModel.NoPriceSections()
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, models.SanitizeItem(item, creds, noPrice))
}

// GetSimilarItems returns a few open listings resembling the given one
func GetSimilarItems(c *gin.Context) {

	creds := credentials(c)

	items, err := environment.Env.ItemModel.SimilarItems(c.Param("id"), creds)
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	noPrice, err := environment.Env.SectionModel.NoPriceSections()
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, models.SanitizeItems(items, creds, noPrice))
}

// CloseItem ends a listing (owner or moderator) and moves it to the archive
func CloseItem(c *gin.Context) {

	creds, ok := memberCredentials(c)
	if !ok {
		return
	}

	err := environment.Env.ItemModel.CloseItem(c.Param("id"), creds)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// RenewItem pushes an offer's auto-close date out again (owners only)
func RenewItem(c *gin.Context) {

	creds, ok := memberCredentials(c)
	if !ok {
		return
	}

	err := environment.Env.ItemModel.RenewItem(c.Param("id"), creds)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// SetBookmark remembers a listing for the viewer
func SetBookmark(c *gin.Context) {

	creds, ok := memberCredentials(c)
	if !ok {
		return
	}

	err := environment.Env.ItemModel.SetBookmark(c.Param("id"), creds.UserID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// RemoveBookmark forgets a listing again
func RemoveBookmark(c *gin.Context) {

	creds, ok := memberCredentials(c)
	if !ok {
		return
	}

	err := environment.Env.ItemModel.RemoveBookmark(c.Param("id"), creds.UserID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// GetUserCounters returns a user's listing statistics
func GetUserCounters(c *gin.Context) {

	creds := credentials(c)

	counters, err := environment.Env.CounterModel.GetCounters(helpers.ObjectID(c.Param("id")))
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, models.SanitizeCounters(counters, creds))
}
