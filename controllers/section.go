package controllers

import (
	"market-api/apperror"
	"market-api/environment"
	"market-api/lookups"
	"market-api/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// public section routes

// GetSectionsTree returns the nested taxonomy
func GetSectionsTree(c *gin.Context) {

	creds := credentials(c)

	sections, err := environment.Env.SectionModel.ListSections()
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// staff sees the hellban-inclusive counters (the hb cache itself is
	// never serialized, see the Section bson/json tags)
	if creds.CanSeeHellbanned() {
		for i := range sections {
			sections[i].Cache = sections[i].CacheHB
		}
	}

	c.JSON(http.StatusOK, models.BuildSectionsTree(sections))
}

// GetSection returns one section with its breadcrumbs
func GetSection(c *gin.Context) {

	creds := credentials(c)

	section, err := environment.Env.SectionModel.GetSection(c.Param("id"))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	breadcrumbs, err := environment.Env.SectionModel.Breadcrumbs(section.ID)
	if err != nil && err != apperror.ErrNoData {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	res := struct {
		Section     *models.SectionView  `json:"section"`
		Breadcrumbs []models.SectionView `json:"breadcrumbs"`
	}{
		Section:     models.SanitizeSection(section, creds),
		Breadcrumbs: models.SanitizeSections(breadcrumbs, creds),
	}

	c.JSON(http.StatusOK, res)
}

// ListSectionItems returns a section's visible items
// format => /market/sections/:id/items?type=1&search=bike
func ListSectionItems(c *gin.Context) {

	creds := credentials(c)

	search := new(models.ItemSearch)
	search.SectionID = c.Param("id")
	search.SearchTerm = c.Query("search")
	search.Credentials = creds

	switch c.Query("type") {
	case "offers":
		search.TypeCode = lookups.ItemTypeOffer
	case "wishes":
		search.TypeCode = lookups.ItemTypeWish
	}

	items, err := environment.Env.ItemModel.SearchItems(search)
	if err != nil {
		// nothing found (not an error to the client)
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	environment.Env.Tracker.SaveSearch(search.SearchTerm, search.TypeCode, len(items))

	noPrice, err := environment.Env.SectionModel.NoPriceSections()
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, models.SanitizeItems(items, creds, noPrice))
}

// ChangeSubscription sets or clears the viewer's subscription on a section
func ChangeSubscription(c *gin.Context) {

	creds, ok := memberCredentials(c)
	if !ok {
		return
	}

	var apiError ErrorResponse

	data := struct {
		TypeCode  int32 `json:"typeCode" binding:"required"`
		LevelCode int32 `json:"levelCode"`
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	err := environment.Env.SubscriptionModel.ChangeSubscription(
		creds.UserID, c.Param("id"), data.TypeCode, data.LevelCode)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// ListSubscriptions returns the viewer's subscriptions
func ListSubscriptions(c *gin.Context) {

	creds, ok := memberCredentials(c)
	if !ok {
		return
	}

	subscriptions, err := environment.Env.SubscriptionModel.ListSubscriptions(creds.UserID)
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, models.SanitizeSubscriptions(subscriptions))
}
