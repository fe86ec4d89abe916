package controllers

import (
	"market-api/apperror"
	"market-api/environment"
	"market-api/helpers"
	"market-api/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// admin routes for maintaining the section taxonomy

// GetSectionsTreeAdmin returns the full tree including linked placements
func GetSectionsTreeAdmin(c *gin.Context) {

	if _, ok := adminCredentials(c); !ok {
		return
	}

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

	c.JSON(http.StatusOK, models.BuildSectionsTreeAdmin(sections))
}

// AddSection creates a new taxonomy node
func AddSection(c *gin.Context) {

	if _, ok := adminCredentials(c); !ok {
		return
	}

	var (
		apiError ErrorResponse
		data     models.Section
	)

	// use "shouldBind" - not all fields are required in this context
	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	section, err := environment.Env.SectionModel.Validate(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	id, err := environment.Env.SectionModel.CreateSection(section)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, Created{id})
}

// UpdateSection changes a node's title and flags
func UpdateSection(c *gin.Context) {

	if _, ok := adminCredentials(c); !ok {
		return
	}

	var (
		apiError ErrorResponse
		data     models.Section
	)

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	data.ID = helpers.ObjectID(c.Param("id"))

	err := environment.Env.SectionModel.UpdateSection(&data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// DeleteSection removes an empty node
func DeleteSection(c *gin.Context) {

	if _, ok := adminCredentials(c); !ok {
		return
	}

	err := environment.Env.SectionModel.DeleteSection(c.Param("id"))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// AddSectionLink places an existing section below another one
func AddSectionLink(c *gin.Context) {

	if _, ok := adminCredentials(c); !ok {
		return
	}

	var apiError ErrorResponse

	data := struct {
		LinkedID string `json:"linkedID" binding:"required"`
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	err := environment.Env.SectionModel.CreateLink(c.Param("id"), data.LinkedID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// DeleteSectionLink removes a secondary placement
func DeleteSectionLink(c *gin.Context) {

	if _, ok := adminCredentials(c); !ok {
		return
	}

	err := environment.Env.SectionModel.DestroyLink(c.Param("id"), c.Param("linked"))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// MoveSection re-parents a section; the client sends the new parent and
// the complete ordered sibling list (taken as-is, see models.SectionModel.Move)
func MoveSection(c *gin.Context) {

	if _, ok := adminCredentials(c); !ok {
		return
	}

	var apiError ErrorResponse

	data := struct {
		Parent   string   `json:"parent"` // empty = root
		Siblings []string `json:"siblings" binding:"required"`
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	err := environment.Env.SectionModel.Move(c.Param("id"), data.Parent, data.Siblings)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// ReorderSectionLinks replaces the order of a section's links
func ReorderSectionLinks(c *gin.Context) {

	if _, ok := adminCredentials(c); !ok {
		return
	}

	var apiError ErrorResponse

	data := struct {
		Links []string `json:"links" binding:"required"`
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	err := environment.Env.SectionModel.ReorderLinks(c.Param("id"), data.Links)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}
