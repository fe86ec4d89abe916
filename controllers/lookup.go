package controllers

import (
	"fmt"
	"market-api/database"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListLookups returns the code tables (item types, roles etc.) for the client
func ListLookups(c *gin.Context) {
	lookups, err := database.GetLookups()
	if err != nil {
		fmt.Println(err)
		c.JSON(http.StatusNoContent, nil)
		return
	}

	c.JSON(http.StatusOK, lookups)
}
