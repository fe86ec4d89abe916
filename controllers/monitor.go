package controllers

import (
	"market-api/environment"
	"net/http"

	"github.com/gin-gonic/gin"
)

// system tools to peek at the request registry (staff only)

func CountRequests(c *gin.Context) {

	if _, ok := adminCredentials(c); !ok {
		return
	}

	c.JSON(http.StatusOK, environment.Env.Requests.Count())
}

func DumpRequests(c *gin.Context) {

	if _, ok := adminCredentials(c); !ok {
		return
	}

	c.JSON(http.StatusOK, environment.Env.Requests.Dump(50))
}

func FlushRequests(c *gin.Context) {

	if _, ok := adminCredentials(c); !ok {
		return
	}

	environment.Env.Requests.Flush()

	c.Status(http.StatusOK)
}
