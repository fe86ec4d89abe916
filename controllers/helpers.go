package controllers

import (
	"market-api/authentication"
	"market-api/authorization"
	"market-api/environment"
	"market-api/helpers"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Created is the standard response for new documents
type Created struct {
	ID string `json:"id"`
}

// credentials resolves the viewer of a public route; anonymous visitors
// are fine and receive the guest profile
func credentials(c *gin.Context) *authorization.Credentials {
	userID, err := authentication.Authenticate(c.Request)
	if err != nil || userID == "" {
		return authorization.Anonymous()
	}
	return environment.Env.Credentials.GetCredentials(helpers.ObjectID(userID))
}

// memberCredentials resolves the viewer of a protected route;
// reports false after answering the request when there is none
func memberCredentials(c *gin.Context) (*authorization.Credentials, bool) {
	userID, err := authentication.Authenticate(c.Request)
	if err != nil || userID == "" {
		c.Status(http.StatusUnauthorized)
		return nil, false
	}
	return environment.Env.Credentials.GetCredentials(helpers.ObjectID(userID)), true
}

// adminCredentials additionally requires the admin role
func adminCredentials(c *gin.Context) (*authorization.Credentials, bool) {
	creds, ok := memberCredentials(c)
	if !ok {
		return nil, false
	}
	if !creds.IsAdmin() {
		c.Status(http.StatusForbidden)
		return nil, false
	}
	return creds, true
}
