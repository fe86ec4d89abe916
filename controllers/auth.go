package controllers

import (
	"market-api/authentication"
	"market-api/helpers"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// Token issuance at login/registration is the host platform's job; this
// service refreshes and revokes the sessions it validates itself.

// Refresh mints a new token pair while the refresh token is still valid
func Refresh(c *gin.Context) {

	var apiError ErrorResponse

	au, err := authentication.ExtractTokenMetadata(authentication.RT, c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	if err := authentication.TokenValid(authentication.RT, c.Request); err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	userID, err := authentication.FetchAuth(au)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	// a used refresh token is burned; if that fails the client
	// has to log in again
	deleted, err := authentication.DeleteAuth(au.TokenUUID)
	if err != nil || deleted == 0 {
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	if err := authentication.CreateTokens(c, userID); err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	c.Status(http.StatusOK)
}

// Logout removes both tokens from the registry and clears the cookie
func Logout(c *gin.Context) {

	// expired tokens are fine here - the client just wants out
	if au, err := authentication.ExtractTokenMetadata(authentication.AT, c.Request); err == nil {
		_, _ = authentication.DeleteAuth(au.TokenUUID)
	}
	if au, err := authentication.ExtractTokenMetadata(authentication.RT, c.Request); err == nil {
		_, _ = authentication.DeleteAuth(au.TokenUUID)
	}

	_ = helpers.DeleteCookie(c, os.Getenv("JWTCK_NAME"))

	c.Status(http.StatusOK)
}
