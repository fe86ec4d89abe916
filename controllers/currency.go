package controllers

import (
	"market-api/environment"
	"market-api/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListCurrencies returns the configured currency codes (first one is the base)
func ListCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, models.Currencies())
}

// GetRate converts between two currencies
// format => /market/currencies/rate?from=EUR&to=USD
func GetRate(c *gin.Context) {

	from := c.Query("from")
	to := c.Query("to")

	rate, err := environment.Env.CurrencyModel.Get(from, to)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	res := struct {
		From string  `json:"from"`
		To   string  `json:"to"`
		Rate float64 `json:"rate"` // 0 = unknown
	}{from, to, rate}

	c.JSON(http.StatusOK, res)
}
