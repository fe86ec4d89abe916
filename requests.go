package main

import (
	"fmt"
	"market-api/authentication"
	"market-api/controllers"
	"market-api/middleware"
	"os"
)

func handleRequests() {
	router.Use(middleware.CORSMiddleware())

	router.GET("/lookups", controllers.ListLookups)

	// session upkeep (issuance at login is the host platform's job)
	router.POST("/refresh", controllers.Refresh) // no middleware, the at may be expired
	router.POST("/logout", authentication.TokenAuthMiddleware(), controllers.Logout)

	// sections (public reads; viewer credentials are resolved in-handler
	// so guests and members share the same routes)
	router.GET("/market/sections", controllers.GetSectionsTree)
	router.GET("/market/sections/:id", controllers.GetSection)
	router.GET("/market/sections/:id/items", controllers.ListSectionItems)

	// items
	router.GET("/market/items/:id", controllers.GetItem)
	router.GET("/market/items/:id/similar", controllers.GetSimilarItems)
	router.POST("/market/items/:id/close", authentication.TokenAuthMiddleware(), controllers.CloseItem)
	router.POST("/market/items/:id/renew", authentication.TokenAuthMiddleware(), controllers.RenewItem)
	router.POST("/market/items/:id/bookmark", authentication.TokenAuthMiddleware(), controllers.SetBookmark)
	router.DELETE("/market/items/:id/bookmark", authentication.TokenAuthMiddleware(), controllers.RemoveBookmark)

	// drafts (private working copies)
	router.GET("/market/drafts", authentication.TokenAuthMiddleware(), controllers.ListDrafts)
	router.POST("/market/drafts", authentication.TokenAuthMiddleware(), controllers.AddDraft)
	router.GET("/market/drafts/:id", authentication.TokenAuthMiddleware(), controllers.GetDraft)
	router.PUT("/market/drafts/:id", authentication.TokenAuthMiddleware(), controllers.UpdateDraft)
	router.DELETE("/market/drafts/:id", authentication.TokenAuthMiddleware(), controllers.DeleteDraft)
	router.POST("/market/drafts/:id/publish", authentication.TokenAuthMiddleware(), controllers.PublishDraft)

	// subscriptions
	router.POST("/market/sections/:id/subscription", authentication.TokenAuthMiddleware(), controllers.ChangeSubscription)
	router.GET("/market/subscriptions", authentication.TokenAuthMiddleware(), controllers.ListSubscriptions)

	// user statistics
	router.GET("/market/users/:id/counters", controllers.GetUserCounters)

	// currencies
	router.GET("/market/currencies", controllers.ListCurrencies)
	router.GET("/market/currencies/rate", controllers.GetRate)

	// taxonomy administration (role is checked in the handlers)
	router.GET("/market/admin/sections", authentication.TokenAuthMiddleware(), controllers.GetSectionsTreeAdmin)
	router.POST("/market/sections", authentication.TokenAuthMiddleware(), controllers.AddSection)
	router.PUT("/market/sections/:id", authentication.TokenAuthMiddleware(), controllers.UpdateSection)
	router.DELETE("/market/sections/:id", authentication.TokenAuthMiddleware(), controllers.DeleteSection)
	router.POST("/market/sections/:id/links", authentication.TokenAuthMiddleware(), controllers.AddSectionLink)
	router.PUT("/market/sections/:id/links", authentication.TokenAuthMiddleware(), controllers.ReorderSectionLinks)
	router.DELETE("/market/sections/:id/links/:linked", authentication.TokenAuthMiddleware(), controllers.DeleteSectionLink)
	router.POST("/market/sections/:id/move", authentication.TokenAuthMiddleware(), controllers.MoveSection)

	// system tools
	router.GET("/monitor/requests/count", authentication.TokenAuthMiddleware(), controllers.CountRequests)
	router.GET("/monitor/requests/dump", authentication.TokenAuthMiddleware(), controllers.DumpRequests)
	router.POST("/monitor/requests/flush", authentication.TokenAuthMiddleware(), controllers.FlushRequests)

	switch os.Getenv("APP_ENV") {
	case "DEV":
		router.Run(":" + os.Getenv("API_PORT"))
	case "PRD":
		router.RunTLS(":"+os.Getenv("API_PORT"), os.Getenv("APP_CERTFILE"), os.Getenv("APP_KEYFILE"))
	default:
		panic(fmt.Errorf("APP_ENV must not set"))
	}
}
