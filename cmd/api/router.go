package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nft-market-backend/internal/shared/middleware"
	"nft-market-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupTeamRoutes(v1, c)
		setupNFTRoutes(v1, c)
		setupCollectionRoutes(v1, c)
		setupRatingRoutes(v1, c)
		setupSaleRoutes(v1, c)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.Auth(c.JWTManager))
	{
		users.GET("", middleware.Admin(), c.UserHandler.ListUsers)
		users.GET("/:id", c.UserHandler.GetUser)
		users.PUT("/:id", c.UserHandler.UpdateUser)
		users.DELETE("/:id", c.UserHandler.DeleteUser)
	}
}

func setupTeamRoutes(v1 *gin.RouterGroup, c *container.Container) {
	teams := v1.Group("/teams")
	{
		teams.GET("", c.TeamHandler.ListTeams)
		teams.GET("/best-sellers", c.TeamHandler.BestSellers)
		teams.GET("/:id", c.TeamHandler.GetTeam)

		authed := teams.Group("")
		authed.Use(middleware.Auth(c.JWTManager))
		{
			authed.POST("", c.TeamHandler.CreateTeam)
			authed.PUT("/:id", c.TeamHandler.UpdateTeam)
			authed.DELETE("/:id", c.TeamHandler.DeleteTeam)
			authed.POST("/:id/members", c.TeamHandler.AddMember)
			authed.DELETE("/:id/members/:userId", c.TeamHandler.RemoveMember)
		}
	}
}

func setupNFTRoutes(v1 *gin.RouterGroup, c *container.Container) {
	nfts := v1.Group("/nfts")
	{
		// Anonymous reads are allowed but only surface published items.
		nfts.GET("", middleware.OptionalAuth(c.JWTManager), c.NFTHandler.ListNFTs)
		nfts.GET("/:id", middleware.OptionalAuth(c.JWTManager), c.NFTHandler.GetNFT)
		nfts.GET("/:id/ratings", c.RatingHandler.ListByNFT)

		authed := nfts.Group("")
		authed.Use(middleware.Auth(c.JWTManager))
		{
			authed.POST("", c.NFTHandler.CreateNFT)
			authed.PUT("/:id", c.NFTHandler.UpdateNFT)
			authed.DELETE("/:id", c.NFTHandler.DeleteNFT)
		}
	}
}

func setupCollectionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	collections := v1.Group("/collections")
	{
		collections.GET("", middleware.OptionalAuth(c.JWTManager), c.CollectionHandler.ListCollections)
		collections.GET("/top", middleware.OptionalAuth(c.JWTManager), c.CollectionHandler.TopCollections)
		collections.GET("/:id", middleware.OptionalAuth(c.JWTManager), c.CollectionHandler.GetCollection)
		collections.GET("/:id/nfts", middleware.OptionalAuth(c.JWTManager), c.NFTHandler.ListByCollection)

		authed := collections.Group("")
		authed.Use(middleware.Auth(c.JWTManager))
		{
			authed.POST("", c.CollectionHandler.CreateCollection)
			authed.PUT("/:id", c.CollectionHandler.UpdateCollection)
			authed.DELETE("/:id", c.CollectionHandler.DeleteCollection)
			authed.POST("/:id/nfts", c.CollectionHandler.AddNFT)
		}
	}
}

func setupRatingRoutes(v1 *gin.RouterGroup, c *container.Container) {
	ratings := v1.Group("/ratings")
	{
		ratings.GET("", c.RatingHandler.ListRatings)
		ratings.GET("/top", middleware.OptionalAuth(c.JWTManager), c.RatingHandler.TopRated)
		ratings.GET("/:id", c.RatingHandler.GetRating)

		authed := ratings.Group("")
		authed.Use(middleware.Auth(c.JWTManager))
		{
			authed.POST("", c.RatingHandler.CreateRating)
			authed.PUT("/:id", c.RatingHandler.UpdateRating)
			authed.DELETE("/:id", c.RatingHandler.DeleteRating)
		}
	}
}

func setupSaleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	sales := v1.Group("/sales")
	{
		sales.GET("", c.SaleHandler.ListSales)
		sales.GET("/recent", c.SaleHandler.RecentSales)
		sales.GET("/seller/:userId", c.SaleHandler.SalesBySeller)
		sales.GET("/buyer/:userId", c.SaleHandler.SalesByBuyer)
		sales.GET("/:id", c.SaleHandler.GetSale)

		sales.POST("", middleware.Auth(c.JWTManager), c.SaleHandler.CreateSale)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "up"
		if err := c.DB.Ping(checkCtx); err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = "down"
		}

		cacheStatus := "disabled"
		if c.Cache != nil {
			cacheStatus = "up"
			if err := c.Cache.Ping(checkCtx); err != nil {
				cacheStatus = "down"
			}
		}

		ctx.JSON(status, gin.H{
			"status":   dbStatus,
			"database": dbStatus,
			"cache":    cacheStatus,
			"version":  c.Config.App.Version,
			"time":     time.Now().UTC(),
		})
	}
}
