package router

import (
	"github.com/Zayan93/yatube/internal/cache"
	"github.com/Zayan93/yatube/internal/handlers"
	appMiddleware "github.com/Zayan93/yatube/internal/middleware"
	"github.com/Zayan93/yatube/internal/models"
	"github.com/Zayan93/yatube/internal/repositories"
	"github.com/Zayan93/yatube/internal/services"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(appMiddleware.LoadUser())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, pageCache cache.PageCache, logger zerolog.Logger) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	); err != nil {
		return err
	}
	logger.Info().Msg("auto-migrations completed")

	// --- Repositories ---
	userRepo := repositories.NewGormUserRepository(db)
	groupRepo := repositories.NewGormGroupRepository(db)
	postRepo := repositories.NewGormPostRepository(db)
	commentRepo := repositories.NewGormCommentRepository(db)
	followRepo := repositories.NewGormFollowRepository(db)

	// --- Services ---
	feedService := services.NewFeedService(postRepo, pageCache, logger)
	followService := services.NewFollowService(followRepo, logger)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userRepo)
	feedHandler := handlers.NewFeedHandler(feedService)
	groupHandler := handlers.NewGroupHandler(groupRepo, feedService)
	postHandler := handlers.NewPostHandler(postRepo, groupRepo, commentRepo, followService)
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo)
	profileHandler := handlers.NewProfileHandler(userRepo, postRepo, feedService, followService)

	requireUser := appMiddleware.RequireUser()

	e.GET("/health", handlers.HealthCheck)

	authGroup := e.Group("/auth")
	authHandler.RegisterAuthRoutes(authGroup)

	// Public pages
	e.GET("/", feedHandler.Index)
	e.GET("/group/:slug/", groupHandler.GroupPosts)

	// Group administration
	e.POST("/group/", groupHandler.CreateGroup, requireUser)
	e.DELETE("/group/:slug/", groupHandler.DeleteGroup, requireUser)

	// Followed-authors feed. Registered before the profile wildcard so the
	// static segment wins the match.
	e.GET("/follow/", feedHandler.FollowIndex, requireUser)

	// Posts
	e.GET("/new/", postHandler.NewPostForm, requireUser)
	e.POST("/new/", postHandler.CreatePost, requireUser)
	e.GET("/:username/:post_id/", postHandler.ViewPost)
	e.GET("/:username/:post_id/edit/", postHandler.EditPostForm, requireUser)
	e.POST("/:username/:post_id/edit/", postHandler.EditPost, requireUser)
	e.DELETE("/:username/:post_id/", postHandler.DeletePost, requireUser)

	// Comments
	e.POST("/:username/:post_id/comment", commentHandler.AddComment, requireUser)
	e.DELETE("/:username/:post_id/comment/:comment_id", commentHandler.DeleteComment, requireUser)

	// Profiles and the follow graph
	e.GET("/:username/", profileHandler.Profile)
	e.GET("/:username/follow/", profileHandler.FollowAuthor, requireUser)
	e.GET("/:username/unfollow/", profileHandler.UnfollowAuthor, requireUser)

	logger.Info().Msg("all routes configured")
	return nil
}
