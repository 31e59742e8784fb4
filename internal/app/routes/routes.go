package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusbuzz/backend/internal/app/controllers"
	"github.com/campusbuzz/backend/internal/app/models"
	"github.com/campusbuzz/backend/internal/middleware"
	"github.com/campusbuzz/backend/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	connectionController *controllers.ConnectionController,
	messageController *controllers.MessageController,
	postController *controllers.PostController,
	campusController *controllers.CampusController,
	adminController *controllers.AdminController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Prometheus scrape endpoint, outside the API version group
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.POST("/auth/change-password", authController.ChangePassword)

		users := authenticated.Group("/users")
		{
			users.GET("/me", userController.GetMe)
			users.PUT("/me", userController.UpdateMe)
			users.POST("/me/avatar", userController.UploadAvatar)
			users.GET("/search", userController.SearchUsers)
			users.GET("/:id", userController.GetUser)
			users.POST("/:id/follow", userController.FollowUser)
			users.DELETE("/:id/follow", userController.UnfollowUser)
			users.GET("/:id/followers", userController.ListFollowers)
			users.GET("/:id/following", userController.ListFollowing)
		}

		connections := authenticated.Group("/connections")
		{
			connections.GET("", connectionController.ListConnections)
			connections.POST("/status", connectionController.GetBatchStatus)
			connections.GET("/requests/incoming", connectionController.ListIncomingRequests)
			connections.GET("/requests/outgoing", connectionController.ListOutgoingRequests)
			connections.POST("/:id/request", connectionController.SendRequest)
			connections.DELETE("/:id/request", connectionController.CancelRequest)
			connections.POST("/:id/accept", connectionController.AcceptRequest)
			connections.POST("/:id/decline", connectionController.DeclineRequest)
			connections.GET("/:id/status", connectionController.GetStatus)
			connections.DELETE("/:id", connectionController.Disconnect)
		}

		messages := authenticated.Group("/messages")
		{
			messages.GET("/ws", wsHandler.HandleConnection)
			messages.POST("", messageController.SendMessage)
			messages.GET("/conversations", messageController.GetConversations)
			messages.GET("/conversations/:id", messageController.GetConversation)
			messages.DELETE("/:id", messageController.DeleteMessage)
		}

		posts := authenticated.Group("/posts")
		{
			posts.POST("", postController.CreatePost)
			posts.GET("", postController.ListPosts)
			posts.GET("/:id", postController.GetPost)
			posts.PUT("/:id", postController.UpdatePost)
			posts.DELETE("/:id", postController.DeletePost)
			posts.POST("/:id/like", postController.LikePost)
			posts.DELETE("/:id/like", postController.UnlikePost)
			posts.POST("/:id/comments", postController.AddComment)
			posts.GET("/:id/comments", postController.ListComments)
			posts.DELETE("/comments/:id", postController.DeleteComment)
		}

		events := authenticated.Group("/events")
		{
			events.GET("", campusController.ListEvents)
			events.GET("/:id", campusController.GetEvent)
			events.POST("", campusController.CreateEvent)
			events.PUT("/:id", campusController.UpdateEvent)
			events.DELETE("/:id", campusController.DeleteEvent)
		}

		activities := authenticated.Group("/activities")
		{
			activities.GET("", campusController.ListActivities)
			activities.POST("", campusController.CreateActivity)
			activities.PUT("/:id", campusController.UpdateActivity)
			activities.DELETE("/:id", campusController.DeleteActivity)
		}

		notices := authenticated.Group("/notices")
		{
			notices.GET("", campusController.ListNotices)
			notices.POST("", campusController.PublishNotice)
			notices.PUT("/:id", campusController.UpdateNotice)
			notices.DELETE("/:id", campusController.DeleteNotice)
		}

		placements := authenticated.Group("/placements")
		{
			placements.GET("", campusController.ListPlacements)
			placements.POST("", campusController.CreatePlacement)
			placements.DELETE("/:id", campusController.DeletePlacement)
		}

		lostFound := authenticated.Group("/lostfound")
		{
			lostFound.GET("", campusController.ListItems)
			lostFound.POST("", campusController.ReportItem)
			lostFound.POST("/:id/resolve", campusController.ResolveItem)
			lostFound.DELETE("/:id", campusController.DeleteItem)
		}

		// Admin routes, restricted to the ADMIN role
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			admin.GET("/users", adminController.ListUsers)
			admin.PUT("/users/:id/role", adminController.ChangeUserRole)
			admin.DELETE("/users/:id", adminController.DeactivateUser)
			admin.POST("/users/:id/reactivate", adminController.ReactivateUser)
		}
	}
}
