package api

import (
	"github.com/gin-gonic/gin"

	"resumehub/internal/api/middleware"
	"resumehub/internal/database"
)

// RegisterRoutes 注册全部业务路由。
func RegisterRoutes(
	router *gin.Engine,
	userHandler *UserHandler,
	resumeHandler *ResumeHandler,
	followHandler *FollowHandler,
	adminHandler *AdminHandler,
	authenticator *middleware.Authenticator,
	cookieDomain string,
) {
	authRequired := middleware.AuthMiddleware(authenticator, cookieDomain)
	hrOnly := middleware.RequireRole(database.RoleHRManager, database.RoleAdmin)
	adminOnly := middleware.RequireRole(database.RoleAdmin)

	userGroup := router.Group("/user")
	{
		userGroup.POST("/sign-up", userHandler.SignUp)
		userGroup.POST("/sign-in", userHandler.SignIn)
		userGroup.POST("/log-out", authRequired, userHandler.LogOut)
		userGroup.GET("/", authRequired, userHandler.GetUser)
		userGroup.PATCH("/", authRequired, userHandler.UpdateUser)
	}

	resumeGroup := router.Group("/resume")
	resumeGroup.Use(authRequired)
	{
		resumeGroup.POST("/", resumeHandler.CreateResume)
		resumeGroup.GET("/my", resumeHandler.GetMyResumes)
		resumeGroup.GET("/", hrOnly, resumeHandler.GetAllResumes)
		resumeGroup.GET("/:resumeId", resumeHandler.GetResume)
		resumeGroup.PATCH("/:resumeId", resumeHandler.UpdateResume)
		resumeGroup.DELETE("/:resumeId", resumeHandler.DeleteResume)
		resumeGroup.PATCH("/:resumeId/changeStatus", hrOnly, resumeHandler.ChangeResumeStatus)
	}

	followGroup := router.Group("/follows")
	followGroup.Use(authRequired)
	{
		followGroup.POST("/:userId", followHandler.Follow)
		followGroup.DELETE("/:userId", followHandler.Unfollow)
		followGroup.GET("/following", followHandler.GetFollowing)
		followGroup.GET("/follower", followHandler.GetFollowers)
		followGroup.GET("/following/resumes", followHandler.GetFollowingResumes)
	}

	adminGroup := router.Group("/admin")
	adminGroup.Use(authRequired, adminOnly)
	{
		adminGroup.GET("/users", adminHandler.GetAllUsers)
		adminGroup.PATCH("/upgrade/:userId", adminHandler.UpgradeUserRole)
		adminGroup.DELETE("/delete/:userId", adminHandler.DeleteUser)
	}
}
