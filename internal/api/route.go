package api

import (
	"Wellspring/internal/api/middleware"
	"Wellspring/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.POST("/login/phone", group.UserHandler.LoginByPhone)
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/sms/send", group.UserHandler.SendSmsCode)
			userGroup.PUT("/password/forget", group.UserHandler.ForgetPassword)
			userGroup.GET("/:user_id/home", group.UserHandler.GetHomeInfo)
			userGroup.GET("/batch/simple", group.UserHandler.GetUserSimpleInfoByIds)
			userGroup.GET("/search", group.UserHandler.SearchUser)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.PUT("/info", group.UserHandler.UpdateUserInfo)
				authGroup.PUT("/password", group.UserHandler.ChangePassword)
				authGroup.PUT("/username", group.UserHandler.ChangeUsername)
				authGroup.PUT("/phone", group.UserHandler.ChangePhone)
				authGroup.POST("/avatar", group.UserHandler.UploadAvatar)
				authGroup.POST("/cancel", group.UserHandler.CancelUser)
			}

			// 需要登录 & 拥有 admin 角色
			adminGroup := authGroup.Group("")
			adminGroup.Use(middleware.CheckRoles("ADMIN"))
			{
				adminGroup.POST("/ban", group.UserHandler.BanUser)
				adminGroup.POST("/unban", group.UserHandler.UnbanUser)
				adminGroup.GET("/roles", group.UserHandler.GetAllRoles)
				adminGroup.POST("/role", group.UserHandler.AddUserRole)
				adminGroup.DELETE("/role", group.UserHandler.DeleteUserRole)
			}
		}

		followGroup := apiGroup.Group("/user-relation")
		{
			followGroup.Use(middleware.AuthMiddleware())
			{
				followGroup.GET("/followers", group.UserFollowHandler.GetFollowers)
				followGroup.GET("/followers/count", group.UserFollowHandler.GetFollowerCount)
				followGroup.GET("/followings", group.UserFollowHandler.GetFollowings)
				followGroup.GET("/followings/count", group.UserFollowHandler.GetFollowingCount)
				followGroup.GET("/isfollow/:target_id", group.UserFollowHandler.IsFollowing)
				followGroup.POST("/follow/:target_id", group.UserFollowHandler.Follow)
				followGroup.DELETE("/follow/:target_id", group.UserFollowHandler.Unfollow)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/feed", group.PostHandler.GetLatestFeed)
				authOptGroup.GET("/search", group.PostHandler.SearchPost)
				authOptGroup.GET("/detail/:post_id", group.PostHandler.GetPost)
				authOptGroup.GET("/list/:user_id", group.PostHandler.GetPostByUserId)
				authOptGroup.GET("/challenge/:challenge_id", group.PostHandler.GetChallengeFeed)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.PUT("/:post_id", group.PostHandler.UpdatePostContent)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.GET("/self", group.PostHandler.GetPostSelf)
			}

			auditGroup := authGroup.Group("/audit")
			auditGroup.Use(middleware.CheckRoles("AUDIT", "ADMIN"))
			{
				auditGroup.PUT("/:post_id/status", group.PostHandler.UpdatePostStatus)
			}
		}

		postActionGroup := apiGroup.Group("/post/action")
		{
			postActionGroup.GET("/comments/:post_id", group.PostActionHandler.GetComments)
			postActionGroup.GET("/sub-comments/:root_id", group.PostActionHandler.GetSubComments)

			authActionGroup := postActionGroup.Group("")
			authActionGroup.Use(middleware.AuthMiddleware())
			{
				authActionGroup.POST("/likes/:post_id", group.PostActionHandler.LikePost)
				authActionGroup.GET("/state/:post_id", group.PostActionHandler.GetPostActionState)
				authActionGroup.GET("/liked", group.PostActionHandler.GetUserLikes)

				authActionGroup.POST("/comments", group.PostActionHandler.CreateComment)
				authActionGroup.DELETE("/comments/:comment_id", group.PostActionHandler.DeleteComment)

				authActionGroup.POST("/coins", group.PostActionHandler.GiveCoins)
			}
		}

		challengeGroup := apiGroup.Group("/challenges")
		{
			authOptGroup := challengeGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.ChallengeHandler.GetOpenChallenges)
				authOptGroup.GET("/:challenge_id", group.ChallengeHandler.GetChallenge)
				authOptGroup.GET("/:challenge_id/members", group.ChallengeHandler.GetMembers)
			}

			authGroup := challengeGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.ChallengeHandler.CreateChallenge)
				authGroup.GET("/mine", group.ChallengeHandler.GetMyChallenges)
				authGroup.POST("/:challenge_id/join", group.ChallengeHandler.JoinChallenge)
				authGroup.DELETE("/:challenge_id/join", group.ChallengeHandler.LeaveChallenge)
				authGroup.POST("/invite", group.ChallengeHandler.InviteMember)
			}
		}

		chatGroup := apiGroup.Group("/chat")
		{
			chatGroup.GET("/connect", group.WsHandler.Connect)

			authGroup := chatGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/send", group.ChatHandler.SendMessage)
				authGroup.GET("/history", group.ChatHandler.GetChatHistory)
				authGroup.GET("/list", group.ChatHandler.GetConversationList)
				authGroup.POST("/read", group.ChatHandler.MarkAsRead)
				authGroup.GET("/unread", group.ChatHandler.GetTotalUnread)
				authGroup.DELETE("/conversation/:peer_id", group.ChatHandler.DeleteConversation)
			}
		}

		activityGroup := apiGroup.Group("/activities")
		activityGroup.Use(middleware.AuthMiddleware())
		{
			activityGroup.GET("/list", group.ActivityHandler.GetActivityList)
			activityGroup.GET("/unread", group.ActivityHandler.GetUnreadCount)
			activityGroup.POST("/read/:activity_id", group.ActivityHandler.MarkRead)
			activityGroup.POST("/read/all", group.ActivityHandler.MarkAllRead)
		}

		storeGroup := apiGroup.Group("/store")
		{
			authOptGroup := storeGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/items", group.StoreHandler.GetItems)
			}

			authGroup := storeGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/mine", group.StoreHandler.GetUserItems)
				authGroup.POST("/purchase", group.StoreHandler.Purchase)
				authGroup.POST("/equip", group.StoreHandler.Equip)
			}
		}

		assistantGroup := apiGroup.Group("/assistant")
		{
			assistantGroup.GET("/search", group.AssistantHandler.Search)

			authGroup := assistantGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/converse", group.AssistantHandler.Converse)
				authGroup.GET("/quick", group.AssistantHandler.QuickChat)
				authGroup.GET("/history", group.AssistantHandler.GetHistory)
				authGroup.POST("/fitness-plan", group.AssistantHandler.GenerateFitnessPlan)
			}
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(middleware.AuthMiddleware())
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}
	}

	return r
}
