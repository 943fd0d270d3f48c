package api

import "Wellspring/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler       *handler.UserHandler
	UserFollowHandler *handler.UserFollowHandler
	PostHandler       *handler.PostHandler
	PostActionHandler *handler.PostActionHandler
	ChallengeHandler  *handler.ChallengeHandler
	ChatHandler       *handler.ChatHandler
	ActivityHandler   *handler.ActivityHandler
	StoreHandler      *handler.StoreHandler
	AssistantHandler  *handler.AssistantHandler
	MediaHandler      *handler.MediaHandler
	WsHandler         *handler.WsHandler
}
