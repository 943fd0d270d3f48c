package dto

// CommentCreateDTO 创建评论请求
type CommentCreateDTO struct {
	PostID        uint64 `json:"post_id" binding:"required"`
	Content       string `json:"content" binding:"required,max=1000"`
	RootID        uint64 `json:"root_id"`   // 0 表示一级评论
	ParentID      uint64 `json:"parent_id"` // 父评论 ID
	ReplyToUserID uint64 `json:"reply_to_user_id"`
}

// CommentDTO 评论返回详情
type CommentDTO struct {
	ID              uint64 `json:"id"`
	PostID          uint64 `json:"post_id"`
	UserID          uint64 `json:"user_id"`
	Nickname        string `json:"nickname"`
	AvatarURL       string `json:"avatar_url"`
	Content         string `json:"content"`
	RootID          uint64 `json:"root_id"`
	ParentID        uint64 `json:"parent_id"`
	ReplyToUserID   uint64 `json:"reply_to_user_id"`
	ReplyToNickname string `json:"reply_to_nickname"`
	CreatedAt       string `json:"created_at"`

	SubComments     []*CommentDTO `json:"sub_comments"`
	SubCommentCount int64         `json:"sub_comment_count"`
}

// PostActionStateDTO 帖子交互状态数据
type PostActionStateDTO struct {
	LikeCount    int64 `json:"like_count"`
	CoinCount    int64 `json:"coin_count"`
	CommentCount int64 `json:"comment_count"`
	ViewCount    int64 `json:"view_count"`
	IsLiked      bool  `json:"is_liked"`
}

// PostActionReq 点赞通用请求
type PostActionReq struct {
	PostID uint64 `json:"post_id" binding:"required"`
	Action int    `json:"action" binding:"required,oneof=1 2"` // 1:执行, 2:取消
}

// CoinGiftReq 投币请求
type CoinGiftReq struct {
	PostID uint64 `json:"post_id" binding:"required"`
	Amount int64  `json:"amount" binding:"required,oneof=1 2"` // 单帖最多投 2 枚
}
