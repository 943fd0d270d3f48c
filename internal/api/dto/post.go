package dto

// PostDTO 帖子
type PostDTO struct {
	// Post
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	ChallengeID uint64 `json:"challenge_id,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`

	// PostMedia
	Medias []*MediasBaseDTO `json:"medias"`

	// User
	UserID    uint64 `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`

	// Counters
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
	CoinCount    int64 `json:"coin_count"`
	ViewCount    int64 `json:"view_count"`
}

// PostBaseDTO 帖子 - 新增或修改
type PostBaseDTO struct {
	ID          uint64           `json:"id"`
	Title       string           `json:"title" binding:"required" validate:"min=1,max=255"`
	Content     string           `json:"content" binding:"required" validate:"min=1,max=1000"`
	ChallengeID uint64           `json:"challenge_id"` // 0 表示非挑战打卡帖
	Medias      []*MediasBaseDTO `json:"Medias" validate:"max=9"`
}

// MediasBaseDTO 媒体 - 基础
type MediasBaseDTO struct {
	MimeType string  `json:"mime_type" binding:"required" validate:"min=1,max=64"`
	MediaURL string  `json:"url" binding:"required" validate:"min=1,max=512"`
	Width    int     `json:"width" binding:"required" validate:"min=1"`
	Height   int     `json:"height" binding:"required" validate:"min=1"`
	Duration int     `json:"duration"`
	CoverURL *string `json:"cover_url,omitempty"`
}

// FeedPageDTO 信息流分页返回，带 SearchAfter 游标
type FeedPageDTO struct {
	Posts  []*PostDTO `json:"posts"`
	Cursor string     `json:"cursor"`
}
