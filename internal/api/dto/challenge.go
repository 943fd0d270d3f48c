package dto

// ChallengeCreateDTO 创建挑战请求
type ChallengeCreateDTO struct {
	Title       string `json:"title" binding:"required" validate:"min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Goal        int64  `json:"goal" binding:"required" validate:"min=1"`
	StartAt     string `json:"start_at" binding:"required"` // RFC3339
	EndAt       string `json:"end_at" binding:"required"`
}

// ChallengeDTO 挑战详情
type ChallengeDTO struct {
	ID          uint64  `json:"id"`
	CreatorID   uint64  `json:"creator_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Goal        int64   `json:"goal"`
	Status      int     `json:"status"`
	WinnerID    *uint64 `json:"winner_id,omitempty"`
	CertURL     *string `json:"cert_url,omitempty"`
	StartAt     string  `json:"start_at"`
	EndAt       string  `json:"end_at"`
	MemberCount int64   `json:"member_count"`
	MyProgress  int64   `json:"my_progress"`
	IsJoined    bool    `json:"is_joined"`
}

// ChallengeMemberDTO 挑战成员列表项
type ChallengeMemberDTO struct {
	UserID    uint64 `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	Progress  int64  `json:"progress"`
	JoinedAt  string `json:"joined_at"`
}

// ChallengeInviteReq 邀请好友加入挑战
type ChallengeInviteReq struct {
	ChallengeID  uint64 `json:"challenge_id" binding:"required"`
	TargetUserID uint64 `json:"target_user_id" binding:"required"`
}
