package consts

const (
	MimePrefixImage = "image"
	MimePrefixVideo = "video"
	MimePrefixAudio = "audio"
)

const (
	PostStatusNormal  = 1
	PostStatusWarning = 2
	PostStatusDenied  = 3
)

const (
	ChallengeStatusOpen   = 1
	ChallengeStatusClosed = 2
)

const (
	DefaultAvatarURL = "default_avatar.png"
)

// 系统角色
const (
	RoleAdmin = "ADMIN"
	RoleAudit = "AUDIT"
)

// BaseURL Context key，由中间件从 Referer 解析注入
const BaseURL = "base_url"

// 活动事件类型
const (
	ActivityKindFollow          = "follow"
	ActivityKindCoin            = "coin"
	ActivityKindLike            = "like"
	ActivityKindComment         = "comment"
	ActivityKindChallengeInvite = "challenge_invite"
	ActivityKindChallengeWin    = "challenge_win"
)

// 推送负载类型
const (
	PushTypeMessage     = "MESSAGE"
	PushTypeReadReceipt = "READ_RECEIPT"
	PushTypeActivity    = "ACTIVITY"
)
