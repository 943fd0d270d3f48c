package consts

const (
	SmsKey                = "sms:validate:code:"
	SmsCheckTokenKey      = "sms:check:token:"
	UserHomeInfoKey       = "user:home:info:"
	UserSimpleInfoKey     = "user:simple:info:"
	UserFollowerCountKey  = "user:follower:count:"
	UserFollowingCountKey = "user:following:count:"
	PostLikeKey           = "post:like:"
	PostViewKey           = "post:view:"
	PostDirtyKey          = "post:counter:dirty"
	MediaTempKey          = "media:temp"
	PushUserKey           = "push:user:"
	StoreItemKey          = "store:item:"
)

const (
	ChallengeSettleLock = "lock:challenge:settle:"
	CoinGiftLock        = "lock:coin:gift:"
	StorePurchaseLock   = "lock:store:purchase:"
	UserDetailLock      = "lock:user:detail:"
)
