package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUserBan                 = errors.New("用户已被封禁")
	ErrUserBanSelf             = errors.New("不能封禁自己")
	ErrUserExist               = errors.New("用户已存在")
	ErrUserPhoneNotFound       = errors.New("手机号未注册")
	ErrUserPhoneExist          = errors.New("手机号已注册")
	ErrUserUsernameExist       = errors.New("用户名已存在")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrCodeIncorrect           = errors.New("验证码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrSmsRegTokenIncorrect    = errors.New("短信注册token错误")
	ErrFileNotSupported        = errors.New("不支持的文件类型")
	ErrFileNotExist            = errors.New("文件不存在")
	ErrFollowSelf              = errors.New("不能关注自己")
	ErrFollowExist             = errors.New("已经关注该用户")
	ErrFollowLimit             = errors.New("关注数量超过限制")
	ErrUserHasRole             = errors.New("用户已拥有此角色")
	ErrPostNotFound            = errors.New("动态不存在")
	ErrCommentNotFound         = errors.New("评论不存在")
	ErrActionDuplicate         = errors.New("重复操作")
	ErrActivityNotFound        = errors.New("通知不存在")
	ErrConversationNotFound    = errors.New("会话不存在")
	ErrMessageTargetInvalid    = errors.New("消息接收方无效")
	ErrChallengeNotFound       = errors.New("挑战不存在")
	ErrChallengeClosed         = errors.New("挑战已结束")
	ErrChallengeFull           = errors.New("挑战人数已满")
	ErrChallengeJoined         = errors.New("已经加入该挑战")
	ErrChallengeNotJoined      = errors.New("尚未加入该挑战")
	ErrItemNotFound            = errors.New("商品不存在")
	ErrItemOwned               = errors.New("已拥有该商品")
	ErrItemNotOwned            = errors.New("尚未拥有该商品")
	ErrCoinInsufficient        = errors.New("金币余额不足")
	ErrCoinGiftSelf            = errors.New("不能给自己的动态投币")
	ErrAIServiceBusy           = errors.New("AI服务繁忙，请稍后重试")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserBan:                 Unauthorized,
	ErrUserBanSelf:             Unauthorized,
	ErrUserExist:               BadRequest,
	ErrUserPhoneNotFound:       NotFound,
	ErrUserPhoneExist:          BadRequest,
	ErrUserUsernameExist:       BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrCodeIncorrect:           Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrSmsRegTokenIncorrect:    Unauthorized,
	ErrFileNotSupported:        BadRequest,
	ErrFileNotExist:            NotFound,
	ErrFollowSelf:              BadRequest,
	ErrFollowExist:             BadRequest,
	ErrFollowLimit:             BadRequest,
	ErrUserHasRole:             BadRequest,
	ErrPostNotFound:            NotFound,
	ErrCommentNotFound:         NotFound,
	ErrActionDuplicate:         BadRequest,
	ErrActivityNotFound:        NotFound,
	ErrConversationNotFound:    NotFound,
	ErrMessageTargetInvalid:    BadRequest,
	ErrChallengeNotFound:       NotFound,
	ErrChallengeClosed:         BadRequest,
	ErrChallengeFull:           BadRequest,
	ErrChallengeJoined:         BadRequest,
	ErrChallengeNotJoined:      BadRequest,
	ErrItemNotFound:            NotFound,
	ErrItemOwned:               BadRequest,
	ErrItemNotOwned:            BadRequest,
	ErrCoinInsufficient:        BadRequest,
	ErrCoinGiftSelf:            BadRequest,
	ErrAIServiceBusy:           InternalServerError,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
