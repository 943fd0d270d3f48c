package dto

import "time"

// UserDTO 用户
type UserDTO struct {
	UserID    *uint64    `json:"user_id,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Nickname  *string    `json:"nickname,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Bio       *string    `json:"bio,omitempty" validate:"omitempty,max=200"`
	Gender    *uint8     `json:"gender,omitempty" validate:"omitempty,min=0,max=1"`
	Region    *string    `json:"region,omitempty"`
	Birthday  *string    `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Coins     *int64     `json:"coins,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// UserCardDTO 用户卡片 (列表、搜索、关注页使用)
type UserCardDTO struct {
	UserID     uint64  `json:"user_id"`
	Nickname   string  `json:"nickname"`
	AvatarURL  string  `json:"avatar_url"`
	Bio        *string `json:"bio,omitempty"`
	IsFollowed bool    `json:"is_followed"`
}

// RegisterDTO 注册
type RegisterDTO struct {
	// 方式一 使用 用户名&密码
	Username *string `json:"username"`
	Password *string `json:"password"`

	// 方式二 使用 手机号&临时签发令牌
	Phone      *string `json:"phone"`
	PhoneToken *string `json:"phone_token"`

	Nickname string  `json:"nickname" validate:"required,min=1,max=15"`
	Bio      *string `json:"bio"`
	Gender   uint8   `json:"gender"`
	Region   *string `json:"region"`
	Birthday string  `json:"birthday" validate:"required"`
}

// CredentialDTO 登录凭证
type CredentialDTO struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// ForgetPasswordDTO 忘记密码
type ForgetPasswordDTO struct {
	Phone       *string `json:"phone" binding:"required" validate:"min=11,max=11"`
	SmsCode     *string `json:"sms_code" binding:"required" validate:"min=6,max=6"`
	NewPassword *string `json:"new_password" binding:"required" validate:"min=6,max=20"`
}

// ChangePasswordDTO 修改密码
type ChangePasswordDTO struct {
	OldPassword *string `json:"old_password" binding:"required" validate:"min=6,max=20"`
	NewPassword *string `json:"new_password" binding:"required" validate:"min=6,max=20"`
}

// ChangeUsernameDTO 修改用户名
type ChangeUsernameDTO struct {
	Username *string `json:"username" binding:"required" validate:"min=3,max=20"`
}

// ChangePhoneDTO 换绑手机号
type ChangePhoneDTO struct {
	NewPhone   *string `json:"new_phone" binding:"required" validate:"min=11,max=11"`
	PhoneToken *string `json:"phone_token" binding:"required"`
}

// SearchUserDTO 搜索用户
type SearchUserDTO struct {
	ID       *uint64 `json:"id,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Username *string `json:"username,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
}

// PhoneDTO 发送短信验证码请求
type PhoneDTO struct {
	Phone string `json:"phone" binding:"required"`
}

// PhoneLoginDTO 手机号+验证码登录请求
type PhoneLoginDTO struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// TokenDTO 登录/注册成功返回
type TokenDTO struct {
	UserID uint64 `json:"user_id"`
	Token  string `json:"token"`
}
