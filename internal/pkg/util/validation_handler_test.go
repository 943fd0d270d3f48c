package util

import (
	"Wellspring/internal/api/dto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("13812345678"))
	assert.False(t, ValidatePhone("1381234567"))   // 位数不足
	assert.False(t, ValidatePhone("138123456789")) // 位数超出
	assert.False(t, ValidatePhone("1381234567a"))
	assert.False(t, ValidatePhone(""))
}

func TestValidateRegDTO(t *testing.T) {
	reg := &dto.RegisterDTO{Username: PtrStr("alice_wang"), Password: PtrStr("secret123")}
	assert.True(t, ValidateRegDTO(reg))

	// 用户名或密码太短
	reg = &dto.RegisterDTO{Username: PtrStr("abc"), Password: PtrStr("secret123")}
	assert.False(t, ValidateRegDTO(reg))
	reg = &dto.RegisterDTO{Username: PtrStr("alice_wang"), Password: PtrStr("123")}
	assert.False(t, ValidateRegDTO(reg))

	// 手机号注册需要携带验证 token
	reg = &dto.RegisterDTO{Phone: PtrStr("13812345678"), PhoneToken: PtrStr("tok")}
	assert.True(t, ValidateRegDTO(reg))
	reg = &dto.RegisterDTO{Phone: PtrStr("13812345678"), PhoneToken: PtrStr("")}
	assert.False(t, ValidateRegDTO(reg))

	assert.False(t, ValidateRegDTO(&dto.RegisterDTO{}))
}

func TestValidateLoginDTO(t *testing.T) {
	assert.True(t, ValidateLoginDTO(&dto.CredentialDTO{Username: PtrStr("alice"), Password: PtrStr("pw")}))
	assert.True(t, ValidateLoginDTO(&dto.CredentialDTO{Phone: PtrStr("13812345678")}))
	assert.False(t, ValidateLoginDTO(&dto.CredentialDTO{}))
}
