package service

import (
	"unicode"

	"github.com/shopfront/internal/config"
)

// maxPasswordBytes bcrypt 只使用前 72 字节
const maxPasswordBytes = 72

// PasswordPolicyError 密码策略校验失败，携带 i18n 文案键与参数
type PasswordPolicyError struct {
	MessageKey string
	Params     []interface{}
}

func (e *PasswordPolicyError) Error() string {
	return "password policy: " + e.MessageKey
}

// Is 使 errors.Is(err, ErrWeakPassword) 成立
func (e *PasswordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

// Key 文案键
func (e *PasswordPolicyError) Key() string { return e.MessageKey }

// Args 文案参数
func (e *PasswordPolicyError) Args() []interface{} { return e.Params }

func policyViolation(key string, params ...interface{}) error {
	return &PasswordPolicyError{MessageKey: key, Params: params}
}

type passwordTraits struct {
	upper, lower, digit, special bool
}

func scanPassword(password string) passwordTraits {
	var traits passwordTraits
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			traits.upper = true
		case unicode.IsLower(r):
			traits.lower = true
		case unicode.IsDigit(r):
			traits.digit = true
		default:
			traits.special = true
		}
	}
	return traits
}

// validatePassword 按配置校验密码；超出 bcrypt 长度上限时无论策略如何都拒绝
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if len(password) > maxPasswordBytes {
		return policyViolation("error.password_max_length", maxPasswordBytes)
	}
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return policyViolation("error.password_min_length", policy.MinLength)
	}

	traits := scanPassword(password)
	checks := []struct {
		required bool
		present  bool
		key      string
	}{
		{policy.RequireUpper, traits.upper, "error.password_require_upper"},
		{policy.RequireLower, traits.lower, "error.password_require_lower"},
		{policy.RequireNumber, traits.digit, "error.password_require_number"},
		{policy.RequireSpecial, traits.special, "error.password_require_special"},
	}
	for _, check := range checks {
		if check.required && !check.present {
			return policyViolation(check.key)
		}
	}
	return nil
}
