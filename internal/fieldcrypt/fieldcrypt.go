// Package fieldcrypt 提供字段级别的对称加密，用于支付卡号与 CVV 的落库加密。
package fieldcrypt

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const tokenVersion byte = 2

var (
	// ErrDecryption 密文格式错误、被篡改或密钥不匹配
	ErrDecryption = errors.New("fieldcrypt: decryption failed")
	// ErrInvalidKey 密钥长度或编码不合法
	ErrInvalidKey = errors.New("fieldcrypt: key must be 32 bytes (base64 or hex encoded)")
)

var tokenEncoding = base64.RawURLEncoding

// Cipher 字段加解密器（XChaCha20-Poly1305，每次加密使用随机 nonce）
type Cipher struct {
	aead cipher.AEAD
}

// New 使用 32 字节原始密钥创建加解密器
func New(key []byte) (*Cipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrInvalidKey
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init aead failed: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// NewFromString 使用 base64 或 64 位十六进制编码的密钥创建加解密器
func NewFromString(encoded string) (*Cipher, error) {
	key, err := ParseKey(encoded)
	if err != nil {
		return nil, err
	}
	return New(key)
}

// ParseKey 解析配置中的密钥字符串
func ParseKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrInvalidKey
	}
	if len(encoded) == chacha20poly1305.KeySize*2 {
		if key, err := hex.DecodeString(encoded); err == nil {
			return key, nil
		}
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if key, err := enc.DecodeString(encoded); err == nil && len(key) == chacha20poly1305.KeySize {
			return key, nil
		}
	}
	return nil, ErrInvalidKey
}

// DeriveKey 从任意口令派生 32 字节密钥（仅用于开发环境未配置密钥时）
func DeriveKey(secret string) ([]byte, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte("shopfront/payment-fields"))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt 加密明文并返回可落库的 token，label 作为附加认证数据与密文绑定
func (c *Cipher) Encrypt(label, plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce failed: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), additionalData(label))
	return tokenEncoding.EncodeToString(append([]byte{tokenVersion}, sealed...)), nil
}

// Decrypt 解密 token，label 必须与加密时一致，任何异常均返回 ErrDecryption
func (c *Cipher) Decrypt(label, token string) (string, error) {
	raw, err := tokenEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return "", ErrDecryption
	}
	nonceSize := c.aead.NonceSize()
	if len(raw) < 1+nonceSize+c.aead.Overhead() || raw[0] != tokenVersion {
		return "", ErrDecryption
	}
	nonce := raw[1 : 1+nonceSize]
	plaintext, err := c.aead.Open(nil, nonce, raw[1+nonceSize:], additionalData(label))
	if err != nil {
		return "", ErrDecryption
	}
	return string(plaintext), nil
}

// Label 组合字段名与记录归属，用作密文绑定标签
func Label(field string, ownerID uint) string {
	return field + "/" + strconv.FormatUint(uint64(ownerID), 10)
}

func additionalData(label string) []byte {
	return append([]byte{tokenVersion}, label...)
}
