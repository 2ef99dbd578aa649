package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt 参数：N=16384, r=8, p=1，派生 64 字节密钥
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16
)

// HashSecret 为密码或密保答案生成加盐摘要，返回值均为十六进制编码
func HashSecret(secret string) (digest string, salt string, err error) {
	raw := make([]byte, saltLen)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	salt = hex.EncodeToString(raw)

	key, err := derive(secret, salt)
	if err != nil {
		return "", "", err
	}
	return hex.EncodeToString(key), salt, nil
}

// VerifySecret 用保存的盐重新计算摘要，并做常量时间比较
func VerifySecret(secret, digest, salt string) bool {
	expected, err := hex.DecodeString(digest)
	if err != nil || len(expected) != scryptKeyLen {
		return false
	}
	key, err := derive(secret, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(key, expected) == 1
}

// NormalizeAnswer 密保答案忽略大小写和首尾空白
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

func derive(secret, salt string) ([]byte, error) {
	return scrypt.Key([]byte(secret), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
}
