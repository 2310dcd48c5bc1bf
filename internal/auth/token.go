package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken はトークンの署名不正・期限切れ・形式不正を表す。
var ErrInvalidToken = errors.New("invalid token")

// claims はアクセストークンのクレーム。SubjectにユーザーIDを保持する。
type claims struct {
	jwt.RegisteredClaims
}

// GenerateToken は指定ユーザーIDをsubjectとするHS256署名付きトークンを発行する。
// validityで有効期限を指定する。トークンは必ず期限切れになる。
func GenerateToken(userID string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
	})

	signed, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ParseToken はトークンを検証し、subjectのユーザーIDを返す。
// 署名不一致・期限切れ・形式不正はすべてErrInvalidTokenとして返す。
// 副作用はない（read-onlyの検証）。
func ParseToken(tokenString string, secretKey []byte) (string, error) {
	c := &claims{}

	token, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	if !token.Valid || c.Subject == "" {
		return "", ErrInvalidToken
	}

	return c.Subject, nil
}
