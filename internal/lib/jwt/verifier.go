// Package jwt реализует проверку JWT токенов внешнего сервиса аутентификации.
//
// Сервис не выпускает токены сам: пользователи получают их у хостингового
// auth-провайдера, а здесь токен только валидируется по общему секрету
// и из него извлекаются идентификатор пользователя и email.
package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims расширяет стандартные claims JWT полем email.
// Идентификатор пользователя передаётся в стандартном поле Subject.
type CustomClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier проверяет подпись и срок действия токенов по общему секрету.
type Verifier struct {
	secretKey string
}

// NewVerifier создаёт новый Verifier на основе секретного ключа.
func NewVerifier(secretKey string) *Verifier {
	return &Verifier{secretKey: secretKey}
}

// ParseToken валидирует токен и возвращает его claims.
func (v *Verifier) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(v.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%s: token has no subject", op)
	}
	return claims, nil
}
