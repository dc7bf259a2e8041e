package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/caludio70/boletosventa-sub000/internal/apierror"
)

const (
	ClaimsKey = "claims"

	// tokenAcceso is the "typ" claim of access tokens; refresh tokens are
	// only accepted by the refresh endpoint.
	tokenAcceso = "access"
)

// JWTClaims are the custom claims embedded in every token.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Tipo     string `json:"typ"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer access token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}
		if claims.Tipo != tokenAcceso {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Se requiere un token de acceso"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}

// UsuarioID returns the authenticated user's id, or nil on public routes.
func UsuarioID(c *gin.Context) *uuid.UUID {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &id
}
