package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"fleetcare/internal/scope"
	"fleetcare/pkg/response"
)

const identityKey = "identity"

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", accessToken, 3600*24, "/", "", secure, true)
	c.SetCookie("refresh_token", refreshToken, 3600*24*7, "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies
func ClearTokenCookies(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

// identityFromRequest parses the JWT from the cookie or the Authorization
// header and builds the request identity. Any failure yields anonymous.
func identityFromRequest(c *gin.Context) scope.Identity {
	tokenString, cookieErr := c.Cookie("access_token")
	if cookieErr != nil || tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return scope.Anonymous()
		}
		tokenString = parts[1]
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return GetJWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return scope.Anonymous()
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return scope.Anonymous()
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return scope.Anonymous()
	}
	role, _ := claims["role"].(string)
	elevated, _ := claims["elevated"].(bool)

	return scope.Identity{
		ID:            uint(sub),
		Role:          role,
		Elevated:      elevated,
		Authenticated: true,
	}
}

// OptionalIdentity resolves the request identity without requiring one.
// Anonymous requests pass through; read surfaces then degrade to empty
// collections instead of erroring.
func OptionalIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(identityKey, identityFromRequest(c))
		c.Next()
	}
}

// RequireIdentity rejects requests without a valid authenticated identity.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := identityFromRequest(c)
		if !ident.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing or invalid"))
			return
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

// CurrentIdentity returns the identity resolved by the middleware, or
// anonymous when no identity middleware ran.
func CurrentIdentity(c *gin.Context) scope.Identity {
	v, exists := c.Get(identityKey)
	if !exists {
		return scope.Anonymous()
	}
	ident, ok := v.(scope.Identity)
	if !ok {
		return scope.Anonymous()
	}
	return ident
}
