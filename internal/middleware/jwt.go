package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// WalletAuth returns an Echo middleware that validates a Bearer token and
// injects the caller's wallet address and role into the request context.
// Tokens carry the wallet in the "wallet" claim, falling back to "sub" for
// tokens minted by older issuers. Protected handlers read the identity via
// c.Get("wallet") and c.Get("role").
func WalletAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			wallet, _ := claims["wallet"].(string)
			if wallet == "" {
				wallet, _ = claims["sub"].(string)
			}
			if wallet == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token carries no wallet"})
			}

			c.Set("wallet", wallet)
			c.Set("role", claims["role"])
			return next(c)
		}
	}
}
