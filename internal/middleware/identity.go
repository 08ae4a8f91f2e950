package middleware

import (
	"github.com/labstack/echo/v4"
)

// currentWallet returns the wallet address stored by WalletAuth, or "anon"
// on unauthenticated routes. Used by the rate limiter to key buckets per
// caller.
func currentWallet(c echo.Context) string {
	if v, ok := c.Get("wallet").(string); ok && v != "" {
		return v
	}
	return "anon"
}
