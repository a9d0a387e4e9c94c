package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	HeaderFarmerID = "Ax-Farmer-Id"
	farmerIDKey    = "farmer_id"
	bankScope      = "bank"
)

// FarmerIdentity resolves the calling farmer from Ax-Farmer-Id. When the
// header is absent defaultID is used; 0 means there is no default and the
// request is refused.
func FarmerIdentity(defaultID uint64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderFarmerID))
			id := defaultID
			if raw != "" {
				n, err := strconv.ParseUint(raw, 10, 64)
				if err != nil || n == 0 {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderFarmerID})
				}
				id = n
			}
			if id == 0 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderFarmerID})
			}
			c.Set(farmerIDKey, id)
			return next(c)
		}
	}
}

// FarmerID returns the identity stored by FarmerIdentity.
func FarmerID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(farmerIDKey).(uint64)
	return id, ok && id != 0
}

// ScopeFunc names the actor an idempotency key belongs to.
type ScopeFunc func(c echo.Context) (string, bool)

// FarmerScope scopes keys by the resolved farmer.
func FarmerScope(c echo.Context) (string, bool) {
	id, ok := FarmerID(c)
	if !ok {
		return "", false
	}
	return "farmer-" + strconv.FormatUint(id, 10), true
}

// BankScope puts every bank call in one shared scope.
func BankScope(echo.Context) (string, bool) { return bankScope, true }
