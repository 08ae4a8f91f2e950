package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cywf/AudiFi-sub000/internal/ledger"
)

// walletFromContext extracts the wallet address stored by the WalletAuth
// middleware. Handlers behind that middleware can rely on it being set; an
// empty result means the route was wired without authentication.
func walletFromContext(c echo.Context) (string, error) {
	if v, ok := c.Get("wallet").(string); ok && v != "" {
		return v, nil
	}
	return "", errors.New("no wallet in context")
}

// ledgerError translates ledger sentinel errors into HTTP responses. The
// ledger package never shapes HTTP itself; this is the single place where
// its error taxonomy meets status codes.
func ledgerError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidSplit),
		errors.Is(err, ledger.ErrInsufficientUnits):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrMasterIPONotFound),
		errors.Is(err, ledger.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrSupplyExhausted),
		errors.Is(err, ledger.ErrAlreadyProcessed),
		errors.Is(err, ledger.ErrAlreadyClaimed),
		errors.Is(err, ledger.ErrIPONotDraft),
		errors.Is(err, ledger.ErrIPONotActive):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrWalletMismatch):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
