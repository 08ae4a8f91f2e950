package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cywf/AudiFi-sub000/internal/ledger"
	"github.com/cywf/AudiFi-sub000/internal/model"
	"github.com/cywf/AudiFi-sub000/internal/repository"
)

// PublicBrowseHandler serves the unauthenticated catalog: offerings, their
// holder rosters and remaining supply. Responses here are cache-friendly;
// the router wraps them with the Redis cache middleware.
type PublicBrowseHandler struct {
	Shares *ledger.ShareLedger
	Store  *repository.Store
}

// NewPublicBrowseHandler wires the handler to its services.
func NewPublicBrowseHandler(shares *ledger.ShareLedger, store *repository.Store) *PublicBrowseHandler {
	return &PublicBrowseHandler{Shares: shares, Store: store}
}

// ListIPOs handles GET /ipos. An optional ?status= filter narrows the list
// to one lifecycle state.
func (h *PublicBrowseHandler) ListIPOs(c echo.Context) error {
	status := c.QueryParam("status")
	switch status {
	case "", model.IPOStatusDraft, model.IPOStatusActive, model.IPOStatusClosed, model.IPOStatusCancelled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
	}

	ipos, err := h.Store.ListMasterIPOs(c.Request().Context(), status)
	if err != nil {
		return ledgerError(c, err)
	}
	out := make([]echo.Map, 0, len(ipos))
	for i := range ipos {
		out = append(out, ipoResponse(&ipos[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"ipos": out})
}

// GetIPO handles GET /ipos/:id.
func (h *PublicBrowseHandler) GetIPO(c echo.Context) error {
	ipo, err := h.Store.MasterIPO(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, ipoResponse(ipo))
}

// ListHolders handles GET /ipos/:id/holders, the roster ordered by
// mint-order rank.
func (h *PublicBrowseHandler) ListHolders(c echo.Context) error {
	holders, err := h.Shares.AllHolders(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ledgerError(c, err)
	}
	out := make([]echo.Map, 0, len(holders))
	for _, pos := range holders {
		out = append(out, echo.Map{
			"wallet":          pos.Wallet,
			"quantity_held":   pos.QuantityHeld,
			"mint_order_rank": pos.MintOrderRank,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"holders": out})
}
