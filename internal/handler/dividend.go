package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cywf/AudiFi-sub000/internal/ledger"
)

// DividendHandler exposes claiming: holders pull their entitlements, the
// ledger guarantees each pays out at most once.
type DividendHandler struct {
	Claims *ledger.ClaimLedger
}

// NewDividendHandler wires the handler to the claim ledger.
func NewDividendHandler(claims *ledger.ClaimLedger) *DividendHandler {
	return &DividendHandler{Claims: claims}
}

// Claim handles POST /v1/dividends/:id/claim.
func (h *DividendHandler) Claim(c echo.Context) error {
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	res, err := h.Claims.Claim(c.Request().Context(), c.Param("id"), wallet)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"entitlement_id": res.EntitlementID,
		"amount_cents":   res.AmountCents,
		"currency":       res.Currency,
		"claimed_at":     res.ClaimedAt,
	})
}

// ClaimAll handles POST /v1/dividends/claim-all. Failures are reported per
// entitlement; the response is 200 even when some lines failed, since the
// successful claims already committed.
func (h *DividendHandler) ClaimAll(c echo.Context) error {
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	outcomes, err := h.Claims.ClaimAll(c.Request().Context(), wallet)
	if err != nil {
		return ledgerError(c, err)
	}

	var claimed int
	var total int64
	lines := make([]echo.Map, 0, len(outcomes))
	for _, out := range outcomes {
		line := echo.Map{
			"entitlement_id": out.EntitlementID,
			"currency":       out.Currency,
		}
		if out.Err != nil {
			line["error"] = out.Err.Error()
		} else {
			line["amount_cents"] = out.AmountCents
			claimed++
			total += out.AmountCents
		}
		lines = append(lines, line)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"claimed_count":       claimed,
		"claimed_total_cents": total,
		"results":             lines,
	})
}

// Outstanding handles GET /v1/dividends/outstanding, the wallet's claimable
// entitlements across every offering it holds.
func (h *DividendHandler) Outstanding(c echo.Context) error {
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ents, err := h.Claims.Outstanding(c.Request().Context(), wallet)
	if err != nil {
		return ledgerError(c, err)
	}

	var total int64
	out := make([]echo.Map, 0, len(ents))
	for _, ent := range ents {
		total += ent.AmountCents
		out = append(out, echo.Map{
			"id":               ent.ID,
			"revenue_event_id": ent.RevenueEventID,
			"master_ipo_id":    ent.MasterIPOID,
			"amount_cents":     ent.AmountCents,
			"currency":         ent.Currency,
			"created_at":       ent.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"outstanding_total_cents": total,
		"entitlements":            out,
	})
}
