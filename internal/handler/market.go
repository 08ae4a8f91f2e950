package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cywf/AudiFi-sub000/internal/ledger"
	"github.com/cywf/AudiFi-sub000/internal/model"
	"github.com/cywf/AudiFi-sub000/internal/repository"
)

// MarketHandler exposes the collector-facing surface: primary-sale mints,
// secondary-market transfers and resales with their Mover Advantage splits.
type MarketHandler struct {
	Shares *ledger.ShareLedger
	Mover  *ledger.MoverAdvantage
	Store  *repository.Store
}

// NewMarketHandler wires the handler to its services.
func NewMarketHandler(shares *ledger.ShareLedger, mover *ledger.MoverAdvantage, store *repository.Store) *MarketHandler {
	return &MarketHandler{Shares: shares, Mover: mover, Store: store}
}

type mintRequest struct {
	Quantity int64 `json:"quantity"`
}

// Mint handles POST /v1/ipos/:id/mint. The authenticated wallet buys
// freshly issued units; its mint-order rank is fixed on the first purchase.
func (h *MarketHandler) Mint(c echo.Context) error {
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req mintRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, err := h.Shares.RecordMint(c.Request().Context(), c.Param("id"), wallet, req.Quantity)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"quantity_held":    res.QuantityHeld,
		"mint_order_rank":  res.MintOrderRank,
		"remaining_supply": res.RemainingSupply,
		"sold_out":         res.SoldOut,
	})
}

type transferRequest struct {
	ToWallet string `json:"to_wallet"`
	Quantity int64  `json:"quantity"`
}

// Transfer handles POST /v1/ipos/:id/transfer. Units move from the
// authenticated wallet; the sender keeps its rank even at zero quantity.
func (h *MarketHandler) Transfer(c echo.Context) error {
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ToWallet == "" || req.ToWallet == wallet {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to_wallet must name another wallet"})
	}

	if err := h.Shares.RecordTransfer(c.Request().Context(), c.Param("id"), wallet, req.ToWallet, req.Quantity); err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"transferred": req.Quantity, "to_wallet": req.ToWallet})
}

// QuoteResale handles GET /v1/ipos/:id/resale-quote?price_cents=N. It prices
// the Mover Advantage split against the current roster without recording
// anything, so sellers can preview their proceeds.
func (h *MarketHandler) QuoteResale(c echo.Context) error {
	price, err := strconv.ParseInt(c.QueryParam("price_cents"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be an integer"})
	}
	split, err := h.Mover.ComputeSplit(c.Request().Context(), c.Param("id"), price)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, splitResponse(&split))
}

type resaleRequest struct {
	BuyerWallet string `json:"buyer_wallet"`
	PriceCents  int64  `json:"price_cents"`
	Quantity    int64  `json:"quantity"`
}

// RecordResale handles POST /v1/ipos/:id/resales. The split and the unit
// transfer settle as two steps: the resale row commits with its payout
// lines, then the units move. A transfer failure after the resale committed
// surfaces to the caller; the resale record stands as the price evidence.
func (h *MarketHandler) RecordResale(c echo.Context) error {
	ctx := c.Request().Context()
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req resaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.BuyerWallet == "" || req.BuyerWallet == wallet {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "buyer_wallet must name another wallet"})
	}
	if req.Quantity <= 0 {
		return ledgerError(c, ledger.ErrInvalidQuantity)
	}

	// Check the seller can cover the quantity before recording anything.
	pos, err := h.Store.HolderPosition(ctx, c.Param("id"), wallet)
	if err != nil {
		return ledgerError(c, err)
	}
	if pos.QuantityHeld < req.Quantity {
		return ledgerError(c, ledger.ErrInsufficientUnits)
	}

	resale, err := h.Mover.RecordResale(ctx, ledger.RecordResaleInput{
		MasterIPOID:  c.Param("id"),
		SellerWallet: wallet,
		BuyerWallet:  req.BuyerWallet,
		PriceCents:   req.PriceCents,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	if err := h.Shares.RecordTransfer(ctx, c.Param("id"), wallet, req.BuyerWallet, req.Quantity); err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusCreated, resaleResponse(&resale))
}

// ListResales handles GET /v1/ipos/:id/resales.
func (h *MarketHandler) ListResales(c echo.Context) error {
	resales, err := h.Store.ListResales(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ledgerError(c, err)
	}
	out := make([]echo.Map, 0, len(resales))
	for i := range resales {
		out = append(out, resaleResponse(&resales[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"resales": out})
}

// Position handles GET /v1/ipos/:id/position, the authenticated wallet's
// holdings and rank within one offering.
func (h *MarketHandler) Position(c echo.Context) error {
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	pos, err := h.Shares.Holder(c.Request().Context(), c.Param("id"), wallet)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"master_ipo_id":   pos.MasterIPOID,
		"wallet":          pos.Wallet,
		"quantity_held":   pos.QuantityHeld,
		"mint_order_rank": pos.MintOrderRank,
	})
}

func splitResponse(split *ledger.ResaleSplit) echo.Map {
	payouts := make([]echo.Map, 0, len(split.Payouts))
	for _, p := range split.Payouts {
		payouts = append(payouts, echo.Map{
			"wallet":       p.Wallet,
			"rank":         p.Rank,
			"amount_cents": p.AmountCents,
		})
	}
	return echo.Map{
		"sale_price_cents":      split.SalePriceCents,
		"seller_proceeds_cents": split.SellerProceedsCents,
		"payouts":               payouts,
	}
}

func resaleResponse(r *model.ResaleTransaction) echo.Map {
	payouts := make([]echo.Map, 0, len(r.Payouts))
	for _, p := range r.Payouts {
		payouts = append(payouts, echo.Map{
			"wallet":       p.Wallet,
			"rank":         p.Rank,
			"amount_cents": p.AmountCents,
		})
	}
	return echo.Map{
		"id":                    r.ID,
		"master_ipo_id":         r.MasterIPOID,
		"seller_wallet":         r.SellerWallet,
		"buyer_wallet":          r.BuyerWallet,
		"sale_price_cents":      r.SalePriceCents,
		"seller_proceeds_cents": r.SellerProceedsCents,
		"currency":              r.Currency,
		"payouts":               payouts,
		"recorded_at":           r.RecordedAt,
	}
}
