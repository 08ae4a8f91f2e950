package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cywf/AudiFi-sub000/internal/ledger"
	"github.com/cywf/AudiFi-sub000/internal/model"
	"github.com/cywf/AudiFi-sub000/internal/queue"
	"github.com/cywf/AudiFi-sub000/internal/repository"
	queue_publisher "github.com/cywf/AudiFi-sub000/internal/service"
)

// ArtistIPOHandler exposes the artist-facing surface: offering lifecycle,
// revenue recording and distribution. Every route requires the caller to be
// the artist wallet that owns the offering.
type ArtistIPOHandler struct {
	Shares      *ledger.ShareLedger
	Distributor *ledger.RevenueDistributor
	Store       *repository.Store
}

// NewArtistIPOHandler wires the handler to its services.
func NewArtistIPOHandler(shares *ledger.ShareLedger, dist *ledger.RevenueDistributor, store *repository.Store) *ArtistIPOHandler {
	return &ArtistIPOHandler{Shares: shares, Distributor: dist, Store: store}
}

type collaboratorRequest struct {
	Wallet  string `json:"wallet"`
	Percent int    `json:"percent"`
}

type createIPORequest struct {
	Title                     string                `json:"title"`
	TotalSupply               int64                 `json:"total_supply"`
	PriceCents                int64                 `json:"price_cents"`
	Currency                  string                `json:"currency"`
	HolderRevenueSharePercent int                   `json:"holder_revenue_share_percent"`
	ArtistRetainedPercent     int                   `json:"artist_retained_percent"`
	Collaborators             []collaboratorRequest `json:"collaborators"`
	Tier1Percent              int                   `json:"tier1_percent"`
	Tier2Percent              int                   `json:"tier2_percent"`
	Tier3Percent              int                   `json:"tier3_percent"`
	Tier4PlusPercent          int                   `json:"tier4_plus_percent"`
}

// CreateIPO handles POST /v1/ipos. The offering starts in DRAFT; the
// split invariant is only checked at launch.
func (h *ArtistIPOHandler) CreateIPO(c echo.Context) error {
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createIPORequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	in := ledger.CreateDraftInput{
		ArtistWallet:              wallet,
		Title:                     req.Title,
		TotalSupply:               req.TotalSupply,
		PriceCents:                req.PriceCents,
		Currency:                  req.Currency,
		HolderRevenueSharePercent: req.HolderRevenueSharePercent,
		ArtistRetainedPercent:     req.ArtistRetainedPercent,
		Tier1Percent:              req.Tier1Percent,
		Tier2Percent:              req.Tier2Percent,
		Tier3Percent:              req.Tier3Percent,
		Tier4PlusPercent:          req.Tier4PlusPercent,
	}
	for _, col := range req.Collaborators {
		in.Collaborators = append(in.Collaborators, model.CollaboratorShare{
			Wallet:  col.Wallet,
			Percent: col.Percent,
		})
	}

	ipo, err := h.Shares.CreateDraft(c.Request().Context(), in)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusCreated, ipoResponse(&ipo))
}

// LaunchIPO handles POST /v1/ipos/:id/launch.
func (h *ArtistIPOHandler) LaunchIPO(c echo.Context) error {
	ctx := c.Request().Context()
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.requireOwner(ctx, c.Param("id"), wallet); err != nil {
		return ledgerError(c, err)
	}
	ipo, err := h.Shares.Launch(ctx, c.Param("id"))
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, ipoResponse(&ipo))
}

// CloseIPO handles POST /v1/ipos/:id/close. Ends an active offering early;
// already-minted positions keep their state.
func (h *ArtistIPOHandler) CloseIPO(c echo.Context) error {
	ctx := c.Request().Context()
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.requireOwner(ctx, c.Param("id"), wallet); err != nil {
		return ledgerError(c, err)
	}
	if err := h.Shares.Close(ctx, c.Param("id")); err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.IPOStatusClosed})
}

// CancelIPO handles POST /v1/ipos/:id/cancel. Only DRAFT offerings cancel.
func (h *ArtistIPOHandler) CancelIPO(c echo.Context) error {
	ctx := c.Request().Context()
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.requireOwner(ctx, c.Param("id"), wallet); err != nil {
		return ledgerError(c, err)
	}
	if err := h.Shares.Cancel(ctx, c.Param("id")); err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.IPOStatusCancelled})
}

type recordRevenueRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	SourceType  string `json:"source_type"`
}

// RecordRevenue handles POST /v1/ipos/:id/revenue. The event lands as
// PENDING; distribution is a separate, explicit step.
func (h *ArtistIPOHandler) RecordRevenue(c echo.Context) error {
	ctx := c.Request().Context()
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.requireOwner(ctx, c.Param("id"), wallet); err != nil {
		return ledgerError(c, err)
	}
	var req recordRevenueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ev, err := h.Distributor.RecordRevenueEvent(ctx, ledger.RecordRevenueInput{
		MasterIPOID: c.Param("id"),
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		SourceType:  req.SourceType,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusCreated, revenueEventResponse(&ev))
}

// ProcessRevenue handles POST /v1/revenue/:id/process. On success a
// dividend.processed event is published for downstream consumers; publish
// failures are logged, never surfaced, since the distribution already
// committed.
func (h *ArtistIPOHandler) ProcessRevenue(c echo.Context) error {
	ctx := c.Request().Context()
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	res, err := h.processOwned(ctx, c.Param("id"), wallet)
	if err != nil {
		return ledgerError(c, err)
	}

	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		event := queue.DividendProcessedEvent{
			RevenueEventID:   res.Event.ID,
			MasterIPOID:      res.Event.MasterIPOID,
			AmountCents:      res.Event.AmountCents,
			PoolCents:        res.PoolCents,
			Currency:         res.Event.Currency,
			EntitlementCount: len(res.Entitlements),
			ProcessedAt:      res.Event.ProcessedAt.UTC().Format(time.RFC3339),
		}
		if err := queue_publisher.PublishDividendProcessed(pubCtx, event); err != nil {
			log.Printf("handler: publish dividend.processed failed: %v", err)
		}
	}()

	return c.JSON(http.StatusOK, processResultResponse(&res))
}

// ListRevenue handles GET /v1/ipos/:id/revenue.
func (h *ArtistIPOHandler) ListRevenue(c echo.Context) error {
	ctx := c.Request().Context()
	wallet, err := walletFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.requireOwner(ctx, c.Param("id"), wallet); err != nil {
		return ledgerError(c, err)
	}
	events, err := h.Distributor.RevenueEvents(ctx, c.Param("id"))
	if err != nil {
		return ledgerError(c, err)
	}
	out := make([]echo.Map, 0, len(events))
	for i := range events {
		out = append(out, revenueEventResponse(&events[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out})
}

// requireOwner loads the offering and checks the caller owns it.
func (h *ArtistIPOHandler) requireOwner(ctx context.Context, ipoID, wallet string) error {
	ipo, err := h.Store.MasterIPO(ctx, ipoID)
	if err != nil {
		return err
	}
	if ipo.ArtistWallet != wallet {
		return ledger.ErrWalletMismatch
	}
	return nil
}

// processOwned verifies event ownership before distributing: the caller must
// be the artist of the offering the revenue was recorded against.
func (h *ArtistIPOHandler) processOwned(ctx context.Context, eventID, wallet string) (ledger.ProcessResult, error) {
	ev, err := h.Store.RevenueEvent(ctx, eventID)
	if err != nil {
		return ledger.ProcessResult{}, err
	}
	if err := h.requireOwner(ctx, ev.MasterIPOID, wallet); err != nil {
		return ledger.ProcessResult{}, err
	}
	return h.Distributor.ProcessRevenueEvent(ctx, eventID)
}

func ipoResponse(ipo *model.MasterIPO) echo.Map {
	collabs := make([]echo.Map, 0, len(ipo.Collaborators))
	for _, col := range ipo.Collaborators {
		collabs = append(collabs, echo.Map{
			"wallet":  col.Wallet,
			"percent": col.Percent,
		})
	}
	return echo.Map{
		"id":                           ipo.ID,
		"artist_wallet":                ipo.ArtistWallet,
		"title":                        ipo.Title,
		"total_supply":                 ipo.TotalSupply,
		"minted_supply":                ipo.MintedSupply,
		"remaining_supply":             ipo.RemainingSupply(),
		"price_cents":                  ipo.PriceCents,
		"currency":                     ipo.Currency,
		"holder_revenue_share_percent": ipo.HolderRevenueSharePercent,
		"artist_retained_percent":      ipo.ArtistRetainedPercent,
		"status":                       ipo.Status,
		"tier1_percent":                ipo.Tier1Percent,
		"tier2_percent":                ipo.Tier2Percent,
		"tier3_percent":                ipo.Tier3Percent,
		"tier4_plus_percent":           ipo.Tier4PlusPercent,
		"collaborators":                collabs,
		"created_at":                   ipo.CreatedAt,
	}
}

func revenueEventResponse(ev *model.RevenueEvent) echo.Map {
	out := echo.Map{
		"id":            ev.ID,
		"master_ipo_id": ev.MasterIPOID,
		"amount_cents":  ev.AmountCents,
		"currency":      ev.Currency,
		"source_type":   ev.SourceType,
		"status":        ev.Status,
		"recorded_at":   ev.RecordedAt,
	}
	if ev.ProcessedAt != nil {
		out["processed_at"] = ev.ProcessedAt
	}
	return out
}

func processResultResponse(res *ledger.ProcessResult) echo.Map {
	ents := make([]echo.Map, 0, len(res.Entitlements))
	for _, ent := range res.Entitlements {
		ents = append(ents, echo.Map{
			"id":                 ent.ID,
			"holder_position_id": ent.HolderPositionID,
			"amount_cents":       ent.AmountCents,
			"currency":           ent.Currency,
			"status":             ent.Status,
		})
	}
	return echo.Map{
		"event":        revenueEventResponse(&res.Event),
		"pool_cents":   res.PoolCents,
		"entitlements": ents,
	}
}
