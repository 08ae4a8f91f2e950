// Package ledger implements the revenue and dividend accounting core:
// share/mint bookkeeping per Master IPO, the Mover Advantage resale split,
// revenue-event distribution into dividend entitlements, and at-most-once
// claiming. Services in this package hold no state of their own; every
// operation runs against an injected store whose transaction discipline
// provides the atomicity guarantees, so the same services run unchanged
// against MySQL in production and an in-memory fake in tests.
package ledger

import "errors"

// Sentinel errors returned by the ledger services. Handlers translate these
// with errors.Is into HTTP statuses; the services themselves never log,
// retry or wrap them further.
var (
	// ErrInvalidQuantity rejects mints and transfers of zero or negative units.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidAmount rejects revenue events and resales priced at zero or less.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrSupplyExhausted is returned when a mint would push minted supply
	// past total supply. State is left untouched.
	ErrSupplyExhausted = errors.New("supply exhausted")

	// ErrMasterIPONotFound is returned when the referenced Master IPO does
	// not exist.
	ErrMasterIPONotFound = errors.New("master ipo not found")

	// ErrNotFound is returned for missing holder positions, revenue events
	// and entitlements.
	ErrNotFound = errors.New("not found")

	// ErrIPONotDraft is returned when launch is attempted on an IPO that
	// already left DRAFT.
	ErrIPONotDraft = errors.New("master ipo not in draft")

	// ErrIPONotActive is returned when a mint or close targets an IPO that
	// is not ACTIVE.
	ErrIPONotActive = errors.New("master ipo not active")

	// ErrInvalidSplit is returned at launch when the holder, artist and
	// collaborator percents do not sum to exactly 100.
	ErrInvalidSplit = errors.New("revenue split does not sum to 100")

	// ErrInsufficientUnits is returned when a transfer exceeds the seller's
	// current holdings.
	ErrInsufficientUnits = errors.New("insufficient units held")

	// ErrAlreadyProcessed is returned on a second distribution attempt for
	// the same revenue event. Benign under retry; no records are created.
	ErrAlreadyProcessed = errors.New("revenue event already processed")

	// ErrAlreadyClaimed is returned when an entitlement was claimed by an
	// earlier (possibly concurrent) call.
	ErrAlreadyClaimed = errors.New("entitlement already claimed")

	// ErrWalletMismatch is returned when the claiming wallet does not own
	// the holder position the entitlement was computed against.
	ErrWalletMismatch = errors.New("wallet does not own entitlement")
)
