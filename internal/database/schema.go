package database

import (
	"context"
	"database/sql"
)

// schema holds the DDL for every ledger table. Statements are idempotent
// so EnsureSchema can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS master_ipos (
		id                           CHAR(36) PRIMARY KEY,
		artist_wallet                VARCHAR(128) NOT NULL,
		title                        VARCHAR(255) NOT NULL,
		total_supply                 BIGINT NOT NULL,
		minted_supply                BIGINT NOT NULL DEFAULT 0,
		price_cents                  BIGINT NOT NULL,
		currency                     CHAR(3) NOT NULL,
		holder_revenue_share_percent INT NOT NULL,
		artist_retained_percent      INT NOT NULL,
		status                       ENUM('DRAFT','ACTIVE','CLOSED','CANCELLED') NOT NULL,
		tier1_percent                INT NOT NULL,
		tier2_percent                INT NOT NULL,
		tier3_percent                INT NOT NULL,
		tier4_plus_percent           INT NOT NULL,
		created_at                   DATETIME NOT NULL,
		updated_at                   DATETIME NOT NULL,
		KEY idx_master_ipos_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS collaborator_shares (
		id            CHAR(36) PRIMARY KEY,
		master_ipo_id CHAR(36) NOT NULL,
		wallet        VARCHAR(128) NOT NULL,
		percent       INT NOT NULL,
		position      INT NOT NULL,
		CONSTRAINT fk_collab_ipo FOREIGN KEY (master_ipo_id) REFERENCES master_ipos(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS holder_positions (
		id              CHAR(36) PRIMARY KEY,
		master_ipo_id   CHAR(36) NOT NULL,
		wallet          VARCHAR(128) NOT NULL,
		quantity_held   BIGINT NOT NULL DEFAULT 0,
		mint_order_rank INT NOT NULL,
		created_at      DATETIME NOT NULL,
		updated_at      DATETIME NOT NULL,
		UNIQUE KEY uq_holder (master_ipo_id, wallet),
		UNIQUE KEY uq_holder_rank (master_ipo_id, mint_order_rank),
		KEY idx_holder_wallet (wallet),
		CONSTRAINT fk_holder_ipo FOREIGN KEY (master_ipo_id) REFERENCES master_ipos(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS revenue_events (
		id            CHAR(36) PRIMARY KEY,
		master_ipo_id CHAR(36) NOT NULL,
		amount_cents  BIGINT NOT NULL,
		currency      CHAR(3) NOT NULL,
		source_type   ENUM('STREAMING','SYNC','SALE','OTHER') NOT NULL,
		status        ENUM('PENDING','PROCESSED') NOT NULL,
		recorded_at   DATETIME NOT NULL,
		processed_at  DATETIME NULL,
		KEY idx_revenue_ipo (master_ipo_id),
		CONSTRAINT fk_revenue_ipo FOREIGN KEY (master_ipo_id) REFERENCES master_ipos(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS dividend_entitlements (
		id                 CHAR(36) PRIMARY KEY,
		revenue_event_id   CHAR(36) NOT NULL,
		master_ipo_id      CHAR(36) NOT NULL,
		holder_position_id CHAR(36) NOT NULL,
		amount_cents       BIGINT NOT NULL,
		currency           CHAR(3) NOT NULL,
		status             ENUM('CLAIMABLE','CLAIMED') NOT NULL,
		created_at         DATETIME NOT NULL,
		claimed_at         DATETIME NULL,
		UNIQUE KEY uq_entitlement (revenue_event_id, holder_position_id),
		KEY idx_entitlement_position (holder_position_id, status),
		CONSTRAINT fk_entitlement_event FOREIGN KEY (revenue_event_id) REFERENCES revenue_events(id) ON DELETE CASCADE,
		CONSTRAINT fk_entitlement_position FOREIGN KEY (holder_position_id) REFERENCES holder_positions(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS resale_transactions (
		id                    CHAR(36) PRIMARY KEY,
		master_ipo_id         CHAR(36) NOT NULL,
		seller_wallet         VARCHAR(128) NOT NULL,
		buyer_wallet          VARCHAR(128) NOT NULL,
		sale_price_cents      BIGINT NOT NULL,
		seller_proceeds_cents BIGINT NOT NULL,
		currency              CHAR(3) NOT NULL,
		recorded_at           DATETIME NOT NULL,
		KEY idx_resale_ipo (master_ipo_id),
		CONSTRAINT fk_resale_ipo FOREIGN KEY (master_ipo_id) REFERENCES master_ipos(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS mover_payouts (
		id            CHAR(36) PRIMARY KEY,
		resale_id     CHAR(36) NOT NULL,
		wallet        VARCHAR(128) NOT NULL,
		rank_position INT NOT NULL,
		amount_cents  BIGINT NOT NULL,
		CONSTRAINT fk_payout_resale FOREIGN KEY (resale_id) REFERENCES resale_transactions(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the ledger tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
