package goCAS

import (
	"testing"
	"time"

	"github.com/MrEthical07/goCAS/store"
)

func TestLint_DefaultConfigHasNoHighWarnings(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Lint().AsError(LintHigh); err != nil {
		t.Fatalf("default config should not fail AsError(LintHigh): %v", err)
	}

	codes := cfg.Lint().Codes()
	if !containsCode(codes, "global_ticket_no_expiry") {
		t.Error("expected global_ticket_no_expiry for the default config")
	}
	if !containsCode(codes, "logout_ownership_disabled") {
		t.Error("expected logout_ownership_disabled for the default config")
	}
}

func TestLint_BestEffortConsumeIsHigh(t *testing.T) {
	cfg := defaultConfig()
	cfg.Store.ConsumeMode = store.ConsumeGetThenDelete
	cfg.Store.AllowBestEffortConsume = true

	ws := cfg.Lint()
	high := ws.BySeverity(LintHigh)
	if len(high) != 1 || high[0].Code != "best_effort_consume" {
		t.Fatalf("expected a single best_effort_consume HIGH warning, got %+v", high)
	}
	if err := ws.AsError(LintHigh); err == nil {
		t.Error("expected AsError(LintHigh) to fail")
	}
}

func TestLint_HardenedConfigIsQuiet(t *testing.T) {
	cfg := defaultConfig()
	cfg.Tickets.GlobalTicketTTL = 8 * time.Hour
	cfg.Tickets.SlidingGlobalTTL = true
	cfg.Logout.RequireTicketOwnership = true

	if ws := cfg.Lint(); len(ws) != 0 {
		t.Fatalf("expected no warnings, got %v", ws.Codes())
	}
}

func TestLint_LongTemporaryTTL(t *testing.T) {
	cfg := defaultConfig()
	cfg.Tickets.TemporaryTTL = time.Hour
	if !containsCode(cfg.Lint().Codes(), "temporary_ttl_long") {
		t.Error("expected temporary_ttl_long warning")
	}
}

func TestLint_RecordOutlivedByTickets(t *testing.T) {
	cfg := defaultConfig()
	cfg.Sessions.RecordTTL = time.Hour
	if !containsCode(cfg.Lint().Codes(), "record_outlived_by_tickets") {
		t.Error("expected record_outlived_by_tickets warning")
	}
}

func TestLint_SeverityString(t *testing.T) {
	if LintHigh.String() != "HIGH" || LintWarn.String() != "WARN" || LintInfo.String() != "INFO" {
		t.Fatal("unexpected severity names")
	}
}

// helpers

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
