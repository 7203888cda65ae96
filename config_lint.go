package goCAS

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goCAS/store"
)

// LintSeverity ranks a configuration warning.
type LintSeverity int

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

// String returns the upper-case severity name.
func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// LintWarning is a valid but questionable configuration choice.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintWarnings is the result of Config.Lint.
type LintWarnings []LintWarning

// Codes returns the warning codes in order.
func (ws LintWarnings) Codes() []string {
	codes := make([]string, 0, len(ws))
	for _, w := range ws {
		codes = append(codes, w.Code)
	}
	return codes
}

// BySeverity returns the warnings at or above min.
func (ws LintWarnings) BySeverity(min LintSeverity) LintWarnings {
	var out LintWarnings
	for _, w := range ws {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// AsError folds the warnings at or above min into one error, or returns nil.
func (ws LintWarnings) AsError(min LintSeverity) error {
	hits := ws.BySeverity(min)
	if len(hits) == 0 {
		return nil
	}
	parts := make([]string, 0, len(hits))
	for _, w := range hits {
		parts = append(parts, fmt.Sprintf("[%s] %s: %s", w.Severity, w.Code, w.Message))
	}
	return fmt.Errorf("goCAS config lint: %s", strings.Join(parts, "; "))
}

// Lint reports settings that pass Validate but deserve a second look.
func (c Config) Lint() LintWarnings {
	var ws LintWarnings

	if c.Store.ConsumeMode == store.ConsumeGetThenDelete {
		ws = append(ws, LintWarning{
			Code:     "best_effort_consume",
			Severity: LintHigh,
			Message:  "concurrent verifications of one temporary ticket may both succeed",
		})
	}
	if !c.Logout.RequireTicketOwnership {
		ws = append(ws, LintWarning{
			Code:     "logout_ownership_disabled",
			Severity: LintWarn,
			Message:  "any caller can revoke the session of any user id",
		})
	}
	if c.Tickets.TemporaryTTL > 10*time.Minute {
		ws = append(ws, LintWarning{
			Code:     "temporary_ttl_long",
			Severity: LintWarn,
			Message:  "temporary tickets live longer than 10 minutes",
		})
	}
	if c.Tickets.GlobalTicketTTL == 0 {
		ws = append(ws, LintWarning{
			Code:     "global_ticket_no_expiry",
			Severity: LintInfo,
			Message:  "global tickets only end on logout",
		})
		if c.Sessions.RecordTTL > 0 {
			ws = append(ws, LintWarning{
				Code:     "record_outlived_by_tickets",
				Severity: LintWarn,
				Message:  "session records expire while their global tickets remain",
			})
		}
	}
	if !c.Metrics.Enabled {
		ws = append(ws, LintWarning{
			Code:     "metrics_disabled",
			Severity: LintInfo,
			Message:  "authority counters are not recorded",
		})
	}

	return ws
}
