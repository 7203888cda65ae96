package internaldefs

import (
	goCAS "github.com/MrEthical07/goCAS"
)

// CounterDef names one Authority counter for exporters.
type CounterDef struct {
	ID   goCAS.MetricID
	Name string
	Help string
}

// HistogramDef names one Authority latency histogram for exporters.
type HistogramDef struct {
	ID   goCAS.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: goCAS.MetricLoginSuccess, Name: "gocas_login_success_total", Help: "Successful credential checks."},
	{ID: goCAS.MetricLoginFailure, Name: "gocas_login_failure_total", Help: "Rejected credential checks."},
	{ID: goCAS.MetricAuthenticatorFailure, Name: "gocas_authenticator_failure_total", Help: "Authenticator errors and incomplete identities."},
	{ID: goCAS.MetricSessionEstablished, Name: "gocas_session_established_total", Help: "Global tickets minted."},
	{ID: goCAS.MetricSessionCheckValid, Name: "gocas_session_check_valid_total", Help: "Global tickets that resolved to a session."},
	{ID: goCAS.MetricSessionCheckInvalid, Name: "gocas_session_check_invalid_total", Help: "Absent or dangling global tickets."},
	{ID: goCAS.MetricTemporaryTicketIssued, Name: "gocas_temporary_ticket_issued_total", Help: "Temporary tickets minted."},
	{ID: goCAS.MetricTemporaryTicketVerified, Name: "gocas_temporary_ticket_verified_total", Help: "Temporary tickets exchanged for an identity."},
	{ID: goCAS.MetricTemporaryTicketRejected, Name: "gocas_temporary_ticket_rejected_total", Help: "Temporary ticket verifications rejected."},
	{ID: goCAS.MetricSessionRevoked, Name: "gocas_session_revoked_total", Help: "Session records deleted by logout."},
	{ID: goCAS.MetricRevokeNotOwner, Name: "gocas_revoke_not_owner_total", Help: "Logouts refused by the ticket ownership policy."},
	{ID: goCAS.MetricStoreFailure, Name: "gocas_store_failure_total", Help: "Session store errors."},
}

var HistogramDefs = []HistogramDef{
	{ID: goCAS.MetricVerifyLatency, Name: "gocas_verify_latency_seconds", Help: "Temporary ticket verification latency."},
}

// HistogramBounds are the le labels, in seconds, matching
// goCAS.HistogramBounds plus the unbounded bucket.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is HistogramBounds spelled for instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

// UpperBoundSeconds returns the finite bucket bounds in seconds.
func UpperBoundSeconds() []float64 {
	out := make([]float64, 0, len(HistogramBounds)-1)
	for _, d := range goCAS.HistogramBounds() {
		out = append(out, d.Seconds())
	}
	return out
}
