// Package quota is the single gate that decides whether N more emails
// may be sent today, and the only place quota is consumed.
//
// Quota is enforced at two independent layers. The locally configured
// daily cap is authoritative: it is checked and consumed through an
// atomic increment-with-ceiling in the store and can never be bypassed.
// The provider's own rolling-window limit is probed best-effort; when
// the probe is unreachable the service fails open for that layer only
// and attaches a warning, because the local cap remains the binding
// safety mechanism.
//
// The counter is keyed by UTC calendar date. Rollover at UTC midnight
// is implicit: a new date key simply has no row and reads as zero, so
// no reset job exists.
package quota
