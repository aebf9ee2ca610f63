// Package send is the request-scoped coordinator for a bulk send. It
// validates the request, resolves recipients, reserves quota for the
// resolved count, creates the campaign record, runs the dispatch loop,
// and aggregates the batch result.
//
// A send is not idempotent: invoking it twice with the same inputs
// sends duplicate emails and consumes quota twice. Callers must not
// retry blindly.
package send
