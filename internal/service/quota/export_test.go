package quota

import "time"

// SetNowForTest overrides the service clock so tests can cross UTC
// midnight without waiting for it.
func SetNowForTest(s *Service, now func() time.Time) { s.now = now }
