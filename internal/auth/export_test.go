// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

package auth

import "time"

// SetNow pins the service clock for tests.
func SetNow(s *Service, now func() time.Time) {
	s.now = now
}
