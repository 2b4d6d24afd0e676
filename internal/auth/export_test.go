// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package auth

import "time"

// SetClock replaces the issuer's time source.
func (i *JWTIssuer) SetClock(now func() time.Time) {
	i.now = now
}

// SetClock replaces the service's time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}
