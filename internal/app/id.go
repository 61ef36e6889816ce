package app

import (
	"time"

	"github.com/google/uuid"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// newID returns the identifier given to requests, tenants, users and audit
// entries.
func newID() string {
	return uuid.NewString()
}

// utcNow is the default clock of the services.
func utcNow() time.Time {
	return domain.Now()
}
