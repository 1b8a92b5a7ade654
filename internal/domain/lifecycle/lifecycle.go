// Package lifecycle holds shared limits for component start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop hooks that talk to external systems.
const DefaultTimeout = 10 * time.Second
