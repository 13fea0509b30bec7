package constant

import "time"

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	// DefaultDebounce is the quiet period before pending writes are flushed.
	DefaultDebounce = 100 * time.Millisecond

	// ScratchpadOrganizationID is the built-in local organization. Projects
	// parented by it are never reported as untracked.
	ScratchpadOrganizationID = "org_scratchpad"

	FlushSubject = "flush"
)
