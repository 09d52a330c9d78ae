// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Video formats - which extensions are probed and accepted.
const (
	MimeExtensions = "mime.extensions"
)

// Listing pagination.
const (
	PaginatorRetries = "paginator.retries"
)

// Candidate verification.
const (
	ProbeConcurrency = "probe.concurrency"
)

// Per-page item fan-out.
const (
	FinderWorkers = "finder.workers"
)

// HTTP client behaviour.
const (
	NetworkTimeout   = "network.timeout"
	NetworkRateLimit = "network.rate_limit"
	NetworkBurst     = "network.burst"
	NetworkUserAgent = "network.user_agent"
	TLSFingerprint   = "network.tls_fingerprint"
)

// Crawl politeness.
const (
	RobotsCheck = "robots.check"
)

// Run history.
const (
	HistorySave = "history.save"
)

// Output rendering.
const (
	OutputFormat   = "output.format"
	OutputProgress = "output.progress"
)

// Iconography.
const (
	IconsVariant = "icons.variant"
)

// Logging.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI execution environment.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
