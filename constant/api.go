package constant

// WordPress REST API layout.
const (
	APIPrefix = "wp-json/wp/v2"
	PageSize  = 100
)

// Crawl modes accepted on the command line.
const (
	ModeFast = "fast"
	ModeSlow = "slow"
)

// Output formats.
const (
	FormatPlain = "plain"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)
