package domain

// Well-known node type names. The registry is the source of truth; these exist so
// call sites do not spell the strings by hand.
const (
	NodeTypeInput     = "customInput"
	NodeTypeOutput    = "customOutput"
	NodeTypeText      = "text"
	NodeTypeLLM       = "llm"
	NodeTypeMath      = "math"
	NodeTypeAPICall   = "apiCall"
	NodeTypeFilter    = "filter"
	NodeTypeDelay     = "delay"
	NodeTypeLogger    = "logger"
	NodeTypeConcat    = "concat"
	NodeTypeSplit     = "split"
	NodeTypeHTTP      = "http"
	NodeTypeUppercase = "uppercase"
	NodeTypeGeneric   = "generic"
)

// EdgeIDPrefix is the type prefix used for generated edge ids.
const EdgeIDPrefix = "edge"
