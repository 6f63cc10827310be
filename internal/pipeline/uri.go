package pipeline

import "strings"

// URIKind classifies an attribute value for path rewriting.
type URIKind int

const (
	// URIEmpty is an empty value.
	URIEmpty URIKind = iota
	// URIData is an inline data: URI.
	URIData
	// URIAbsolute is a root-relative path, a protocol-relative URL or
	// any value carrying a scheme separator.
	URIAbsolute
	// URIRelative is everything else and is the only kind that gets rewritten.
	URIRelative
)

// String returns the kind name used in log records.
func (k URIKind) String() string {
	switch k {
	case URIEmpty:
		return "empty"
	case URIData:
		return "data"
	case URIAbsolute:
		return "absolute"
	case URIRelative:
		return "relative"
	default:
		return "unknown"
	}
}

// ClassifyURI decides whether a value needs rewriting.
// It never fails: malformed URLs are classified by prefix like anything else.
func ClassifyURI(value string) URIKind {
	switch {
	case value == "":
		return URIEmpty
	case strings.HasPrefix(value, "data:"):
		return URIData
	case strings.HasPrefix(value, "/"), strings.Contains(value, "://"):
		return URIAbsolute
	default:
		return URIRelative
	}
}

// IsRelativePath reports whether value would be rewritten.
func IsRelativePath(value string) bool {
	return ClassifyURI(value) == URIRelative
}
