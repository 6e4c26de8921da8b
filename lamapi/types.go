package lamapi

import (
	"time"
)

// FunctionName identifies a remote function.
// The provider treats it as opaque; so do we.
type FunctionName string

// Version identifies a snapshot of a function's code and configuration.
// It is either VersionLatest or a revision number assigned by the provider
// at publish time.  Revision numbers are decimal strings, but we never do
// arithmetic on them; ordering is handled by OrderReleases.
type Version string

// VersionLatest is the provider's mutable head pseudo-version.
// It is a valid qualifier for reads, but never appears in release listings.
const VersionLatest Version = "$LATEST"

// DownstreamKey is the reserved configuration variable holding the
// semicolon-joined list of downstream function names.
const DownstreamKey = "DOWNSTREAM_LAMBDAS"

// Configuration is a function's environment variable mapping.
// Values are uninterpreted strings, except for the DownstreamKey entry.
type Configuration map[string]string

// Clone returns a shallow copy.  Mutating the copy never touches the original.
func (c Configuration) Clone() Configuration {
	out := make(Configuration, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// VersionInfo is one record from the provider's version listing.
type VersionInfo struct {
	Version      Version   `json:"version"`
	Description  string    `json:"description"`
	LastModified time.Time `json:"lastModified"`
}

// CodeLocation is a transient, pre-signed URL pointing at a zipped code
// artifact.  It is valid for a single download and expires quickly;
// holding on to one across operations is a bug.
type CodeLocation string
