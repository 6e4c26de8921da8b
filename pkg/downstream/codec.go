// Package downstream manages the list of functions that receive code from
// an upstream function.
//
// The list lives inside the upstream function's own environment, under the
// reserved DOWNSTREAM_LAMBDAS variable, as a semicolon-joined string.  This
// package owns that encoding and the edits to it; promote.go owns the code
// propagation that consumes it.
package downstream

import (
	"strings"

	"github.com/serum-errors/go-serum"

	"github.com/lamtools/lamctl/lamapi"
)

const separator = ";"

// Parse decodes the reserved variable's value into a list of function names.
// An empty value decodes to an empty list; empty segments (as produced by
// stray separators) are dropped.
func Parse(value string) []lamapi.FunctionName {
	var out []lamapi.FunctionName
	for _, seg := range strings.Split(value, separator) {
		if seg == "" {
			continue
		}
		out = append(out, lamapi.FunctionName(seg))
	}
	return out
}

// Format encodes a list of function names back into the reserved variable's
// value.  Format(Parse(v)) == v for any value without empty segments.
func Format(names []lamapi.FunctionName) string {
	segs := make([]string, len(names))
	for i, n := range names {
		segs[i] = string(n)
	}
	return strings.Join(segs, separator)
}

// ValidateName rejects names that cannot survive the encoding.
//
// Errors:
//
//    - lamctl-error-invalid -- when the name is empty or contains the separator
func ValidateName(name lamapi.FunctionName) error {
	if name == "" {
		return lamapi.ErrorInvalid("downstream name must not be empty")
	}
	if strings.Contains(string(name), separator) {
		return lamapi.ErrorInvalid("downstream name must not contain "+separator,
			[2]string{"name", string(name)})
	}
	return nil
}

// Add appends names to the list, skipping names already present.
// The input list is not mutated.
//
// Errors:
//
//    - lamctl-error-invalid -- when a name is empty or contains the separator
func Add(list []lamapi.FunctionName, names ...lamapi.FunctionName) ([]lamapi.FunctionName, error) {
	out := make([]lamapi.FunctionName, len(list), len(list)+len(names))
	copy(out, list)
	present := make(map[lamapi.FunctionName]struct{}, len(out))
	for _, n := range out {
		present[n] = struct{}{}
	}
	for _, n := range names {
		if err := ValidateName(n); err != nil {
			return nil, err
		}
		if _, ok := present[n]; ok {
			continue
		}
		present[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

// Remove drops names from the list.  Asking to remove a name that is not a
// member is an error, and nothing is removed in that case.
//
// Errors:
//
//    - lamctl-error-missing -- when a name is not in the list
func Remove(list []lamapi.FunctionName, names ...lamapi.FunctionName) ([]lamapi.FunctionName, error) {
	drop := make(map[lamapi.FunctionName]struct{}, len(names))
	for _, n := range names {
		found := false
		for _, m := range list {
			if m == n {
				found = true
				break
			}
		}
		if !found {
			return nil, serum.Error(lamapi.ECodeMissing,
				serum.WithMessageTemplate("downstream {{name|q}} is not in the list"),
				serum.WithDetail("name", string(n)),
			)
		}
		drop[n] = struct{}{}
	}
	out := make([]lamapi.FunctionName, 0, len(list))
	for _, m := range list {
		if _, ok := drop[m]; ok {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
