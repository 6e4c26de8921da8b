package tracing

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys used by lamctl
const (
	AttrKeyErrorCode     = "lamctl.error.code"
	AttrKeyFunctionName  = "lamctl.function.name"
	AttrKeyVersion       = "lamctl.version"
	AttrKeyRunId         = "lamctl.run.id"
	AttrKeyExecName      = "lamctl.exec.name"
	AttrKeyExecOperation = "lamctl.exec.operation"
)

// Attribute values
const (
	AttrValueExecNameAws = "aws"
)

// Enumerated attributes
var (
	AttrFullExecNameAws = attribute.String(AttrKeyExecName, AttrValueExecNameAws)
)
