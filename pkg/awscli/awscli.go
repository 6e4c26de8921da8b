// Package awscli wraps the provider's command line interface.
//
// Every remote operation in lamctl bottoms out here: spawn the `aws`
// binary, hand it arguments, read JSON off its stdout.  The provider CLI
// owns credentials, signing, and endpoints; we deliberately know nothing
// about any of that.
package awscli

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lamtools/lamctl/lamapi"
	"github.com/lamtools/lamctl/pkg/logging"
	"github.com/lamtools/lamctl/pkg/tracing"
)

const (
	// DefaultBin is the provider CLI binary resolved from PATH.
	DefaultBin = "aws"
	// BinEnv overrides the provider CLI binary, mostly for tests and
	// for people with multiple CLI versions installed.
	BinEnv = "LAMCTL_AWS_BIN"
)

// Invoker runs the provider CLI once and returns its stdout.
// The concrete implementation is ExecInvoker; tests substitute fakes.
type Invoker interface {
	Invoke(ctx context.Context, args ...string) ([]byte, error)
}

// ExecInvoker invokes the provider CLI as a subprocess.
type ExecInvoker struct {
	Bin string
}

// DefaultInvoker resolves the provider binary from BinEnv, falling back to
// DefaultBin.
func DefaultInvoker() ExecInvoker {
	bin := os.Getenv(BinEnv)
	if bin == "" {
		bin = DefaultBin
	}
	return ExecInvoker{Bin: bin}
}

// Invoke runs the provider CLI and captures stdout.
// Stderr streams to the logger's info channel as it arrives, and is also
// buffered and carried into the error on failure; the provider's raw
// message is usually the only actionable diagnostic there is.
//
// Errors:
//
//    - lamctl-error-provider -- when the provider CLI exits non-zero or cannot be spawned
func (iv ExecInvoker) Invoke(ctx context.Context, args ...string) ([]byte, error) {
	operation := operationName(args)
	ctx, span := tracing.Start(ctx, "aws "+operation,
		trace.WithAttributes(
			tracing.AttrFullExecNameAws,
			attribute.String(tracing.AttrKeyExecOperation, operation),
		))
	defer span.End()

	logger := logging.Ctx(ctx)
	logger.Debug("aws", "+ %s %s", iv.Bin, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, iv.Bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(&stderr, logger.InfoWriter("aws"))
	if err := cmd.Run(); err != nil {
		werr := lamapi.ErrorProvider(operation, strings.TrimSpace(stderr.String()), err)
		tracing.SetSpanError(ctx, werr)
		return nil, werr
	}
	return stdout.Bytes(), nil
}

// operationName picks the subcommand out of an argv for spans and errors.
// argv looks like ["lambda", "get-function", "--function-name", ...].
func operationName(args []string) string {
	for i, a := range args {
		if strings.HasPrefix(a, "-") {
			break
		}
		if i == 1 {
			return a
		}
	}
	if len(args) > 0 {
		return args[0]
	}
	return "(no-op)"
}
