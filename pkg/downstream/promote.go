package downstream

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/lamtools/lamctl/lamapi"
	"github.com/lamtools/lamctl/pkg/artifact"
	"github.com/lamtools/lamctl/pkg/logging"
	"github.com/lamtools/lamctl/pkg/tracing"
)

// Remote is the slice of the function client that promotion needs.
// *awscli.Client satisfies it; tests substitute fakes.
type Remote interface {
	LatestVersion(ctx context.Context, fn lamapi.FunctionName) (lamapi.Version, error)
	GetConfiguration(ctx context.Context, fn lamapi.FunctionName, version lamapi.Version) (lamapi.Configuration, error)
	GetCodeLocation(ctx context.Context, fn lamapi.FunctionName, version lamapi.Version) (lamapi.CodeLocation, error)
	UpdateFunctionCode(ctx context.Context, fn lamapi.FunctionName, zipPath string) error
	UpdateFunctionCodeFromS3(ctx context.Context, fn lamapi.FunctionName, bucket, key string) error
	PublishVersion(ctx context.Context, fn lamapi.FunctionName, description string) (lamapi.Version, error)
}

// Stager uploads an artifact once for fan-out; see artifact.S3Stager.
type Stager interface {
	Stage(ctx context.Context, runId, zipPath string) (string, error)
}

// Promoter propagates a function's published code to its downstreams.
type Promoter struct {
	Remote Remote
	// Stager and StageBucket are optional; when set, the artifact is
	// uploaded once to the staging bucket and downstream updates pull it
	// from there instead of receiving the zip bytes directly.
	Stager      Stager
	StageBucket string
}

// Promotion is the outcome for one downstream function.
type Promotion struct {
	Target  lamapi.FunctionName
	Version lamapi.Version
	Err     error
}

// Promote pushes the code of the source function at the given version (or
// its most recently published version, when empty) to every downstream
// recorded in the source's configuration, then publishes each downstream.
//
// Each downstream proceeds independently; one failing does not cancel or
// roll back the others.  The returned error is the first downstream
// failure, surfaced only after every downstream has finished; per-target
// outcomes are always returned.
//
// Errors:
//
//    - lamctl-error-provider -- when a provider CLI call fails
//    - lamctl-error-parse -- when a provider response cannot be decoded
//    - lamctl-error-missing -- when the source has no published versions
//    - lamctl-error-io -- when the artifact cannot be downloaded or staged
func (p *Promoter) Promote(ctx context.Context, source lamapi.FunctionName, version lamapi.Version) ([]Promotion, error) {
	runId := uuid.New().String()
	ctx, span := tracing.Start(ctx, "promote",
		trace.WithAttributes(
			attribute.String(tracing.AttrKeyFunctionName, string(source)),
			attribute.String(tracing.AttrKeyRunId, runId),
		))
	defer span.End()
	logger := logging.Ctx(ctx)

	if version == "" {
		var err error
		version, err = p.Remote.LatestVersion(ctx, source)
		if err != nil {
			return nil, err
		}
	}
	span.SetAttributes(attribute.String(tracing.AttrKeyVersion, string(version)))
	logger.Debug("promote", "run %s: source %s:%s", runId, source, version)

	cfg, err := p.Remote.GetConfiguration(ctx, source, "")
	if err != nil {
		return nil, err
	}
	targets := Parse(cfg[lamapi.DownstreamKey])
	if len(targets) == 0 {
		logger.Info("promote", "function %s has no downstreams; nothing to do", source)
		return nil, nil
	}

	location, err := p.Remote.GetCodeLocation(ctx, source, version)
	if err != nil {
		return nil, err
	}
	zipPath, err := artifact.Fetch(ctx, location, source)
	if err != nil {
		return nil, err
	}

	stageKey := ""
	if p.Stager != nil {
		stageKey, err = p.Stager.Stage(ctx, runId, zipPath)
		if err != nil {
			return nil, err
		}
	}

	description := fmt.Sprintf("promoted from %s:%s (run %s)", source, version, runId)
	results := make([]Promotion, len(targets))
	var group errgroup.Group
	for i, target := range targets {
		i, target := i, target
		results[i].Target = target
		group.Go(func() error {
			published, err := p.promoteOne(ctx, target, zipPath, stageKey, description)
			if err != nil {
				logger.Info("promote", "downstream %s failed: %s", target, err)
				results[i].Err = err
				return err
			}
			logger.Info("promote", "downstream %s published as version %s", target, published)
			results[i].Version = published
			return nil
		})
	}
	return results, group.Wait()
}

func (p *Promoter) promoteOne(ctx context.Context, target lamapi.FunctionName, zipPath, stageKey, description string) (lamapi.Version, error) {
	ctx, span := tracing.Start(ctx, "promote downstream",
		trace.WithAttributes(attribute.String(tracing.AttrKeyFunctionName, string(target))))
	defer span.End()

	var err error
	if stageKey != "" {
		err = p.Remote.UpdateFunctionCodeFromS3(ctx, target, p.StageBucket, stageKey)
	} else {
		err = p.Remote.UpdateFunctionCode(ctx, target, zipPath)
	}
	if err != nil {
		tracing.SetSpanError(ctx, err)
		return "", err
	}
	published, err := p.Remote.PublishVersion(ctx, target, description)
	if err != nil {
		tracing.SetSpanError(ctx, err)
		return "", err
	}
	return published, nil
}
