package artifact

import (
	"context"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lamtools/lamctl/lamapi"
	"github.com/lamtools/lamctl/pkg/logging"
	"github.com/lamtools/lamctl/pkg/tracing"
)

// S3Stager uploads an artifact once into a staging bucket so that fan-out
// updates can reference the object instead of re-sending the zip bytes for
// every downstream.
type S3Stager struct {
	client *s3.Client
	Bucket string
}

// NewS3Stager builds a stager from the ambient credential chain and checks
// that the bucket is reachable before anything else happens.
//
// Errors:
//
//    - lamctl-error-provider -- when credentials cannot be loaded or the bucket is not accessible
func NewS3Stager(ctx context.Context, bucket, region, profile string) (*S3Stager, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, lamapi.ErrorProvider("load-config", "", err)
	}
	client := s3.NewFromConfig(cfg)

	// make sure we can access the specified bucket
	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, lamapi.ErrorProvider("head-bucket", "could not access bucket "+bucket, err)
	}
	return &S3Stager{client: client, Bucket: bucket}, nil
}

// Stage uploads the zip at zipPath under a run-scoped key and returns that
// key.  Staged objects are not cleaned up.
//
// Errors:
//
//    - lamctl-error-io -- when the local zip cannot be opened
//    - lamctl-error-provider -- when the upload fails
func (st *S3Stager) Stage(ctx context.Context, runId, zipPath string) (string, error) {
	ctx, span := tracing.Start(ctx, "stage artifact")
	defer span.End()
	logger := logging.Ctx(ctx)

	key := path.Join("lamctl", runId, path.Base(zipPath))
	file, err := os.Open(zipPath)
	if err != nil {
		return "", lamapi.ErrorIo("opening artifact for staging", zipPath, err)
	}
	defer file.Close()

	uploader := manager.NewUploader(st.client)
	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: &st.Bucket,
		Key:    &key,
		Body:   file,
	})
	if err != nil {
		werr := lamapi.ErrorProvider("put-object", "uploading to bucket "+st.Bucket, err)
		tracing.SetSpanError(ctx, werr)
		return "", werr
	}
	logger.Debug("artifact", "staged %s as s3://%s/%s", zipPath, st.Bucket, key)
	return key, nil
}
