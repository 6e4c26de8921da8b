package awscli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/serum-errors/go-serum"

	"github.com/lamtools/lamctl/lamapi"
)

// Client is the remote function client.
// All operations are synchronous wrappers over single provider CLI calls;
// there is no session state beyond the flags recorded here.
type Client struct {
	Invoker Invoker
	Region  string
	Profile string
}

// New returns a client using the default subprocess invoker.
func New(region, profile string) *Client {
	return &Client{
		Invoker: DefaultInvoker(),
		Region:  region,
		Profile: profile,
	}
}

func (c *Client) invoke(ctx context.Context, args ...string) ([]byte, error) {
	args = append(args, "--output", "json")
	if c.Region != "" {
		args = append(args, "--region", c.Region)
	}
	if c.Profile != "" {
		args = append(args, "--profile", c.Profile)
	}
	return c.Invoker.Invoke(ctx, args...)
}

// The provider timestamps versions like "2023-04-02T18:20:35.054+0000",
// which is almost but not quite RFC3339.
const lastModifiedLayout = "2006-01-02T15:04:05.000-0700"

func parseLastModified(s string) (time.Time, error) {
	if t, err := time.Parse(lastModifiedLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func qualified(args []string, version lamapi.Version) []string {
	if version != "" {
		args = append(args, "--qualifier", string(version))
	}
	return args
}

// GetConfiguration fetches the environment variable mapping of a function,
// optionally at a specific version (empty version means the provider default).
//
// Errors:
//
//    - lamctl-error-provider -- when the provider CLI fails
//    - lamctl-error-parse -- when the provider response is not the expected JSON
func (c *Client) GetConfiguration(ctx context.Context, fn lamapi.FunctionName, version lamapi.Version) (lamapi.Configuration, error) {
	args := qualified([]string{
		"lambda", "get-function-configuration",
		"--function-name", string(fn),
	}, version)
	out, err := c.invoke(ctx, args...)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Environment struct {
			Variables map[string]string `json:"Variables"`
		} `json:"Environment"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, lamapi.ErrorParse("decoding function configuration", err)
	}
	cfg := lamapi.Configuration(resp.Environment.Variables)
	if cfg == nil {
		cfg = lamapi.Configuration{}
	}
	return cfg, nil
}

// SetConfiguration writes the full environment variable mapping of a function.
// The provider replaces the whole mapping on every write, which is why
// callers always read-merge-write; see the config commands.
//
// Errors:
//
//    - lamctl-error-provider -- when the provider CLI fails
//    - lamctl-error-parse -- when the environment cannot be encoded
func (c *Client) SetConfiguration(ctx context.Context, fn lamapi.FunctionName, cfg lamapi.Configuration) error {
	env, err := json.Marshal(struct {
		Variables lamapi.Configuration `json:"Variables"`
	}{cfg})
	if err != nil {
		return lamapi.ErrorParse("encoding function environment", err)
	}
	_, err = c.invoke(ctx,
		"lambda", "update-function-configuration",
		"--function-name", string(fn),
		"--environment", string(env),
	)
	return err
}

// GetCodeLocation returns the pre-signed URL for a function's code artifact,
// optionally at a specific version.  The URL is single-use and short-lived.
//
// Errors:
//
//    - lamctl-error-provider -- when the provider CLI fails
//    - lamctl-error-parse -- when the provider response carries no code location
func (c *Client) GetCodeLocation(ctx context.Context, fn lamapi.FunctionName, version lamapi.Version) (lamapi.CodeLocation, error) {
	args := qualified([]string{
		"lambda", "get-function",
		"--function-name", string(fn),
	}, version)
	out, err := c.invoke(ctx, args...)
	if err != nil {
		return "", err
	}
	var resp struct {
		Code struct {
			Location string `json:"Location"`
		} `json:"Code"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return "", lamapi.ErrorParse("decoding get-function response", err)
	}
	if resp.Code.Location == "" {
		return "", lamapi.ErrorParse("decoding get-function response",
			fmt.Errorf("no code location for function %q", fn))
	}
	return lamapi.CodeLocation(resp.Code.Location), nil
}

// PublishVersion publishes the current head of a function as an immutable
// version and returns the new version identifier.
//
// Errors:
//
//    - lamctl-error-provider -- when the provider CLI fails
//    - lamctl-error-parse -- when the provider response carries no version
func (c *Client) PublishVersion(ctx context.Context, fn lamapi.FunctionName, description string) (lamapi.Version, error) {
	out, err := c.invoke(ctx,
		"lambda", "publish-version",
		"--function-name", string(fn),
		"--description", description,
	)
	if err != nil {
		return "", err
	}
	var resp struct {
		Version string `json:"Version"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return "", lamapi.ErrorParse("decoding publish-version response", err)
	}
	if resp.Version == "" {
		return "", lamapi.ErrorParse("decoding publish-version response",
			fmt.Errorf("no version in response for function %q", fn))
	}
	return lamapi.Version(resp.Version), nil
}

// UpdateFunctionCode uploads a local zip artifact as the new head code of a
// function.
//
// Errors:
//
//    - lamctl-error-provider -- when the provider CLI fails
func (c *Client) UpdateFunctionCode(ctx context.Context, fn lamapi.FunctionName, zipPath string) error {
	_, err := c.invoke(ctx,
		"lambda", "update-function-code",
		"--function-name", string(fn),
		"--zip-file", "fileb://"+zipPath,
	)
	return err
}

// UpdateFunctionCodeFromS3 points the new head code of a function at a
// staged artifact in an S3 bucket, avoiding a per-function upload of the
// zip bytes.
//
// Errors:
//
//    - lamctl-error-provider -- when the provider CLI fails
func (c *Client) UpdateFunctionCodeFromS3(ctx context.Context, fn lamapi.FunctionName, bucket, key string) error {
	_, err := c.invoke(ctx,
		"lambda", "update-function-code",
		"--function-name", string(fn),
		"--s3-bucket", bucket,
		"--s3-key", key,
	)
	return err
}

// ListVersions returns every version record of a function, in provider
// order, following pagination markers.  The listing includes the head
// pseudo-version; callers that want releases only should run the result
// through lamapi.OrderReleases.
//
// Errors:
//
//    - lamctl-error-provider -- when the provider CLI fails
//    - lamctl-error-parse -- when a provider response page is not the expected JSON
func (c *Client) ListVersions(ctx context.Context, fn lamapi.FunctionName) ([]lamapi.VersionInfo, error) {
	var all []lamapi.VersionInfo
	marker := ""
	for {
		args := []string{
			"lambda", "list-versions-by-function",
			"--function-name", string(fn),
		}
		if marker != "" {
			args = append(args, "--marker", marker)
		}
		out, err := c.invoke(ctx, args...)
		if err != nil {
			return nil, err
		}
		var resp struct {
			Versions []struct {
				Version      string `json:"Version"`
				Description  string `json:"Description"`
				LastModified string `json:"LastModified"`
			} `json:"Versions"`
			NextMarker string `json:"NextMarker"`
		}
		if err := json.Unmarshal(out, &resp); err != nil {
			return nil, lamapi.ErrorParse("decoding version listing", err)
		}
		for _, v := range resp.Versions {
			modified, err := parseLastModified(v.LastModified)
			if err != nil {
				return nil, lamapi.ErrorParse("decoding version timestamp", err)
			}
			all = append(all, lamapi.VersionInfo{
				Version:      lamapi.Version(v.Version),
				Description:  v.Description,
				LastModified: modified,
			})
		}
		if resp.NextMarker == "" {
			return all, nil
		}
		marker = resp.NextMarker
	}
}

// LatestVersion returns the most recently published version of a function.
// The head pseudo-version never qualifies.
//
// Errors:
//
//    - lamctl-error-provider -- when the provider CLI fails
//    - lamctl-error-parse -- when a provider response page is not the expected JSON
//    - lamctl-error-missing -- when the function has no published versions
func (c *Client) LatestVersion(ctx context.Context, fn lamapi.FunctionName) (lamapi.Version, error) {
	versions, err := c.ListVersions(ctx, fn)
	if err != nil {
		return "", err
	}
	latest := lamapi.LatestRelease(versions)
	if latest == "" {
		return "", serum.Error(lamapi.ECodeMissing,
			serum.WithMessageTemplate("function {{function|q}} has no published versions"),
			serum.WithDetail("function", string(fn)),
		)
	}
	return latest, nil
}
