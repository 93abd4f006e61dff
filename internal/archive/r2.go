package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Archive writes raw external-call payloads (generation responses, publish
// requests/responses) to R2-compatible object storage as a secondary audit
// trail next to the JSONB columns. Entirely optional: when the R2 env vars
// are absent the agents simply run without it.
type Archive struct {
	client *s3.Client
	bucket string
}

// NewFromEnv returns (nil, nil) when R2 is not configured.
func NewFromEnv(ctx context.Context) (*Archive, error) {
	endpoint := os.Getenv("R2_ENDPOINT")
	accessKey := os.Getenv("R2_ACCESS_KEY")
	secretKey := os.Getenv("R2_SECRET_KEY")
	bucket := os.Getenv("R2_BUCKET_NAME")

	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
		awsconfig.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					if service == s3.ServiceID {
						return aws.Endpoint{
							URL:           endpoint,
							SigningRegion: "auto",
						}, nil
					}
					return aws.Endpoint{}, &aws.EndpointNotFoundError{}
				},
			),
		),
	)
	if err != nil {
		return nil, err
	}

	return &Archive{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// StorePayload writes one JSON payload under kind/date/id-uuid.json and
// returns the object key.
func (a *Archive) StorePayload(ctx context.Context, kind string, recordID int64, payload []byte) (string, error) {
	key := fmt.Sprintf("%s/%s/%d-%s.json",
		kind,
		time.Now().UTC().Format("2006-01-02"),
		recordID,
		uuid.New().String(),
	)

	contentType := "application/json"
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &key,
		Body:        bytes.NewReader(payload),
		ContentType: &contentType,
	})
	if err != nil {
		return "", err
	}
	return key, nil
}
