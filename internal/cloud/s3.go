package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
)

// objectPutter is the part of *s3.Client the archive needs.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive writes batches of readings to an S3 bucket as JSON documents.
type S3Archive struct {
	svc    objectPutter
	bucket string
	now    func() time.Time
}

// NewS3Archive loads the default AWS credential chain for region.
func NewS3Archive(ctx context.Context, region, bucket string) (*S3Archive, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return newS3Archive(s3.NewFromConfig(cfg), bucket), nil
}

func newS3Archive(svc objectPutter, bucket string) *S3Archive {
	return &S3Archive{svc: svc, bucket: bucket, now: time.Now}
}

type archiveDocument struct {
	SensorID   int64            `json:"sensor_id"`
	ArchivedAt string           `json:"archived_at"`
	Reason     string           `json:"reason"`
	Readings   []domain.Reading `json:"readings"`
}

// ArchiveKey is the object key used for one archive batch.
func ArchiveKey(sensorID int64, at time.Time) string {
	return fmt.Sprintf("readings/sensor-%d/%d.json", sensorID, at.UnixNano())
}

func (a *S3Archive) ArchiveReadings(ctx context.Context, sensorID int64, reason string, readings []domain.Reading) error {
	at := a.now().UTC()
	body, err := json.Marshal(archiveDocument{
		SensorID:   sensorID,
		ArchivedAt: domain.FormatTimestamp(at),
		Reason:     reason,
		Readings:   readings,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal archive: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(ArchiveKey(sensorID, at)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"sensor-id":   fmt.Sprintf("%d", sensorID),
			"uploaded-at": at.Format(time.RFC3339),
		},
	}
	if _, err := a.svc.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload archive: %w", err)
	}
	return nil
}
