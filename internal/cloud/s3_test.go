package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestArchiveReadings(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	putter := &fakePutter{}
	a := newS3Archive(putter, "bucket")
	a.now = func() time.Time { return at }

	readings := []domain.Reading{{ID: 1, SensorID: 3, DataType: "C", Value: 21.5, Timestamp: "2025-01-01T00:00:00"}}
	require.NoError(t, a.ArchiveReadings(context.Background(), 3, "delete_sensor", readings))

	require.Len(t, putter.inputs, 1)
	in := putter.inputs[0]
	assert.Equal(t, "bucket", aws.ToString(in.Bucket))
	assert.Equal(t, ArchiveKey(3, at), aws.ToString(in.Key))
	assert.Equal(t, "application/json", aws.ToString(in.ContentType))

	var doc archiveDocument
	require.NoError(t, json.Unmarshal(putter.bodies[0], &doc))
	assert.Equal(t, int64(3), doc.SensorID)
	assert.Equal(t, "delete_sensor", doc.Reason)
	assert.Equal(t, "2025-01-02T03:04:05", doc.ArchivedAt)
	assert.Equal(t, readings, doc.Readings)
}

func TestArchiveReadingsUploadError(t *testing.T) {
	a := newS3Archive(&fakePutter{err: errors.New("denied")}, "bucket")
	err := a.ArchiveReadings(context.Background(), 1, "delete_sensor", nil)
	assert.ErrorContains(t, err, "denied")
}

func TestArchiveKey(t *testing.T) {
	at := time.Unix(0, 1735689600000000000)
	assert.Equal(t, "readings/sensor-9/1735689600000000000.json", ArchiveKey(9, at))
}
