package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordUpload(t *testing.T) {
	uploads := testutil.ToFloat64(Uploads)
	bytes := testutil.ToFloat64(UploadBytes)

	RecordUpload(2048)

	assert.Equal(t, uploads+1, testutil.ToFloat64(Uploads))
	assert.Equal(t, bytes+2048, testutil.ToFloat64(UploadBytes))
}

func TestRecordUploadFailure(t *testing.T) {
	before := testutil.ToFloat64(UploadFailures.WithLabelValues(StageLog))

	RecordUploadFailure(StageLog)

	assert.Equal(t, before+1, testutil.ToFloat64(UploadFailures.WithLabelValues(StageLog)))
}
