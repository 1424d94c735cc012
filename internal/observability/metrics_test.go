package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Observe("get_file_data", "ok", time.Now())
	m.Observe("get_file_data", "ok", time.Now())
	m.Observe("get_file_data", "not_found", time.Now())
	m.AddBytesRead(10)
	m.AddBytesWritten(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations().WithLabelValues("get_file_data", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations().WithLabelValues("get_file_data", "not_found")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.BytesRead()))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.BytesWritten()))

	expected := `
# HELP fileservice_bytes_written_total Total bytes written as file content
# TYPE fileservice_bytes_written_total counter
fileservice_bytes_written_total 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "fileservice_bytes_written_total"))

	count, err := testutil.GatherAndCount(reg, "fileservice_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Observe("list_files", "ok", time.Now())
		m.AddBytesRead(1)
		m.AddBytesWritten(1)
	})
}

func TestMetrics_Unregistered(t *testing.T) {
	m := NewMetrics(nil)
	m.AddBytesRead(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.BytesRead()))
}

func TestSpan_WithoutClient(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "fileservice.test")
	require.NotNil(t, ctx)
	assert.NotPanics(t, func() {
		span.SetData("name", "a.txt")
		span.Fail()
		span.End()
	})

	var nilSpan *Span
	assert.NotPanics(t, func() {
		nilSpan.SetData("k", "v")
		nilSpan.Fail()
		nilSpan.End()
	})
}
