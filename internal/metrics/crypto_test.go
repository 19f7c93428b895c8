package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the Prometheus output contains a metric
// matching the given name, partial label pattern, and value. Uses regex to
// handle extra OTel scope labels injected by the Prometheus exporter.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewCryptoMetrics(t *testing.T) {
	t.Run("Success_CreateCryptoMetrics", func(t *testing.T) {
		provider, err := NewProvider("bluebirdhub_test")
		require.NoError(t, err)

		cryptoMetrics, err := NewCryptoMetrics(provider.MeterProvider(), "bluebirdhub_test")

		require.NoError(t, err)
		assert.NotNil(t, cryptoMetrics)
	})
}

func TestCryptoMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("bluebirdhub_test")
	require.NoError(t, err)

	cm, err := NewCryptoMetrics(provider.MeterProvider(), "bluebirdhub_test")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulOperation", func(t *testing.T) {
		cm.RecordOperation(context.Background(), "encrypt", "workspace", "success")
	})

	t.Run("Success_RecordFailedOperation", func(t *testing.T) {
		cm.RecordOperation(context.Background(), "decrypt", "workspace", "error")
	})

	t.Run("Success_RecordMultipleEntityTypes", func(t *testing.T) {
		cm.RecordOperation(context.Background(), "encrypt", "task", "success")
		cm.RecordOperation(context.Background(), "encrypt", "file_content", "success")
		cm.RecordOperation(context.Background(), "key_generate", "", "success")
	})
}

func TestCryptoMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider("bluebirdhub_test")
	require.NoError(t, err)

	cm, err := NewCryptoMetrics(provider.MeterProvider(), "bluebirdhub_test")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulDuration", func(t *testing.T) {
		cm.RecordDuration(context.Background(), "encrypt", "workspace", 12*time.Millisecond, "success")
	})

	t.Run("Success_RecordFailedDuration", func(t *testing.T) {
		cm.RecordDuration(context.Background(), "decrypt", "workspace", 34*time.Millisecond, "error")
	})
}

func TestNewNoOpCryptoMetrics(t *testing.T) {
	noOpMetrics := NewNoOpCryptoMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpCryptoMetrics{}, noOpMetrics)

	t.Run("NoOp_RecordOperationDoesNotPanic", func(t *testing.T) {
		noOpMetrics.RecordOperation(context.Background(), "encrypt", "workspace", "success")
		noOpMetrics.RecordOperation(context.Background(), "decrypt", "task", "error")
	})

	t.Run("NoOp_RecordDurationDoesNotPanic", func(t *testing.T) {
		noOpMetrics.RecordDuration(context.Background(), "encrypt", "workspace", 100*time.Millisecond, "success")
		noOpMetrics.RecordDuration(context.Background(), "decrypt", "task", 200*time.Millisecond, "error")
	})
}

func TestCryptoMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	cm, err := NewCryptoMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()

	cm.RecordOperation(ctx, "encrypt", "workspace", "success")
	cm.RecordOperation(ctx, "encrypt", "workspace", "success")
	cm.RecordOperation(ctx, "encrypt", "workspace", "error")
	cm.RecordOperation(ctx, "decrypt", "task", "success")
	cm.RecordOperation(ctx, "encrypt", "file_content", "success")

	cm.RecordDuration(ctx, "encrypt", "workspace", 50*time.Millisecond, "success")
	cm.RecordDuration(ctx, "encrypt", "workspace", 60*time.Millisecond, "success")
	cm.RecordDuration(ctx, "encrypt", "workspace", 100*time.Millisecond, "error")
	cm.RecordDuration(ctx, "decrypt", "task", 10*time.Millisecond, "success")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	assertMetricLine(
		t,
		output,
		`integration_test_crypto_operations_total`,
		`action="encrypt".*entity_type="workspace".*status="success"`,
		`2`,
	)
	assertMetricLine(
		t,
		output,
		`integration_test_crypto_operations_total`,
		`action="encrypt".*entity_type="workspace".*status="error"`,
		`1`,
	)
	assertMetricLine(
		t,
		output,
		`integration_test_crypto_operations_total`,
		`action="decrypt".*entity_type="task".*status="success"`,
		`1`,
	)

	assertMetricLine(
		t,
		output,
		`integration_test_crypto_operation_duration_seconds_count`,
		`action="encrypt".*entity_type="workspace".*status="success"`,
		`2`,
	)
	assertMetricLine(
		t,
		output,
		`integration_test_crypto_operation_duration_seconds_sum`,
		`action="encrypt".*entity_type="workspace".*status="success"`,
		``,
	)
}
