package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordEventParsed(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.EventsParsed.WithLabelValues("9901"))

	RecordEventParsed("9901")
	RecordEventParsed("9901")

	after := testutil.ToFloat64(DefaultMetrics.EventsParsed.WithLabelValues("9901"))
	if after-before != 2 {
		t.Errorf("expected 2 parsed events recorded, got %v", after-before)
	}
}

func TestRecordDBQuery(t *testing.T) {
	errsBefore := testutil.ToFloat64(DefaultMetrics.DBQueryErrors.WithLabelValues("order_params_put"))

	RecordDBQuery("order_params_put", 0.01, nil)
	RecordDBQuery("order_params_put", 0.02, errors.New("connection reset"))

	errsAfter := testutil.ToFloat64(DefaultMetrics.DBQueryErrors.WithLabelValues("order_params_put"))
	if errsAfter-errsBefore != 1 {
		t.Errorf("expected 1 query error recorded, got %v", errsAfter-errsBefore)
	}

	if testutil.CollectAndCount(DefaultMetrics.DBQueryDuration) == 0 {
		t.Error("expected query durations to be observed")
	}
}

func TestRecordTaprootFailureCountsAsReject(t *testing.T) {
	failuresBefore := testutil.ToFloat64(DefaultMetrics.TaprootFailures)
	rejectsBefore := testutil.ToFloat64(DefaultMetrics.ParseRejects.WithLabelValues("9901", "taproot_mismatch"))

	RecordTaprootFailure("9901")

	if got := testutil.ToFloat64(DefaultMetrics.TaprootFailures) - failuresBefore; got != 1 {
		t.Errorf("expected 1 taproot failure, got %v", got)
	}
	if got := testutil.ToFloat64(DefaultMetrics.ParseRejects.WithLabelValues("9901", "taproot_mismatch")) - rejectsBefore; got != 1 {
		t.Errorf("expected the failure to count as a reject, got %v", got)
	}
}
