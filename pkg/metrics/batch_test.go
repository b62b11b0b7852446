package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestBatchMetricsExport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBatchMetrics(reg)

	m.IncBatchCreated("success")
	m.AddCodesGenerated(2520)
	m.IncExportFailure("manifest")
	m.ObserveGeneration(120 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "batches_created_total", "outcome", "success"); err != nil {
		t.Fatalf("fetch batches: %v", err)
	} else if got != 1 {
		t.Fatalf("expected batches=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "codes_generated_total", "", ""); err != nil {
		t.Fatalf("fetch codes: %v", err)
	} else if got != 2520 {
		t.Fatalf("expected codes=2520, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "export_artifact_failures_total", "kind", "manifest"); err != nil {
		t.Fatalf("fetch export failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *BatchMetrics
	m.IncBatchCreated("success")
	m.AddCodesGenerated(10)
	m.IncExportFailure("report")
	m.ObserveGeneration(time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, labelName, labelValue string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if labelName == "" {
				return metric.GetCounter().GetValue(), nil
			}
			for _, label := range metric.GetLabel() {
				if label.GetName() == labelName && label.GetValue() == labelValue {
					return metric.GetCounter().GetValue(), nil
				}
			}
		}
	}
	return 0, fmt.Errorf("metric %s{%s=%q} not found", name, labelName, labelValue)
}
