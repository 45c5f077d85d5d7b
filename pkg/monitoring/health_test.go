package monitoring

import (
	"testing"
)

func TestHealthChecker_Basic(t *testing.T) {
	hc := NewHealthChecker("svc", "v1")
	hc.AddCheck("ok", func() CheckResult { return CheckResult{Status: "healthy"} })
	status := hc.CheckHealth()
	if status.Status != "healthy" {
		t.Fatalf("expected healthy")
	}
}

func TestHealthChecker_Aggregation(t *testing.T) {
	hc := NewHealthChecker("svc", "v1")
	hc.AddCheck("ok", func() CheckResult { return CheckResult{Status: StatusHealthy} })
	hc.AddCheck("slow", func() CheckResult { return CheckResult{Status: StatusDegraded} })
	if got := hc.CheckHealth().Status; got != StatusDegraded {
		t.Fatalf("expected degraded, got %q", got)
	}

	hc.AddCheck("down", func() CheckResult { return CheckResult{Status: StatusUnhealthy} })
	if got := hc.CheckHealth().Status; got != StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %q", got)
	}
}

func TestConfigurationHealthCheck(t *testing.T) {
	res := ConfigurationHealthCheck(map[string]string{"A": "set", "B": ""})()
	if res.Status != "unhealthy" {
		t.Fatalf("expected unhealthy for missing config, got %q", res.Status)
	}

	res = ConfigurationHealthCheck(map[string]string{"A": "set"})()
	if res.Status != "healthy" {
		t.Fatalf("expected healthy, got %q", res.Status)
	}
}

func TestKafkaProducerHealthCheck_NilClient(t *testing.T) {
	res := KafkaProducerHealthCheck(nil)()
	if res.Status != "unhealthy" {
		t.Fatalf("expected unhealthy for nil client, got %q", res.Status)
	}
}
