package metrics

import (
	"testing"

	"spotcheck/internal/config"
	"spotcheck/internal/result"
)

func TestRunPointShape(t *testing.T) {
	rec := &result.Record{}
	rec.Position.Actual = [2]int{10, 7}
	rec.Std.Actual = 12.5
	rec.Dispersion.Actual = 156.25

	tags, fields := RunPoint(rec, "example")

	if tags["user"] != "example" {
		t.Fatalf("expected user tag, got %v", tags)
	}
	if len(tags) != 1 {
		t.Fatalf("unexpected extra tags: %v", tags)
	}

	if fields["position_x"] != 10 || fields["position_y"] != 7 {
		t.Fatalf("unexpected position fields: %v", fields)
	}
	if fields["std_dev"] != 12.5 || fields["variance"] != 156.25 {
		t.Fatalf("unexpected dispersion fields: %v", fields)
	}
	if len(fields) != 4 {
		t.Fatalf("expected exactly 4 fields, got %v", fields)
	}
}

func TestNewAndClose(t *testing.T) {
	c, err := New(config.Influx{
		Host:           "localhost",
		Port:           8086,
		Database:       "test.db",
		UserTag:        "example",
		TimeoutSeconds: 1,
	})
	if err != nil {
		t.Fatalf("client construction should not dial: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	var nilClient *Client
	if err := nilClient.Close(); err != nil {
		t.Fatalf("nil close should be a no-op: %v", err)
	}
}
