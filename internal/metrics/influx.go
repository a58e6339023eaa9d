// Package metrics writes per-run spot statistics to an InfluxDB 1.x instance.
package metrics

import (
	"fmt"
	"time"

	client "github.com/influxdata/influxdb1-client/v2"

	"spotcheck/internal/config"
	"spotcheck/internal/result"
)

// Measurement is the time-series measurement written once per analysis run.
const Measurement = "image_analysis"

// Client wraps one InfluxDB connection with an explicit lifecycle. Construct
// it per run and Close it when the run ends.
type Client struct {
	conn     client.Client
	database string
	userTag  string
}

// New connects to the InfluxDB instance described by cfg.
func New(cfg config.Influx) (*Client, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	conn, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:    fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create influx client: %w", err)
	}
	return &Client{conn: conn, database: cfg.Database, userTag: cfg.UserTag}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// RunPoint builds the tag and field sets for one analysis run.
func RunPoint(rec *result.Record, user string) (map[string]string, map[string]interface{}) {
	tags := map[string]string{"user": user}
	fields := map[string]interface{}{
		"position_x": rec.Position.Actual[0],
		"position_y": rec.Position.Actual[1],
		"std_dev":    rec.Std.Actual,
		"variance":   rec.Dispersion.Actual,
	}
	return tags, fields
}

// SendRunMetrics writes the fixed per-run point for rec.
func (c *Client) SendRunMetrics(rec *result.Record) error {
	tags, fields := RunPoint(rec, c.userTag)
	return c.WritePoint(Measurement, tags, fields)
}

// WritePoint is the generic passthrough for arbitrary measurements.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) error {
	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  c.database,
		Precision: "s",
	})
	if err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}

	pt, err := client.NewPoint(measurement, tags, fields, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create point: %w", err)
	}
	bp.AddPoint(pt)

	if err := c.conn.Write(bp); err != nil {
		return fmt.Errorf("failed to write to influxdb: %w", err)
	}
	return nil
}

// Query is the generic read passthrough.
func (c *Client) Query(q string) (*client.Response, error) {
	resp, err := c.conn.Query(client.NewQuery(q, c.database, ""))
	if err != nil {
		return nil, fmt.Errorf("influx query failed: %w", err)
	}
	if resp.Error() != nil {
		return nil, fmt.Errorf("influx query failed: %w", resp.Error())
	}
	return resp, nil
}
