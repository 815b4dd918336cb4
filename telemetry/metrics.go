// Package telemetry pushes custom metrics to Google Cloud Monitoring.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3"
	"google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/genproto/googleapis/api/monitoredres"
	monitoringpb "google.golang.org/genproto/googleapis/monitoring/v3"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/shreshta-sdc/shreshta-server/constants"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

// MetricsClient wraps the Cloud Monitoring client. A client that
// fails to initialize degrades to a no-op so metrics never take the
// server down.
type MetricsClient struct {
	client    *monitoring.MetricClient
	projectID string
	enabled   bool
}

// NewMetricsClient creates a metrics client for the given project.
func NewMetricsClient(projectID string) *MetricsClient {
	if projectID == "" {
		utils.Warn("Project ID not provided, telemetry disabled")
		return &MetricsClient{enabled: false}
	}

	if err := setupGoogleCloudCredentials(); err != nil {
		utils.Warn("Failed to setup Google Cloud credentials: %v", err)
		utils.Warn("Telemetry disabled - ensure Firebase credentials are available")
		return &MetricsClient{enabled: false}
	}

	client, err := monitoring.NewMetricClient(context.Background())
	if err != nil {
		utils.Warn("Failed to create monitoring client: %v", err)
		utils.Warn("Telemetry disabled")
		return &MetricsClient{enabled: false}
	}

	utils.Info("Google Cloud Monitoring telemetry enabled for project: %s", projectID)
	return &MetricsClient{
		client:    client,
		projectID: projectID,
		enabled:   true,
	}
}

// SendRegistrationMetric records one registration attempt.
func (m *MetricsClient) SendRegistrationMetric(eventID string, success bool) {
	if !m.enabled {
		return
	}

	ctx := context.Background()
	now := &timestamppb.Timestamp{Seconds: time.Now().Unix()}

	if err := m.sendLabeledMetric(ctx, "shreshta/registrations/submitted", 1.0, now, map[string]string{
		"event":   eventID,
		"success": fmt.Sprintf("%t", success),
	}); err != nil {
		utils.Warn("Failed to send registration metric: %v", err)
		return
	}

	utils.Debug("Registration metric sent: %s (success: %t)", eventID, success)
}

// SendReconciliationMetric records one scan-and-commit cycle.
func (m *MetricsClient) SendReconciliationMetric(totalPending, matched, committed, failed int) {
	if !m.enabled {
		return
	}

	ctx := context.Background()
	now := &timestamppb.Timestamp{Seconds: time.Now().Unix()}

	metrics := map[string]float64{
		"shreshta/reconciliation/pending":   float64(totalPending),
		"shreshta/reconciliation/matched":   float64(matched),
		"shreshta/reconciliation/committed": float64(committed),
		"shreshta/reconciliation/failed":    float64(failed),
	}
	for metricType, value := range metrics {
		if err := m.sendCustomMetric(ctx, metricType, value, now); err != nil {
			utils.Warn("Failed to send reconciliation metric %s: %v", metricType, err)
		}
	}

	utils.Debug("Reconciliation metrics sent (pending: %d, matched: %d)", totalPending, matched)
}

// SendStatsMetric pushes the dashboard counters.
func (m *MetricsClient) SendStatsMetric(total, pending, verified int) {
	if !m.enabled {
		return
	}

	ctx := context.Background()
	now := &timestamppb.Timestamp{Seconds: time.Now().Unix()}

	if err := m.sendCustomMetric(ctx, "shreshta/registrations/total", float64(total), now); err != nil {
		utils.Warn("Failed to send total metric: %v", err)
	}
	if err := m.sendCustomMetric(ctx, "shreshta/registrations/pending", float64(pending), now); err != nil {
		utils.Warn("Failed to send pending metric: %v", err)
	}
	if err := m.sendCustomMetric(ctx, "shreshta/registrations/verified", float64(verified), now); err != nil {
		utils.Warn("Failed to send verified metric: %v", err)
	}
}

// SendPerformanceMetric records one operation's latency and outcome.
func (m *MetricsClient) SendPerformanceMetric(operation string, duration time.Duration, success bool) {
	if !m.enabled {
		return
	}

	ctx := context.Background()
	now := &timestamppb.Timestamp{Seconds: time.Now().Unix()}

	if err := m.sendLabeledMetric(ctx, "shreshta/performance/duration", duration.Seconds(), now, map[string]string{
		"operation": operation,
		"success":   fmt.Sprintf("%t", success),
	}); err != nil {
		utils.Warn("Failed to send performance duration metric: %v", err)
	}
}

func (m *MetricsClient) sendCustomMetric(ctx context.Context, metricType string, value float64, timestamp *timestamppb.Timestamp) error {
	return m.sendLabeledMetric(ctx, metricType, value, timestamp, nil)
}

func (m *MetricsClient) sendLabeledMetric(ctx context.Context, metricType string, value float64, timestamp *timestamppb.Timestamp, labels map[string]string) error {
	if labels == nil {
		labels = make(map[string]string)
	}

	req := &monitoringpb.CreateTimeSeriesRequest{
		Name: fmt.Sprintf("projects/%s", m.projectID),
		TimeSeries: []*monitoringpb.TimeSeries{
			{
				Metric: &metric.Metric{
					Type:   fmt.Sprintf("custom.googleapis.com/%s", metricType),
					Labels: labels,
				},
				Resource: &monitoredres.MonitoredResource{
					Type: "generic_task",
					Labels: map[string]string{
						"project_id": m.projectID,
						"location":   "global",
						"namespace":  constants.TelemetryNamespace,
						"job":        constants.TelemetryJobName,
						"task_id":    constants.TelemetryTaskID,
					},
				},
				Points: []*monitoringpb.Point{
					{
						Interval: &monitoringpb.TimeInterval{
							EndTime: timestamp,
						},
						Value: &monitoringpb.TypedValue{
							Value: &monitoringpb.TypedValue_DoubleValue{
								DoubleValue: value,
							},
						},
					},
				},
			},
		},
	}

	return m.client.CreateTimeSeries(ctx, req)
}

// Close releases the monitoring client.
func (m *MetricsClient) Close() error {
	if !m.enabled || m.client == nil {
		return nil
	}
	return m.client.Close()
}

// setupGoogleCloudCredentials exposes the Firebase service account to
// the monitoring client, which only reads credentials from a file.
func setupGoogleCloudCredentials() error {
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		return nil
	}

	firebaseCredentials := os.Getenv(constants.EnvFirebaseCredentials)
	if firebaseCredentials == "" {
		return fmt.Errorf("neither GOOGLE_APPLICATION_CREDENTIALS nor %s is set", constants.EnvFirebaseCredentials)
	}

	credFile := filepath.Join(os.TempDir(), constants.TelemetryCredentialsFile)
	err := os.WriteFile(credFile, []byte(firebaseCredentials), constants.TelemetryFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to write temporary credentials file: %v", err)
	}

	os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", credFile)

	utils.Debug("Created temporary Google Cloud credentials file: %s", credFile)
	return nil
}
