package observer

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/sse"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var occurredAt = time.Date(2025, 11, 30, 9, 0, 0, 0, time.UTC)

func approvedEvent() audit.Event {
	return audit.NewEvent(audit.ActionPayrollApproved, audit.EntityPayrollRecord, "p-1", "manager", occurredAt).
		With("period", "2025-11")
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "payroll", Topic(audit.ActionPayrollApproved))
	assert.Equal(t, "leave", Topic(audit.ActionLeaveOverlapCheckFailed))
	assert.Equal(t, "nodot", Topic(audit.Action("nodot")))
}

func TestLogger_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger.Record(approvedEvent())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "audit event", line["msg"])
	assert.Equal(t, "payroll.approved", line["action"])
	assert.Equal(t, "p-1", line["entity_id"])
	assert.Equal(t, "manager", line["actor_id"])
	attrs, ok := line["attributes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2025-11", attrs["period"])
}

func TestLogger_FailuresAreWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger.Record(audit.NewEvent(audit.ActionPayrollGenerateFailed, audit.EntityPayrollPeriod, "2025-11", "", occurredAt))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.NotContains(t, line, "actor_id")
}

func TestMetrics_CountsByAction(t *testing.T) {
	metrics := NewMetrics()
	registry := prometheus.NewPedanticRegistry()
	require.NoError(t, registry.Register(metrics))

	metrics.Record(approvedEvent())
	metrics.Record(approvedEvent())
	metrics.Record(audit.NewEvent(audit.ActionLeaveOverlapCheckFailed, audit.EntityLeaveRequest, "", "e-1", occurredAt))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.events.WithLabelValues("payroll", "payroll.approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.failures.WithLabelValues("leave.overlap_check_failed")))
	assert.Equal(t, float64(occurredAt.Unix()), testutil.ToFloat64(metrics.lastEventTime.WithLabelValues("payroll")))
	assert.Equal(t, 5, testutil.CollectAndCount(metrics))
}

func TestBroadcaster_PublishesToTopic(t *testing.T) {
	hub := sse.NewHub()
	ch, cleanup := hub.Subscribe("payroll")
	defer cleanup()

	NewBroadcaster(hub).Record(approvedEvent())

	require.Len(t, ch, 1)
	got := <-ch
	assert.Equal(t, "payroll", got.Topic)
	assert.Equal(t, "payroll.approved", got.Event)
	event, ok := got.Data.(audit.Event)
	require.True(t, ok)
	assert.Equal(t, "p-1", event.EntityID)
}

func TestMulti_FansOut(t *testing.T) {
	var seen []audit.Action
	collect := audit.ObserverFunc(func(e audit.Event) { seen = append(seen, e.Action) })

	audit.Multi{collect, audit.Nop, collect}.Record(approvedEvent())

	assert.Equal(t, []audit.Action{audit.ActionPayrollApproved, audit.ActionPayrollApproved}, seen)
}
