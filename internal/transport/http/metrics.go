package httptransport

import "expvar"

var (
	metricSessionOpenTotal   = expvar.NewInt("session_open_total")
	metricSessionCloseTotal  = expvar.NewInt("session_close_total")
	metricSessionCloseErrors = expvar.NewInt("session_close_errors_total")

	metricEventApplyTotal  = expvar.NewInt("event_apply_total")
	metricEventApplyErrors = expvar.NewInt("event_apply_errors_total")
	metricLateEventTotal   = expvar.NewInt("late_event_total")

	metricReportFinalizeTotal    = expvar.NewInt("report_finalize_total")
	metricCheckpointCaptureTotal = expvar.NewInt("checkpoint_capture_total")

	metricContentionTotal = expvar.NewInt("contention_total")
)
