package metrics

import (
	"fmt"
	"time"
)

var (
	latencyBuckets = []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120}

	OutboundMessagesTotal = Collector.Counter("linguabot_outbound_messages_total", "Text chunks sent to chats", "")
	MirroredMessagesTotal = Collector.Counter("linguabot_mirrored_messages_total", "Chunks mirrored to the operator chat", "")
	HandlerErrorsTotal    = Collector.Counter("linguabot_handler_errors_total", "Errors reaching the outer webhook handler", "")
	InflightRequests      = Collector.Gauge("linguabot_inflight_requests", "Webhook requests currently being processed", "")

	LLMLatency     = Collector.Histogram("linguabot_llm_latency_seconds", "LLM request latency in seconds", "", latencyBuckets)
	RequestLatency = Collector.Histogram("linguabot_request_latency_seconds", "End-to-end webhook processing time in seconds", "", latencyBuckets)
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Update counts one classified inbound event.
func Update(kind string) {
	Collector.Counter("linguabot_updates_total", "Inbound updates by payload kind",
		fmt.Sprintf("kind=%q", kind)).Inc()
}

// LLMRequest records one backend completion call.
func LLMRequest(provider, purpose string, d time.Duration, err error) {
	labels := fmt.Sprintf("provider=%q,purpose=%q", provider, purpose)
	Collector.Counter("linguabot_llm_requests_total", "LLM completion requests", labels).Inc()
	if err != nil {
		Collector.Counter("linguabot_llm_errors_total", "Failed LLM completion requests", labels).Inc()
	}
	LLMLatency.Observe(d.Seconds())
}

func Transcription(err error) {
	Collector.Counter("linguabot_transcriptions_total", "Speech-to-text requests",
		fmt.Sprintf("result=%q", result(err))).Inc()
}

func Transcode(err error) {
	Collector.Counter("linguabot_transcodes_total", "ffmpeg transcode runs",
		fmt.Sprintf("result=%q", result(err))).Inc()
}
