package llm

import (
	"log/slog"
)

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	Task         TaskType
	Model        string
	Attempts     int
	LatencyMs    int64
	InputTokens  int
	OutputTokens int
	Success      bool
	ErrorCode    string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes LLM call events to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to logger, or to
// slog.Default when logger is nil.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	attrs := []any{
		"task", event.Task,
		"model", event.Model,
		"attempts", event.Attempts,
		"latency_ms", event.LatencyMs,
		"input_tokens", event.InputTokens,
		"output_tokens", event.OutputTokens,
	}
	if !event.Success {
		o.logger.Warn("llm_call", append(attrs, "error_code", event.ErrorCode)...)
		return
	}
	o.logger.Info("llm_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}

// CallCounter counts finished calls by task and result code.
type CallCounter interface {
	ObserveLLMCall(task, code string)
}

type counterObserver struct {
	counter CallCounter
}

// NewCounterObserver reports each call to counter under its error code,
// or "ok" when it succeeded.
func NewCounterObserver(counter CallCounter) Observer {
	return counterObserver{counter: counter}
}

func (o counterObserver) OnCallComplete(event LLMCallEvent) {
	code := "ok"
	if !event.Success {
		code = event.ErrorCode
	}
	o.counter.ObserveLLMCall(string(event.Task), code)
}

type multiObserver []Observer

func (m multiObserver) OnCallComplete(event LLMCallEvent) {
	for _, o := range m {
		o.OnCallComplete(event)
	}
}

// MultiObserver fans events out to every non-nil observer.
func MultiObserver(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return NoopObserver{}
	}
	return out
}
