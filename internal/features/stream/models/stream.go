package models

import "time"

// Streamer states reported in the streamer:status hash.
const (
	StateRunning  = "running"
	StateStopped  = "stopped"
	StateStarting = "starting"
	StateError    = "error"
)

// Control commands accepted by the streamer.
const (
	CommandStart   = "start"
	CommandStop    = "stop"
	CommandRestart = "restart"
)

// Status is the streamer state mirrored from Redis.
// @Description Current broadcast status
type Status struct {
	State        string    `json:"state" example:"running" enums:"running,stopped,starting,error"`
	CurrentTrack string    `json:"current_track,omitempty" example:"https://cdn.example.com/media/intro.mp4"`
	StartedAt    time.Time `json:"started_at,omitempty" example:"2024-03-15T14:30:00Z"`
	LastError    string    `json:"last_error,omitempty"`
	// Uptime of the current session, derived from StartedAt.
	UptimeSeconds float64 `json:"uptime_seconds" example:"86400"`
}

// Running reports whether the streamer considers itself live.
func (s *Status) Running() bool {
	return s.State == StateRunning
}

// Metrics is the streamer resource/heartbeat sample mirrored from Redis.
// The source hash carries a 10 second TTL; Stale is set when it has expired.
// @Description Streamer resource metrics
type Metrics struct {
	CPUPercent      float64   `json:"cpu_percent" example:"12.5"`
	MemoryMB        float64   `json:"memory_mb" example:"412.3"`
	UptimeSeconds   float64   `json:"uptime_seconds" example:"86400"`
	BufferSizeBytes int64     `json:"buffer_size_bytes" example:"1048576"`
	BufferUnderruns int64     `json:"buffer_underruns" example:"2"`
	Errors          int64     `json:"errors" example:"0"`
	Timestamp       time.Time `json:"timestamp" example:"2024-03-15T14:30:00Z"`
	Stale           bool      `json:"stale" example:"false"`
}

// LogEntry is one line from the streamer log ring.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp,omitempty"`
	Level     string    `json:"level,omitempty" example:"info"`
	Message   string    `json:"message"`
}

// Command is one control message published to the streamer command stream.
type Command struct {
	Command   string    `json:"command" enums:"start,stop,restart"`
	RequestID string    `json:"request_id"`
	IssuedBy  int64     `json:"issued_by"`
	IssuedAt  time.Time `json:"issued_at"`
}

// ControlResult is the reply to a stream control endpoint.
// @Description Result of a stream control command
type ControlResult struct {
	Status    string `json:"status" example:"running" enums:"running,stopped,starting,error"`
	Restarted bool   `json:"restarted,omitempty"`
	// Pending is set when the streamer had not reached the target state
	// before the control deadline; the command stays queued.
	Pending   bool   `json:"pending,omitempty"`
	RequestID string `json:"request_id"`
}
