package entity

import "github.com/google/uuid"

// ColorExtractionMessage is the inbound message from the color.extraction queue.
type ColorExtractionMessage struct {
	JobID        uuid.UUID `json:"job_id"`
	UserID       string    `json:"user_id"`
	VideoKey     string    `json:"video_key"`
	TimestampsMs []int64   `json:"timestamps_ms"`
	UserEmail    string    `json:"user_email"`
}

// ColorStatusMessage is the outbound message published to the color.status queue.
type ColorStatusMessage struct {
	JobID        uuid.UUID     `json:"job_id"`
	UserID       string        `json:"user_id"`
	Status       JobStatus     `json:"status"`
	VideoKey     string        `json:"video_key"`
	Results      []ColorResult `json:"results,omitempty"`
	Duration     float64       `json:"duration_seconds,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Attempt      int           `json:"attempt"`
	MaxAttempts  int           `json:"max_attempts"`
}
