package model

// Round is transient state that exists only while a question is open. It is
// created when the question is shown and destroyed at reveal.
type Round struct {
	StartMs int64 `json:"startMs"`
	EndMs   int64 `json:"endMs"`

	// Awaiting holds the connection tags that have not answered yet.
	Awaiting map[string]struct{} `json:"awaiting"`

	// MsRemainingAtPause is set only while the round is paused.
	MsRemainingAtPause int64 `json:"msRemainingAtPause,omitempty"`
}

// NewRound opens a round spanning [startMs, startMs+limit) for the given tags.
func NewRound(startMs int64, timeLimitSec int, tags []string) *Round {
	awaiting := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		awaiting[t] = struct{}{}
	}
	return &Round{
		StartMs:  startMs,
		EndMs:    startMs + int64(timeLimitSec)*1000,
		Awaiting: awaiting,
	}
}
