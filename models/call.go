// models/call.go
package models

import "time"

// Transcript speakers.
const (
	SpeakerUser      = "user"
	SpeakerAssistant = "assistant"
	SpeakerSystem    = "system"
)

// TranscriptSegment is one utterance captured during a call.
type TranscriptSegment struct {
	Speaker   string    `bson:"speaker" json:"speaker"`
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	ItemID    string    `bson:"item_id,omitempty" json:"item_id,omitempty"`
}

// ToolInvocation records one tool call made during a call, with the exact
// arguments and output the conversational layer observed.
type ToolInvocation struct {
	Name      string         `bson:"name" json:"name"`
	Arguments map[string]any `bson:"arguments,omitempty" json:"arguments,omitempty"`
	Output    any            `bson:"output,omitempty" json:"output,omitempty"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	CallID    string         `bson:"call_id,omitempty" json:"call_id,omitempty"`
}
