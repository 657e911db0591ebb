package domain

// Role tags a conversation message. The set is closed: rendering and
// history logic switch over exactly these three values.
type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
)

// Message is a single role-tagged conversation turn.
type Message struct {
	Role    Role
	Content string
}

// StreamDelta is one fragment of a streaming model response. The stream is
// finite and not restartable; a delta with Done or Err set is the last one.
type StreamDelta struct {
	Content string
	Done    bool
	Err     error
}
