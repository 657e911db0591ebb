package session

import "docchat/internal/domain"

// History is the ordered conversation state sent to the model on every
// turn. It holds at most one System message, always first.
type History struct {
	messages []domain.Message
}

func NewHistory() *History { return &History{} }

func (h *History) Append(role domain.Role, content string) {
	h.messages = append(h.messages, domain.Message{Role: role, Content: content})
}

// PopLast removes and returns the last message. Used to retract the
// transient prompt message once generation finishes or fails.
func (h *History) PopLast() (domain.Message, bool) {
	if len(h.messages) == 0 {
		return domain.Message{}, false
	}
	last := h.messages[len(h.messages)-1]
	h.messages = h.messages[:len(h.messages)-1]
	return last, true
}

// SetSystem inserts the system message at index 0 the first time it is
// called. Later calls are no-ops: the persona is immutable once set.
func (h *History) SetSystem(content string) bool {
	if h.HasSystem() {
		return false
	}
	h.messages = append([]domain.Message{{Role: domain.RoleSystem, Content: content}}, h.messages...)
	return true
}

func (h *History) HasSystem() bool {
	return len(h.messages) > 0 && h.messages[0].Role == domain.RoleSystem
}

func (h *History) Len() int { return len(h.messages) }

// Messages returns a copy of the conversation in order.
func (h *History) Messages() []domain.Message {
	return append([]domain.Message(nil), h.messages...)
}
