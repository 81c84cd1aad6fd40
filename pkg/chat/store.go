package chat

import "sync"

// Store is the process-wide state container for the active conversation: the
// ordered message list, the current conversation reference and the typing
// indicator. All engine components read and mutate it through here; rendering
// layers observe it via Subscribe.
type Store struct {
	mu           sync.RWMutex
	messages     []Message
	conversation *ConversationRef
	typing       bool

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

func NewStore() *Store {
	return &Store{
		messages: make([]Message, 0),
		subs:     make(map[int]func()),
	}
}

// Subscribe registers a change notification callback and returns an
// unsubscribe function. Callbacks run synchronously after each mutation, on
// the mutating goroutine, and must not call back into the store.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *Store) Append(msg Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	s.notify()
}

// Update mutates the message with the given id in place. It returns false
// when no such message exists, which can happen when the working set was
// cleared while a turn was still streaming.
func (s *Store) Update(id string, fn func(*Message)) bool {
	s.mu.Lock()
	found := false
	for i := range s.messages {
		if s.messages[i].ID == id {
			fn(&s.messages[i])
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.notify()
	}
	return found
}

// Messages returns a copy of the ordered message list.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// LastStreamingAssistant scans the list in reverse for the most recent
// assistant message still streaming. The assembler uses it to rebind an
// accumulator whose target message id is gone.
func (s *Store) LastStreamingAssistant() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].IsAssistant() && s.messages[i].IsStreaming {
			return s.messages[i], true
		}
	}
	return Message{}, false
}

// Clear empties the transient message working set. The conversation
// reference survives; history is served separately.
func (s *Store) Clear() {
	s.mu.Lock()
	s.messages = s.messages[:0]
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetTyping(typing bool) {
	s.mu.Lock()
	changed := s.typing != typing
	s.typing = typing
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *Store) Typing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.typing
}

// SetConversation replaces the current conversation reference wholesale.
// References are replaced, never merged: the server-confirmed identity is
// authoritative and nothing from a provisional placeholder is carried over.
func (s *Store) SetConversation(ref ConversationRef) {
	s.mu.Lock()
	s.conversation = &ref
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Conversation() (ConversationRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conversation == nil {
		return ConversationRef{}, false
	}
	return *s.conversation, true
}

// ClearConversation drops the current conversation reference, e.g. when the
// user starts a fresh conversation.
func (s *Store) ClearConversation() {
	s.mu.Lock()
	s.conversation = nil
	s.mu.Unlock()
	s.notify()
}
