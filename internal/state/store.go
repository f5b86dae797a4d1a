// Package state caches server-authoritative entities between polls. Every
// copy held here is a cache: nothing is treated as durable without a
// round-trip confirmation, and each fetch overwrites what it covers.
package state

import (
	"sync"

	"github.com/crewhub-app/sync-agent/internal/model"
)

// EventType classifies a store change notification.
type EventType string

const (
	EventProfileUpdated       EventType = "profile_updated"
	EventOnboardingUpdated    EventType = "onboarding_updated"
	EventTrainingUpdated      EventType = "training_updated"
	EventTicketsUpdated       EventType = "tickets_updated"
	EventTimeOffUpdated       EventType = "time_off_updated"
	EventConversationsUpdated EventType = "conversations_updated"
	EventMessagesUpdated      EventType = "messages_updated"
)

// Event notifies subscribers that part of the cache changed. ID carries the
// entity id where one applies (conversation, ticket, ...).
type Event struct {
	Type EventType
	ID   string
}

// Store is the in-memory cache shared by pollers, watchers and consumers.
type Store struct {
	mu sync.RWMutex

	employee model.Employee
	pages    []model.OnboardingPage
	modules  []model.TrainingModule
	tickets  []model.Ticket
	timeOff  []model.TimeOffRequest

	conversations []model.Conversation
	messages      map[string][]model.Message
	unread        map[string]bool

	subMu sync.Mutex
	subs  map[chan Event]struct{}
}

// New creates an empty store.
func New() *Store {
	return &Store{
		messages: make(map[string][]model.Message),
		unread:   make(map[string]bool),
		subs:     make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel of change events. Slow subscribers miss events
// rather than blocking the sync loops.
func (s *Store) Subscribe() chan Event {
	ch := make(chan Event, 16)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (s *Store) Unsubscribe(ch chan Event) {
	s.subMu.Lock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
	s.subMu.Unlock()
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SetEmployee replaces the cached profile.
func (s *Store) SetEmployee(e model.Employee) {
	s.mu.Lock()
	s.employee = e
	s.mu.Unlock()
	s.publish(Event{Type: EventProfileUpdated, ID: e.ID})
}

// Employee returns the cached profile.
func (s *Store) Employee() model.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employee
}

// SetOnboardingPages replaces the cached onboarding pages.
func (s *Store) SetOnboardingPages(pages []model.OnboardingPage) {
	s.mu.Lock()
	s.pages = append([]model.OnboardingPage(nil), pages...)
	s.mu.Unlock()
	s.publish(Event{Type: EventOnboardingUpdated})
}

// UpsertOnboardingPage replaces one page after a completion round trip.
func (s *Store) UpsertOnboardingPage(page model.OnboardingPage) {
	s.mu.Lock()
	replaced := false
	for i := range s.pages {
		if s.pages[i].ID == page.ID {
			s.pages[i] = page
			replaced = true
			break
		}
	}
	if !replaced {
		s.pages = append(s.pages, page)
	}
	s.mu.Unlock()
	s.publish(Event{Type: EventOnboardingUpdated, ID: page.ID})
}

// OnboardingPages returns the cached onboarding pages.
func (s *Store) OnboardingPages() []model.OnboardingPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.OnboardingPage(nil), s.pages...)
}

// SetTrainingModules replaces the cached module list, keeping the regression
// guard per module.
func (s *Store) SetTrainingModules(modules []model.TrainingModule) {
	s.mu.Lock()
	prev := make(map[string]model.AssignmentStatus, len(s.modules))
	for _, m := range s.modules {
		prev[m.ID] = m.Status
	}
	next := make([]model.TrainingModule, 0, len(modules))
	for _, m := range modules {
		next = append(next, guardRegression(m, prev[m.ID]))
	}
	s.modules = next
	s.mu.Unlock()
	s.publish(Event{Type: EventTrainingUpdated})
}

// UpsertTrainingModule merges one module, typically from an unlock or
// complete response. A completed module never regresses to unlocked in the
// cache, regardless of how responses interleave.
func (s *Store) UpsertTrainingModule(module model.TrainingModule) {
	s.mu.Lock()
	replaced := false
	for i := range s.modules {
		if s.modules[i].ID == module.ID {
			s.modules[i] = guardRegression(module, s.modules[i].Status)
			replaced = true
			break
		}
	}
	if !replaced {
		s.modules = append(s.modules, module)
	}
	s.mu.Unlock()
	s.publish(Event{Type: EventTrainingUpdated, ID: module.ID})
}

// TrainingModules returns the cached modules.
func (s *Store) TrainingModules() []model.TrainingModule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.TrainingModule(nil), s.modules...)
}

// guardRegression keeps a terminal completed status over a weaker incoming
// one.
func guardRegression(incoming model.TrainingModule, prev model.AssignmentStatus) model.TrainingModule {
	if prev == model.TrainingCompleted && incoming.Status != model.TrainingCompleted {
		incoming.Status = model.TrainingCompleted
	}
	return incoming
}

// SetTickets replaces the cached ticket list.
func (s *Store) SetTickets(tickets []model.Ticket) {
	s.mu.Lock()
	s.tickets = append([]model.Ticket(nil), tickets...)
	s.mu.Unlock()
	s.publish(Event{Type: EventTicketsUpdated})
}

// UpsertTicket merges one ticket after a mutation round trip.
func (s *Store) UpsertTicket(ticket model.Ticket) {
	s.mu.Lock()
	replaced := false
	for i := range s.tickets {
		if s.tickets[i].ID == ticket.ID {
			s.tickets[i] = ticket
			replaced = true
			break
		}
	}
	if !replaced {
		s.tickets = append(s.tickets, ticket)
	}
	s.mu.Unlock()
	s.publish(Event{Type: EventTicketsUpdated, ID: ticket.ID})
}

// Tickets returns the cached tickets.
func (s *Store) Tickets() []model.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Ticket(nil), s.tickets...)
}

// Ticket returns one cached ticket by id.
func (s *Store) Ticket(id string) (model.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tickets {
		if t.ID == id {
			return t, true
		}
	}
	return model.Ticket{}, false
}

// SetTimeOff replaces the cached time-off requests.
func (s *Store) SetTimeOff(requests []model.TimeOffRequest) {
	s.mu.Lock()
	s.timeOff = append([]model.TimeOffRequest(nil), requests...)
	s.mu.Unlock()
	s.publish(Event{Type: EventTimeOffUpdated})
}

// UpsertTimeOff merges one request after a mutation round trip.
func (s *Store) UpsertTimeOff(req model.TimeOffRequest) {
	s.mu.Lock()
	replaced := false
	for i := range s.timeOff {
		if s.timeOff[i].ID == req.ID {
			s.timeOff[i] = req
			replaced = true
			break
		}
	}
	if !replaced {
		s.timeOff = append(s.timeOff, req)
	}
	s.mu.Unlock()
	s.publish(Event{Type: EventTimeOffUpdated, ID: req.ID})
}

// TimeOff returns the cached time-off requests.
func (s *Store) TimeOff() []model.TimeOffRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.TimeOffRequest(nil), s.timeOff...)
}

// SetConversations replaces the cached conversation list. Archived threads
// are kept; conversations are never destroyed.
func (s *Store) SetConversations(conversations []model.Conversation) {
	s.mu.Lock()
	s.conversations = append([]model.Conversation(nil), conversations...)
	s.mu.Unlock()
	s.publish(Event{Type: EventConversationsUpdated})
}

// Conversations returns the cached conversation list.
func (s *Store) Conversations() []model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Conversation(nil), s.conversations...)
}

// SetMessages replaces the merged message list and unread flag of one
// conversation.
func (s *Store) SetMessages(conversationID string, messages []model.Message, unread bool) {
	s.mu.Lock()
	s.messages[conversationID] = append([]model.Message(nil), messages...)
	s.unread[conversationID] = unread
	s.mu.Unlock()
	s.publish(Event{Type: EventMessagesUpdated, ID: conversationID})
}

// Messages returns the cached messages and unread flag of a conversation.
func (s *Store) Messages(conversationID string) ([]model.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := append([]model.Message(nil), s.messages[conversationID]...)
	return msgs, s.unread[conversationID]
}
