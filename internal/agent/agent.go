// Package agent wires the sync machinery together: the upstream API client,
// the state store, the per-view pollers and conversation watchers, the
// notification outbox, and the optional event fan-out. Its methods mirror the
// dashboard actions; each one runs a round trip, merges the confirmed result
// into the cache, enqueues any side-effect notification, and triggers the
// relevant poller.
package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/crewhub-app/sync-agent/internal/api"
	"github.com/crewhub-app/sync-agent/internal/config"
	"github.com/crewhub-app/sync-agent/internal/events"
	"github.com/crewhub-app/sync-agent/internal/model"
	"github.com/crewhub-app/sync-agent/internal/onboarding"
	"github.com/crewhub-app/sync-agent/internal/outbox"
	"github.com/crewhub-app/sync-agent/internal/poll"
	"github.com/crewhub-app/sync-agent/internal/state"
	"github.com/crewhub-app/sync-agent/pkg/logger"
)

// adminRecipient addresses role-wide notifications to the admin dashboard.
const adminRecipient = "admin"

// Agent owns one session's synchronization state.
type Agent struct {
	cfg      *config.Config
	api      *api.Client
	store    *state.Store
	registry *poll.Registry
	outbox   *outbox.Outbox
	events   events.Publisher
	reminder *onboarding.Reminder
	logger   *logger.Logger

	pollers map[string]*poll.Poller

	mu       sync.Mutex
	watchers map[string]*poll.Watcher
}

// New creates an agent around an authenticated API client.
func New(cfg *config.Config, client *api.Client, store *state.Store, ob *outbox.Outbox, pub events.Publisher, log *logger.Logger) *Agent {
	if pub == nil {
		pub = events.Noop{}
	}
	a := &Agent{
		cfg:      cfg,
		api:      client,
		store:    store,
		registry: poll.NewRegistry(),
		outbox:   ob,
		events:   pub,
		reminder: &onboarding.Reminder{},
		logger:   log,
		watchers: make(map[string]*poll.Watcher),
	}

	a.pollers = map[string]*poll.Poller{
		"profile":       poll.NewPoller("profile", cfg.ListRefreshInterval, a.refreshProfile, log),
		"tickets":       poll.NewPoller("tickets", cfg.ListRefreshInterval, a.refreshTickets, log),
		"timeoff":       poll.NewPoller("timeoff", cfg.ListRefreshInterval, a.refreshTimeOff, log),
		"training":      poll.NewPoller("training", cfg.ListRefreshInterval, a.refreshTraining, log),
		"conversations": poll.NewPoller("conversations", cfg.ListRefreshInterval, a.refreshConversations, log),
	}

	return a
}

// Store exposes the cache to consumers.
func (a *Agent) Store() *state.Store {
	return a.store
}

// Start launches the outbox dispatcher, the event forwarder and every list
// poller. Call Close to tear everything down.
func (a *Agent) Start(ctx context.Context) {
	a.reminder.Reset()
	a.registry.Go(ctx, "outbox", a.outbox.Run)
	a.registry.Go(ctx, "events", a.forwardEvents)
	for name, p := range a.pollers {
		a.registry.Go(ctx, "poll:"+name, p.Run)
	}
}

// Close tears down every timer and background loop and waits for them.
func (a *Agent) Close() {
	a.registry.Close()
	a.events.Close()
}

// ---- refresh cycles -------------------------------------------------------

func (a *Agent) refreshProfile(ctx context.Context) error {
	employee, pages, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}
	employee.OnboardingStatus = onboarding.Aggregate(pages, employee.PersonalInfo)
	a.store.SetEmployee(employee)
	a.store.SetOnboardingPages(pages)
	return nil
}

func (a *Agent) refreshTickets(ctx context.Context) error {
	tickets, err := a.api.Tickets(ctx)
	if err != nil {
		return err
	}
	a.store.SetTickets(tickets)
	return nil
}

func (a *Agent) refreshTimeOff(ctx context.Context) error {
	requests, err := a.api.TimeOffRequests(ctx)
	if err != nil {
		return err
	}
	a.store.SetTimeOff(requests)
	return nil
}

func (a *Agent) refreshTraining(ctx context.Context) error {
	modules, err := a.api.TrainingModules(ctx)
	if err != nil {
		return err
	}
	a.store.SetTrainingModules(modules)
	return nil
}

func (a *Agent) refreshConversations(ctx context.Context) error {
	conversations, err := a.api.Conversations(ctx)
	if err != nil {
		return err
	}
	a.store.SetConversations(conversations)
	return nil
}

// TriggerRefresh requests an immediate fetch of one list view.
func (a *Agent) TriggerRefresh(view string) {
	if p, ok := a.pollers[view]; ok {
		p.Trigger()
	}
}

// PollError returns the last fetch error of one list view, for error
// banners with a manual retry.
func (a *Agent) PollError(view string) error {
	if p, ok := a.pollers[view]; ok {
		return p.Err()
	}
	return nil
}

// Logout revokes the upstream token. The session is cleared even when the
// revocation call fails; background loops keep ticking and surface
// ErrUnauthorized until the agent is closed.
func (a *Agent) Logout(ctx context.Context) error {
	return a.api.Logout(ctx)
}

// ---- conversations --------------------------------------------------------

// OpenConversation starts the message-refresh and mark-read timers for a
// conversation. Opening marks it read immediately, regardless of the unread
// flag.
func (a *Agent) OpenConversation(ctx context.Context, conversationID string) {
	a.mu.Lock()
	if _, open := a.watchers[conversationID]; open {
		a.mu.Unlock()
		return
	}
	w := poll.NewWatcher(poll.WatcherConfig{
		ConversationID:   conversationID,
		SelfID:           a.api.Session().EmployeeID(),
		RefreshInterval:  a.cfg.MessageRefreshInterval,
		MarkReadInterval: a.cfg.MarkReadInterval,
		OnUpdate:         a.store.SetMessages,
	}, a.api, a.logger)
	a.watchers[conversationID] = w
	a.mu.Unlock()

	a.registry.Go(ctx, "conversation:"+conversationID, w.Run)
}

// CloseConversation stops both timers of a conversation. In-flight requests
// resolve but their results are dropped.
func (a *Agent) CloseConversation(conversationID string) {
	a.mu.Lock()
	delete(a.watchers, conversationID)
	a.mu.Unlock()
	a.registry.Stop("conversation:" + conversationID)
}

// SendMessage posts a message to a conversation. On confirmation the local
// list gains the message and the unread flag clears without a round trip.
func (a *Agent) SendMessage(ctx context.Context, conversationID, content string, attachments []model.Attachment) (model.Message, error) {
	if err := validateMessageContent(content); err != nil {
		return model.Message{}, err
	}

	msg, err := a.api.SendMessage(ctx, conversationID, model.SendMessageRequest{
		Content:     content,
		Attachments: attachments,
	})
	if err != nil {
		return model.Message{}, err
	}

	a.mu.Lock()
	w := a.watchers[conversationID]
	a.mu.Unlock()
	if w != nil {
		w.NoteSent(msg)
	}

	a.TriggerRefresh("conversations")
	return msg, nil
}

// ---- tickets --------------------------------------------------------------

// SubmitTicket opens a support ticket and notifies the admin dashboard
// best-effort.
func (a *Agent) SubmitTicket(ctx context.Context, req model.CreateTicketRequest) (model.Ticket, error) {
	if err := validateTicketRequest(req); err != nil {
		return model.Ticket{}, err
	}

	ticket, err := a.api.CreateTicket(ctx, req)
	if err != nil {
		return model.Ticket{}, err
	}
	a.store.UpsertTicket(ticket)

	a.outbox.Enqueue(model.Notification{
		RecipientID: adminRecipient,
		Kind:        model.NotificationTicketCreated,
		Title:       "New support ticket: " + ticket.Title,
		Data:        map[string]string{"ticket_id": ticket.ID},
	})

	a.TriggerRefresh("tickets")
	return ticket, nil
}

// RespondToTicket adds a reply to a ticket thread and notifies the other
// side.
func (a *Agent) RespondToTicket(ctx context.Context, ticketID, content string) (model.Ticket, error) {
	if err := validateMessageContent(content); err != nil {
		return model.Ticket{}, err
	}

	ticket, err := a.api.RespondTicket(ctx, ticketID, content)
	if err != nil {
		return model.Ticket{}, err
	}
	a.store.UpsertTicket(ticket)

	recipient := ticket.EmployeeID
	if a.api.Session().Role() != model.RoleAdmin {
		recipient = adminRecipient
	}
	a.outbox.Enqueue(model.Notification{
		RecipientID: recipient,
		Kind:        model.NotificationTicketUpdated,
		Title:       "New response on ticket: " + ticket.Title,
		Data:        map[string]string{"ticket_id": ticket.ID},
	})

	a.TriggerRefresh("tickets")
	return ticket, nil
}

// UpdateTicketStatus changes a ticket's status (admin) and notifies the
// employee who raised it.
func (a *Agent) UpdateTicketStatus(ctx context.Context, ticketID string, status model.TicketStatus) (model.Ticket, error) {
	ticket, err := a.api.UpdateTicket(ctx, ticketID, status)
	if err != nil {
		return model.Ticket{}, err
	}
	a.store.UpsertTicket(ticket)

	a.outbox.Enqueue(model.Notification{
		RecipientID: ticket.EmployeeID,
		Kind:        model.NotificationTicketUpdated,
		Title:       fmt.Sprintf("Ticket %q is now %s", ticket.Title, ticket.Status),
		Data:        map[string]string{"ticket_id": ticket.ID, "status": string(ticket.Status)},
	})

	a.TriggerRefresh("tickets")
	return ticket, nil
}

// ArchiveTicket soft-archives a closed ticket (admin). The cached copy stays
// with its archived flag set; tickets are never destroyed.
func (a *Agent) ArchiveTicket(ctx context.Context, ticketID string) error {
	if err := a.api.ArchiveTicket(ctx, ticketID); err != nil {
		return err
	}
	if ticket, ok := a.store.Ticket(ticketID); ok {
		ticket.Archived = true
		a.store.UpsertTicket(ticket)
	}
	a.TriggerRefresh("tickets")
	return nil
}

// ---- time off -------------------------------------------------------------

// RequestTimeOff submits a time-off request; it appears as pending until an
// admin decides it.
func (a *Agent) RequestTimeOff(ctx context.Context, req model.CreateTimeOffRequest) (model.TimeOffRequest, error) {
	if err := validateTimeOffRequest(req); err != nil {
		return model.TimeOffRequest{}, err
	}

	request, err := a.api.CreateTimeOff(ctx, req)
	if err != nil {
		return model.TimeOffRequest{}, err
	}
	a.store.UpsertTimeOff(request)

	a.outbox.Enqueue(model.Notification{
		RecipientID: adminRecipient,
		Kind:        model.NotificationTimeOffCreated,
		Title:       fmt.Sprintf("Time-off request %s to %s", request.StartDate, request.EndDate),
		Data:        map[string]string{"request_id": request.ID},
	})

	a.TriggerRefresh("timeoff")
	return request, nil
}

// CancelTimeOff cancels one of the employee's own pending requests.
func (a *Agent) CancelTimeOff(ctx context.Context, requestID string) (model.TimeOffRequest, error) {
	request, err := a.api.CancelTimeOff(ctx, requestID)
	if err != nil {
		return model.TimeOffRequest{}, err
	}
	a.store.UpsertTimeOff(request)
	a.TriggerRefresh("timeoff")
	return request, nil
}

// DecideTimeOff approves or rejects a pending request (admin) and notifies
// the employee.
func (a *Agent) DecideTimeOff(ctx context.Context, requestID string, status model.TimeOffStatus) (model.TimeOffRequest, error) {
	request, err := a.api.DecideTimeOff(ctx, requestID, status)
	if err != nil {
		return model.TimeOffRequest{}, err
	}
	a.store.UpsertTimeOff(request)

	a.outbox.Enqueue(model.Notification{
		RecipientID: request.EmployeeID,
		Kind:        model.NotificationTimeOffDecided,
		Title:       fmt.Sprintf("Time-off request %s", request.Status),
		Data:        map[string]string{"request_id": request.ID, "status": string(request.Status)},
	})

	a.TriggerRefresh("timeoff")
	return request, nil
}

// ---- training -------------------------------------------------------------

// UnlockTraining unlocks the module behind a scanned QR code. The cache
// never regresses a completed module, however the unlock response races a
// refresh.
func (a *Agent) UnlockTraining(ctx context.Context, qrCode string) (model.TrainingModule, error) {
	if qrCode == "" {
		return model.TrainingModule{}, fmt.Errorf("qr code cannot be empty")
	}

	module, err := a.api.UnlockTraining(ctx, qrCode)
	if err != nil {
		return model.TrainingModule{}, err
	}
	a.store.UpsertTrainingModule(module)
	a.TriggerRefresh("training")
	return module, nil
}

// CompleteTraining marks a module completed after viewing and notifies the
// admin dashboard.
func (a *Agent) CompleteTraining(ctx context.Context, moduleID string) (model.TrainingModule, error) {
	module, err := a.api.CompleteTraining(ctx, moduleID)
	if err != nil {
		return model.TrainingModule{}, err
	}
	a.store.UpsertTrainingModule(module)

	a.outbox.Enqueue(model.Notification{
		RecipientID: adminRecipient,
		Kind:        model.NotificationTrainingDone,
		Title:       "Training completed: " + module.Title,
		Data:        map[string]string{"module_id": module.ID},
	})

	a.TriggerRefresh("training")
	return module, nil
}

// ---- onboarding -----------------------------------------------------------

// CompleteOnboardingPage acknowledges an onboarding page with a signature,
// recomputes the aggregate status and notifies the admin dashboard.
func (a *Agent) CompleteOnboardingPage(ctx context.Context, pageID, signature string) (model.OnboardingPage, error) {
	var current model.OnboardingPage
	for _, p := range a.store.OnboardingPages() {
		if p.ID == pageID {
			current = p
			break
		}
	}
	if err := onboarding.ValidateCompletion(current, signature); err != nil {
		return model.OnboardingPage{}, err
	}

	page, err := a.api.CompleteOnboardingPage(ctx, pageID, signature)
	if err != nil {
		return model.OnboardingPage{}, err
	}
	a.store.UpsertOnboardingPage(page)
	a.recomputeOnboarding()

	a.outbox.Enqueue(model.Notification{
		RecipientID: adminRecipient,
		Kind:        model.NotificationPageCompleted,
		Title:       "Onboarding page completed: " + page.Title,
		Data:        map[string]string{"page_id": page.ID},
	})

	a.TriggerRefresh("profile")
	return page, nil
}

// UpdatePersonalInfo updates profile fields and recomputes the aggregate
// onboarding status.
func (a *Agent) UpdatePersonalInfo(ctx context.Context, req model.UpdatePersonalInfoRequest) (model.Employee, error) {
	employee, err := a.api.UpdatePersonalInfo(ctx, req)
	if err != nil {
		return model.Employee{}, err
	}
	a.store.SetEmployee(employee)
	a.recomputeOnboarding()
	return a.store.Employee(), nil
}

// OnboardingReminderDue reports whether the incomplete-onboarding modal is
// due for this session.
func (a *Agent) OnboardingReminderDue() bool {
	return a.reminder.ShouldShow(a.store.Employee().OnboardingStatus)
}

// DismissOnboardingReminder hides the reminder for this session only; the
// next session re-evaluates.
func (a *Agent) DismissOnboardingReminder() {
	a.reminder.Dismiss()
}

func (a *Agent) recomputeOnboarding() {
	employee := a.store.Employee()
	status := onboarding.Aggregate(a.store.OnboardingPages(), employee.PersonalInfo)
	if employee.OnboardingStatus != status {
		employee.OnboardingStatus = status
		a.store.SetEmployee(employee)
	}
}

// ---- event fan-out --------------------------------------------------------

var eventRoutes = map[state.EventType][2]string{
	state.EventProfileUpdated:       {"profile", "updated"},
	state.EventOnboardingUpdated:    {"onboarding", "updated"},
	state.EventTrainingUpdated:      {"training", "updated"},
	state.EventTicketsUpdated:       {"tickets", "updated"},
	state.EventTimeOffUpdated:       {"timeoff", "updated"},
	state.EventConversationsUpdated: {"conversations", "updated"},
	state.EventMessagesUpdated:      {"messages", "updated"},
}

// forwardEvents mirrors store change events onto the fan-out publisher.
func (a *Agent) forwardEvents(ctx context.Context) {
	ch := a.store.Subscribe()
	defer a.store.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if route, known := eventRoutes[ev.Type]; known {
				a.events.Publish(route[0], route[1], ev.ID, nil)
			}
		}
	}
}
