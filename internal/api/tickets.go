package api

import (
	"context"

	"github.com/crewhub-app/sync-agent/internal/model"
)

type ticketsPayload struct {
	Tickets []model.Ticket `json:"tickets"`
}

// Tickets lists support tickets visible to the current session: the
// employee's own, or all tickets for an admin.
func (c *Client) Tickets(ctx context.Context) ([]model.Ticket, error) {
	var payload ticketsPayload
	if err := c.do(ctx, "tickets.list", "GET", c.rolePrefix()+"/tickets", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Tickets, nil
}

// CreateTicket opens a new support ticket for the employee.
func (c *Client) CreateTicket(ctx context.Context, req model.CreateTicketRequest) (model.Ticket, error) {
	var payload struct {
		Ticket model.Ticket `json:"ticket"`
	}
	if err := c.do(ctx, "tickets.create", "POST", "/employee/tickets", req, &payload); err != nil {
		return model.Ticket{}, err
	}
	return payload.Ticket, nil
}

// RespondTicket adds a reply to a ticket thread.
func (c *Client) RespondTicket(ctx context.Context, ticketID, content string) (model.Ticket, error) {
	var payload struct {
		Ticket model.Ticket `json:"ticket"`
	}
	err := c.do(ctx, "tickets.respond", "POST",
		c.rolePrefix()+"/tickets/"+ticketID+"/responses",
		model.RespondTicketRequest{Content: content}, &payload)
	if err != nil {
		return model.Ticket{}, err
	}
	return payload.Ticket, nil
}

// UpdateTicket changes a ticket's status. Admin only.
func (c *Client) UpdateTicket(ctx context.Context, ticketID string, status model.TicketStatus) (model.Ticket, error) {
	var payload struct {
		Ticket model.Ticket `json:"ticket"`
	}
	err := c.do(ctx, "tickets.update", "POST", "/admin/tickets/"+ticketID,
		model.UpdateTicketRequest{Status: status}, &payload)
	if err != nil {
		return model.Ticket{}, err
	}
	return payload.Ticket, nil
}

// ArchiveTicket soft-archives a closed ticket. Admin only.
func (c *Client) ArchiveTicket(ctx context.Context, ticketID string) error {
	return c.do(ctx, "tickets.archive", "POST", "/admin/tickets/"+ticketID+"/archive", nil, nil)
}
