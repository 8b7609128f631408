package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ludoteca/server/internal/catalog"
	"github.com/ludoteca/server/internal/domain"
)

// Producer publishes domain events to the queue. It satisfies the loan
// service's and the catalog job's publisher interfaces.
type Producer struct {
	conn *Connection
}

// NewProducer creates a new queue producer
func NewProducer(conn *Connection) *Producer {
	return &Producer{conn: conn}
}

// LoanCreated publishes a loan.created event.
func (p *Producer) LoanCreated(ctx context.Context, loan *domain.Loan) error {
	return p.publishLoanEvent(ctx, EventLoanCreated, loan)
}

// LoanReturned publishes a loan.returned event.
func (p *Producer) LoanReturned(ctx context.Context, loan *domain.Loan) error {
	return p.publishLoanEvent(ctx, EventLoanReturned, loan)
}

func (p *Producer) publishLoanEvent(ctx context.Context, eventType string, loan *domain.Loan) error {
	event := LoanEvent{
		Type:           eventType,
		LoanID:         loan.ID,
		FriendID:       loan.FriendID,
		GameID:         loan.GameID,
		LoanDate:       loan.LoanDate,
		ExpectedReturn: loan.ExpectedReturn,
		ReturnedAt:     loan.ReturnedAt,
		OccurredAt:     time.Now(),
	}

	if err := p.conn.PublishJSON(ctx, EventQueueName, event); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	slog.Info("published loan event",
		"type", eventType,
		"loan_id", loan.ID,
		"game_id", loan.GameID,
	)
	return nil
}

// CatalogImported publishes a catalog.imported event.
func (p *Producer) CatalogImported(ctx context.Context, summary catalog.ImportSummary) error {
	event := ImportEvent{
		Type:       EventCatalogImported,
		Imported:   summary.Imported,
		TotalSeen:  summary.TotalSeen,
		OccurredAt: time.Now(),
	}

	if err := p.conn.PublishJSON(ctx, EventQueueName, event); err != nil {
		return fmt.Errorf("failed to publish catalog imported event: %w", err)
	}

	slog.Info("published catalog imported event",
		"imported", summary.Imported,
		"total_seen", summary.TotalSeen,
	)
	return nil
}

// RequestCatalogRefresh asks a running instance to start an import.
func (p *Producer) RequestCatalogRefresh(ctx context.Context) error {
	req := RefreshRequest{RequestedAt: time.Now()}
	if err := p.conn.PublishJSON(ctx, RefreshQueueName, req); err != nil {
		return fmt.Errorf("failed to publish refresh request: %w", err)
	}
	return nil
}
