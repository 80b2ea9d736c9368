package queries

import (
	"context"
	"fmt"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
)

// TickHistoryQuery lists the most recent tick reports of a colony
type TickHistoryQuery struct {
	Colony string
	Limit  int
}

// TickHistoryResponse represents the history listing
type TickHistoryResponse struct {
	Reports []*common.TickReport
}

// TickHistoryHandler handles the TickHistory query
type TickHistoryHandler struct {
	reports common.TickReportRepository
}

// NewTickHistoryHandler creates a new TickHistoryHandler
func NewTickHistoryHandler(reports common.TickReportRepository) *TickHistoryHandler {
	return &TickHistoryHandler{reports: reports}
}

// Handle executes the TickHistory query
func (h *TickHistoryHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*TickHistoryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *TickHistoryQuery")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	reports, err := h.reports.ListRecent(ctx, query.Colony, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tick reports: %w", err)
	}
	return &TickHistoryResponse{Reports: reports}, nil
}
