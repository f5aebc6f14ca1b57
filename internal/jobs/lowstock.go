package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/events"
	"github.com/dukerupert/bookworld/internal/telemetry"
)

// LowStockJob flags books that an order left at or below the low stock threshold.
type LowStockJob struct {
	catalog domain.CatalogReader
	logger  *slog.Logger
}

func NewLowStockJob(catalog domain.CatalogReader, logger *slog.Logger) *LowStockJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &LowStockJob{catalog: catalog, logger: logger}
}

var _ Handler = (*LowStockJob)(nil)

func (j *LowStockJob) Handle(ctx context.Context, e events.Event) error {
	placed, ok := e.Payload.(events.OrderPlaced)
	if !ok {
		return nil
	}

	for _, item := range placed.Order.Items {
		book, err := j.catalog.GetBook(ctx, item.BookID)
		if errors.Is(err, domain.ErrBookNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if book.Stock > domain.LowStockThreshold {
			continue
		}

		j.logger.Warn("book low on stock",
			"book_id", book.ID,
			"title", book.Title,
			"stock", book.Stock,
			"order_number", placed.Order.OrderNumber,
		)
		if telemetry.Business != nil {
			telemetry.Business.LowStockAlerts.Inc()
		}
	}
	return nil
}
