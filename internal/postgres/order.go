package postgres

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/events"
	"github.com/dukerupert/bookworld/internal/repository"
	"github.com/dukerupert/bookworld/internal/shipping"
	"github.com/dukerupert/bookworld/internal/telemetry"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	defaultOrderLimit = 20
	maxOrderLimit     = 100
)

// OrderOptions configures checkout and cancellation policy.
type OrderOptions struct {
	// Shipping prices the delivery. Defaults to the flat rate.
	Shipping shipping.Provider

	// RestockOnCancel returns the ordered units to stock when an order is cancelled.
	RestockOnCancel bool
}

// OrderService implements domain.OrderService using PostgreSQL.
type OrderService struct {
	repo     repository.Querier
	tx       Transactor
	shipping shipping.Provider
	events   events.Publisher
	logger   *slog.Logger
	restock  bool
	now      func() time.Time
}

var _ domain.OrderService = (*OrderService)(nil)

func NewOrderService(repo repository.Querier, tx Transactor, pub events.Publisher, logger *slog.Logger, opts OrderOptions) *OrderService {
	if opts.Shipping == nil {
		opts.Shipping = shipping.NewFlatRateProvider(shipping.StandardRates(shipping.DefaultFlatRateCents))
	}
	if pub == nil {
		pub = events.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		repo:     repo,
		tx:       tx,
		shipping: opts.Shipping,
		events:   pub,
		logger:   logger,
		restock:  opts.RestockOnCancel,
		now:      time.Now,
	}
}

func orderFromRow(row repository.Order) domain.Order {
	return domain.Order{
		ID:            fromPgUUID(row.ID),
		OrderNumber:   row.OrderNumber,
		UserID:        fromPgUUID(row.UserID),
		Status:        domain.OrderStatus(row.Status),
		PaymentMethod: row.PaymentMethod,
		PaymentStatus: domain.PaymentStatus(row.PaymentStatus),
		SubtotalCents: row.SubtotalCents,
		ShippingCents: row.ShippingCents,
		TotalCents:    row.TotalCents,
		ShippingAddress: domain.ShippingAddress{
			Name:    row.ShipName,
			Street:  row.ShipStreet,
			City:    row.ShipCity,
			State:   row.ShipState,
			ZipCode: row.ShipZipCode,
			Country: row.ShipCountry,
			Phone:   row.ShipPhone,
		},
		TrackingNumber: row.TrackingNumber.String,
		Notes:          row.Notes.String,
		CreatedAt:      fromPgTime(row.CreatedAt),
		UpdatedAt:      fromPgTime(row.UpdatedAt),
	}
}

func ordersFromRows(rows []repository.Order) []domain.Order {
	orders := make([]domain.Order, len(rows))
	for i, row := range rows {
		orders[i] = orderFromRow(row)
	}
	return orders
}

func orderItemFromRow(row repository.OrderItem) domain.OrderItem {
	return domain.OrderItem{
		BookID:     fromPgUUID(row.BookID),
		Title:      row.Title,
		Author:     row.Author,
		PriceCents: row.PriceCents,
		Quantity:   row.Quantity,
		ImageURL:   row.ImageUrl.String,
	}
}

// withItems attaches items to each order with a single query.
func withItems(ctx context.Context, q repository.Querier, orders []domain.Order) ([]domain.OrderDetail, error) {
	if len(orders) == 0 {
		return nil, nil
	}
	ids := make([]pgtype.UUID, len(orders))
	for i, o := range orders {
		ids[i] = pgUUID(o.ID)
	}
	rows, err := q.ListOrderItems(ctx, ids)
	if err != nil {
		return nil, dbError(err, "order.items", "failed to load order items")
	}

	byOrder := make(map[uuid.UUID][]domain.OrderItem, len(orders))
	for _, row := range rows {
		id := fromPgUUID(row.OrderID)
		byOrder[id] = append(byOrder[id], orderItemFromRow(row))
	}

	details := make([]domain.OrderDetail, len(orders))
	for i, o := range orders {
		items := byOrder[o.ID]
		if items == nil {
			items = []domain.OrderItem{}
		}
		details[i] = domain.OrderDetail{Order: o, Items: items}
	}
	return details, nil
}

func detailFromRow(ctx context.Context, q repository.Querier, row repository.Order) (*domain.OrderDetail, error) {
	details, err := withItems(ctx, q, []domain.Order{orderFromRow(row)})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func clampLimit(limit int32) int32 {
	if limit <= 0 {
		return defaultOrderLimit
	}
	if limit > maxOrderLimit {
		return maxOrderLimit
	}
	return limit
}

// =============================================================================
// CHECKOUT
// =============================================================================

// PlaceOrder turns the user's cart into a pending order. Every line is
// checked against current stock before anything is written; the order rows,
// the stock decrements and the cart clear commit together or not at all.
// Totals use the prices captured on the cart lines.
func (s *OrderService) PlaceOrder(ctx context.Context, params domain.PlaceOrderParams) (*domain.OrderDetail, error) {
	const op = "order.place"

	ctx, finish := telemetry.StartSpan(ctx, "order.place", "place order from cart")
	defer finish()

	params.Normalize()
	if params.PaymentMethod != domain.PaymentMethodCOD {
		s.checkoutFailed("invalid")
		return nil, domain.ErrUnsupportedPaymentTag
	}
	if err := params.ShippingAddress.Validate(op); err != nil {
		s.checkoutFailed("invalid")
		return nil, err
	}

	var detail *domain.OrderDetail
	err := s.tx.InTx(ctx, func(q repository.Querier) error {
		cart, err := loadCart(ctx, q, params.UserID)
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return domain.ErrEmptyCart
		}

		if err := checkStock(ctx, q, cart); err != nil {
			return err
		}

		subtotal := cart.Subtotal()
		rate, err := shipping.Quote(ctx, s.shipping, shipping.RateParams{
			Destination: shipping.Address{
				City:       params.ShippingAddress.City,
				State:      params.ShippingAddress.State,
				PostalCode: params.ShippingAddress.ZipCode,
				Country:    params.ShippingAddress.Country,
			},
			SubtotalCents: subtotal,
			ItemCount:     cart.ItemCount(),
		})
		if err != nil {
			return domain.WrapError(err, domain.EUNAVAILABLE, op, "Shipping is not available for this address")
		}

		number, err := domain.NewOrderNumber(s.now())
		if err != nil {
			return domain.Internal(err, op, "failed to generate order number")
		}

		row, err := q.CreateOrder(ctx, repository.CreateOrderParams{
			OrderNumber:   number,
			UserID:        pgUUID(params.UserID),
			Status:        string(domain.OrderStatusPending),
			PaymentMethod: params.PaymentMethod,
			PaymentStatus: string(domain.PaymentStatusPending),
			SubtotalCents: subtotal,
			ShippingCents: rate.CostCents,
			TotalCents:    subtotal + rate.CostCents,
			ShipName:      params.ShippingAddress.Name,
			ShipStreet:    params.ShippingAddress.Street,
			ShipCity:      params.ShippingAddress.City,
			ShipState:     params.ShippingAddress.State,
			ShipZipCode:   params.ShippingAddress.ZipCode,
			ShipCountry:   params.ShippingAddress.Country,
			ShipPhone:     params.ShippingAddress.Phone,
			Notes:         pgText(params.Notes),
		})
		if err != nil {
			if isUniqueViolation(err) {
				// order number collision; the client can retry
				return domain.Unavailable(err, op)
			}
			return dbError(err, op, "failed to create order")
		}

		items := domain.ItemsFromCart(cart)
		for _, it := range items {
			err := q.CreateOrderItem(ctx, repository.CreateOrderItemParams{
				OrderID:    row.ID,
				BookID:     pgUUID(it.BookID),
				Title:      it.Title,
				Author:     it.Author,
				PriceCents: it.PriceCents,
				Quantity:   it.Quantity,
				ImageUrl:   pgText(it.ImageURL),
			})
			if err != nil {
				return dbError(err, op, "failed to create order item")
			}
		}

		for _, it := range items {
			if err := decrementStock(ctx, q, it.BookID, it.Quantity); err != nil {
				return err
			}
		}

		if err := q.DeleteCartLines(ctx, pgUUID(params.UserID)); err != nil {
			return dbError(err, op, "failed to clear cart")
		}

		detail = &domain.OrderDetail{Order: orderFromRow(row), Items: items}
		return nil
	})
	if err != nil {
		s.checkoutFailed(checkoutFailureReason(err))
		return nil, err
	}

	s.logger.Info("order placed",
		"order_id", detail.ID,
		"order_number", detail.OrderNumber,
		"user_id", detail.UserID,
		"total_cents", detail.TotalCents,
	)
	if telemetry.Business != nil {
		telemetry.Business.CheckoutCompleted.Inc()
		telemetry.Business.OrderValue.Observe(float64(detail.TotalCents))
		telemetry.Business.OrderItemCount.Observe(float64(detail.ItemCount()))
	}

	s.events.Publish(ctx, events.NewOrderPlaced(detail))
	s.events.Publish(ctx, events.NewCartUpdated(&domain.Cart{UserID: params.UserID}))
	return detail, nil
}

// checkStock verifies every line before any write. A missing book counts as
// out of stock and is reported by the title on the line.
func checkStock(ctx context.Context, q repository.Querier, cart *domain.Cart) error {
	for _, l := range cart.Lines {
		b, err := getBook(ctx, q, l.BookID)
		if err != nil {
			if errors.Is(err, domain.ErrBookNotFound) {
				return domain.OutOfStock("order.place", l.Title)
			}
			return err
		}
		if !b.InStock(l.Quantity) {
			return domain.OutOfStock("order.place", b.Title)
		}
	}
	return nil
}

func checkoutFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case domain.IsCode(err, domain.ECONFLICT):
		if telemetry.Business != nil {
			telemetry.Business.StockConflict.WithLabelValues("checkout").Inc()
		}
		return "out_of_stock"
	case domain.IsCode(err, domain.EINVALID):
		return "invalid"
	default:
		return "error"
	}
}

func (s *OrderService) checkoutFailed(reason string) {
	if telemetry.Business != nil {
		telemetry.Business.CheckoutFailed.WithLabelValues(reason).Inc()
	}
}

// =============================================================================
// CUSTOMER OPERATIONS
// =============================================================================

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.OrderDetail, error) {
	row, err := s.repo.GetOrderForUser(ctx, repository.GetOrderForUserParams{
		ID:     pgUUID(orderID),
		UserID: pgUUID(userID),
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, dbError(err, "order.get", "failed to get order")
	}
	return detailFromRow(ctx, s.repo, row)
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, limit int32) ([]domain.Order, error) {
	rows, err := s.repo.ListOrdersForUser(ctx, repository.ListOrdersForUserParams{
		UserID: pgUUID(userID),
		Limit:  clampLimit(limit),
	})
	if err != nil {
		return nil, dbError(err, "order.list", "failed to list orders")
	}
	return ordersFromRows(rows), nil
}

// CancelOrder cancels one of the user's orders while it is still pending.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.OrderDetail, error) {
	var (
		detail *domain.OrderDetail
		from   domain.OrderStatus
	)
	err := s.tx.InTx(ctx, func(q repository.Querier) error {
		row, err := q.GetOrderForUser(ctx, repository.GetOrderForUserParams{
			ID:     pgUUID(orderID),
			UserID: pgUUID(userID),
		})
		if err != nil {
			if isNoRows(err) {
				return domain.ErrOrderNotFound
			}
			return dbError(err, "order.cancel", "failed to get order")
		}

		from = domain.OrderStatus(row.Status)
		if !domain.CanCustomerCancel(from) {
			return domain.ErrCannotCancel
		}

		detail, err = s.transition(ctx, q, row, domain.OrderStatusCancelled, "")
		return err
	})
	if err != nil {
		return nil, err
	}

	s.transitioned(ctx, detail, from, events.ActorCustomer)
	return detail, nil
}

// OrderStats summarises every order the user has placed.
func (s *OrderService) OrderStats(ctx context.Context, userID uuid.UUID) (*domain.UserOrderStats, error) {
	rows, err := s.repo.ListOrdersForUser(ctx, repository.ListOrdersForUserParams{
		UserID: pgUUID(userID),
		Limit:  math.MaxInt32,
	})
	if err != nil {
		return nil, dbError(err, "order.stats", "failed to list orders")
	}
	return domain.ComputeUserOrderStats(ordersFromRows(rows)), nil
}

// =============================================================================
// ADMIN OPERATIONS
// =============================================================================

func (s *OrderService) GetOrderAdmin(ctx context.Context, orderID uuid.UUID) (*domain.OrderDetail, error) {
	row, err := s.repo.GetOrder(ctx, pgUUID(orderID))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, dbError(err, "order.get_admin", "failed to get order")
	}
	return detailFromRow(ctx, s.repo, row)
}

// ListAllOrders lists orders across users, newest first. An empty status lists all.
func (s *OrderService) ListAllOrders(ctx context.Context, status domain.OrderStatus, limit int32) ([]domain.Order, error) {
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	rows, err := s.repo.ListOrders(ctx, repository.ListOrdersParams{
		Status: string(status),
		Limit:  clampLimit(limit),
	})
	if err != nil {
		return nil, dbError(err, "order.list_all", "failed to list orders")
	}
	return ordersFromRows(rows), nil
}

func (s *OrderService) RecentOrders(ctx context.Context, limit int32) ([]domain.Order, error) {
	return s.ListAllOrders(ctx, "", limit)
}

// UpdateStatus applies an administrative status change. A tracking number
// may accompany a move to shipped or delivered, or be attached to an order
// already in one of those states without changing its status.
func (s *OrderService) UpdateStatus(ctx context.Context, params domain.UpdateStatusParams) (*domain.OrderDetail, error) {
	if !params.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if params.TrackingNumber != "" && !domain.AcceptsTracking(params.Status) {
		return nil, domain.ErrTrackingNotAllowed
	}

	var (
		detail *domain.OrderDetail
		from   domain.OrderStatus
	)
	err := s.tx.InTx(ctx, func(q repository.Querier) error {
		row, err := q.GetOrder(ctx, pgUUID(params.OrderID))
		if err != nil {
			if isNoRows(err) {
				return domain.ErrOrderNotFound
			}
			return dbError(err, "order.update_status", "failed to get order")
		}

		from = domain.OrderStatus(row.Status)
		trackingOnly := from == params.Status && params.TrackingNumber != ""
		if !trackingOnly && !domain.CanTransition(from, params.Status) {
			return domain.ErrInvalidTransition
		}

		detail, err = s.transition(ctx, q, row, params.Status, params.TrackingNumber)
		return err
	})
	if err != nil {
		return nil, err
	}

	if from != detail.Status {
		s.transitioned(ctx, detail, from, events.ActorAdmin)
	}
	return detail, nil
}

// transition writes the new status with a compare-and-set on the status the
// caller read, so two concurrent changes cannot both apply.
func (s *OrderService) transition(ctx context.Context, q repository.Querier, row repository.Order, to domain.OrderStatus, tracking string) (*domain.OrderDetail, error) {
	const op = "order.transition"
	from := domain.OrderStatus(row.Status)

	updated, err := q.UpdateOrderStatus(ctx, repository.UpdateOrderStatusParams{
		ID:             row.ID,
		Status:         string(to),
		PrevStatus:     string(from),
		PaymentStatus:  string(paymentStatusFor(to, domain.PaymentStatus(row.PaymentStatus))),
		TrackingNumber: pgText(tracking),
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, dbError(err, op, "failed to update order status")
	}

	detail, err := detailFromRow(ctx, q, updated)
	if err != nil {
		return nil, err
	}

	if to == domain.OrderStatusCancelled && from != to && s.restock {
		for _, it := range detail.Items {
			err := incrementStock(ctx, q, it.BookID, it.Quantity)
			if errors.Is(err, domain.ErrBookNotFound) {
				s.logger.Warn("book removed from catalog, not restocked", "order_id", detail.ID, "book_id", it.BookID)
				continue
			}
			if err != nil {
				return nil, err
			}
		}
	}

	return detail, nil
}

// paymentStatusFor settles cash on delivery when the order is delivered.
func paymentStatusFor(to domain.OrderStatus, current domain.PaymentStatus) domain.PaymentStatus {
	switch to {
	case domain.OrderStatusDelivered:
		return domain.PaymentStatusPaid
	case domain.OrderStatusRefunded:
		return domain.PaymentStatusRefunded
	default:
		return current
	}
}

func (s *OrderService) transitioned(ctx context.Context, detail *domain.OrderDetail, from domain.OrderStatus, actor string) {
	s.logger.Info("order status changed",
		"order_id", detail.ID,
		"order_number", detail.OrderNumber,
		"from", from,
		"to", detail.Status,
		"actor", actor,
	)
	telemetry.AddBreadcrumb("order", "status changed", map[string]interface{}{
		"order_number": detail.OrderNumber,
		"from":         string(from),
		"to":           string(detail.Status),
		"actor":        actor,
	})

	if telemetry.Business != nil {
		telemetry.Business.OrderTransitions.WithLabelValues(string(from), string(detail.Status)).Inc()
		switch detail.Status {
		case domain.OrderStatusCancelled:
			telemetry.Business.OrdersCancelled.WithLabelValues(actor).Inc()
		case domain.OrderStatusDelivered:
			telemetry.Business.RevenueCollected.Add(float64(detail.TotalCents))
		}
	}

	s.events.Publish(ctx, events.NewOrderStatusChanged(&detail.Order, from, actor))
}
