package postgres

import (
	"context"
	"sort"
	"time"

	"github.com/dukerupert/bookworld/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// fakeDB is an in-memory repository.Querier. Methods not overridden here
// panic through the nil embedded interface.
type fakeDB struct {
	repository.Querier

	books      map[uuid.UUID]repository.Book
	cart       map[uuid.UUID][]repository.CartLine
	orders     map[uuid.UUID]repository.Order
	orderItems []repository.OrderItem
	wishlist   map[uuid.UUID][]repository.WishlistItem
	users      map[uuid.UUID]repository.User

	position int64
	writes   int

	// failOn makes the named method return err.
	failOn map[string]error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		books:    make(map[uuid.UUID]repository.Book),
		cart:     make(map[uuid.UUID][]repository.CartLine),
		orders:   make(map[uuid.UUID]repository.Order),
		wishlist: make(map[uuid.UUID][]repository.WishlistItem),
		users:    make(map[uuid.UUID]repository.User),
		failOn:   make(map[string]error),
	}
}

func (f *fakeDB) clone() *fakeDB {
	c := newFakeDB()
	for k, v := range f.books {
		c.books[k] = v
	}
	for k, v := range f.cart {
		c.cart[k] = append([]repository.CartLine(nil), v...)
	}
	for k, v := range f.orders {
		c.orders[k] = v
	}
	c.orderItems = append([]repository.OrderItem(nil), f.orderItems...)
	for k, v := range f.wishlist {
		c.wishlist[k] = append([]repository.WishlistItem(nil), v...)
	}
	for k, v := range f.users {
		c.users[k] = v
	}
	c.position = f.position
	c.writes = f.writes
	c.failOn = f.failOn
	return c
}

func (f *fakeDB) restore(from *fakeDB) {
	f.books = from.books
	f.cart = from.cart
	f.orders = from.orders
	f.orderItems = from.orderItems
	f.wishlist = from.wishlist
	f.users = from.users
	f.position = from.position
	f.writes = from.writes
}

func (f *fakeDB) fail(method string) error {
	return f.failOn[method]
}

func uid(id pgtype.UUID) uuid.UUID { return uuid.UUID(id.Bytes) }

func pgNow() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: time.Now(), Valid: true}
}

// fakeTx runs fn against db and restores the previous state when fn fails,
// matching a rolled back transaction.
type fakeTx struct {
	db *fakeDB
}

func (t fakeTx) InTx(ctx context.Context, fn func(q repository.Querier) error) error {
	saved := t.db.clone()
	if err := fn(t.db); err != nil {
		t.db.restore(saved)
		return err
	}
	return nil
}

func (f *fakeDB) addBook(title string, priceCents, stock int32) uuid.UUID {
	id := uuid.New()
	f.books[id] = repository.Book{
		ID:         pgUUID(id),
		Title:      title,
		Author:     "Author of " + title,
		Category:   "Fiction",
		Language:   "English",
		PriceCents: priceCents,
		Stock:      stock,
		Rating:     4.5,
		CreatedAt:  pgNow(),
		UpdatedAt:  pgNow(),
	}
	return id
}

// =============================================================================
// Books
// =============================================================================

func (f *fakeDB) GetBook(ctx context.Context, id pgtype.UUID) (repository.Book, error) {
	if err := f.fail("GetBook"); err != nil {
		return repository.Book{}, err
	}
	b, ok := f.books[uid(id)]
	if !ok {
		return repository.Book{}, pgx.ErrNoRows
	}
	return b, nil
}

func (f *fakeDB) ListAllBooks(ctx context.Context) ([]repository.Book, error) {
	out := make([]repository.Book, 0, len(f.books))
	for _, b := range f.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	return out, nil
}

func (f *fakeDB) DecrementBookStock(ctx context.Context, arg repository.DecrementBookStockParams) (int64, error) {
	b, ok := f.books[uid(arg.ID)]
	if !ok || b.Stock < arg.Quantity {
		return 0, nil
	}
	b.Stock -= arg.Quantity
	f.books[uid(arg.ID)] = b
	f.writes++
	return 1, nil
}

func (f *fakeDB) IncrementBookStock(ctx context.Context, arg repository.IncrementBookStockParams) (int64, error) {
	b, ok := f.books[uid(arg.ID)]
	if !ok {
		return 0, nil
	}
	b.Stock += arg.Quantity
	f.books[uid(arg.ID)] = b
	f.writes++
	return 1, nil
}

// =============================================================================
// Cart
// =============================================================================

func (f *fakeDB) ListCartLines(ctx context.Context, userID pgtype.UUID) ([]repository.CartLine, error) {
	if err := f.fail("ListCartLines"); err != nil {
		return nil, err
	}
	lines := append([]repository.CartLine{}, f.cart[uid(userID)]...)
	sort.Slice(lines, func(i, j int) bool { return lines[i].Position < lines[j].Position })
	return lines, nil
}

func (f *fakeDB) GetCartLine(ctx context.Context, arg repository.GetCartLineParams) (repository.CartLine, error) {
	for _, l := range f.cart[uid(arg.UserID)] {
		if l.BookID == arg.BookID {
			return l, nil
		}
	}
	return repository.CartLine{}, pgx.ErrNoRows
}

func (f *fakeDB) UpsertCartLine(ctx context.Context, arg repository.UpsertCartLineParams) (repository.CartLine, error) {
	f.writes++
	lines := f.cart[uid(arg.UserID)]
	for i, l := range lines {
		if l.BookID == arg.BookID {
			// cart_lines_quantity_check
			if int64(lines[i].Quantity)+int64(arg.Quantity) > 99 {
				return repository.CartLine{}, &pgconn.PgError{Code: "23514", ConstraintName: "cart_lines_quantity_check"}
			}
			lines[i].Quantity += arg.Quantity
			return lines[i], nil
		}
	}
	f.position++
	line := repository.CartLine{
		UserID:     arg.UserID,
		BookID:     arg.BookID,
		Quantity:   arg.Quantity,
		Title:      arg.Title,
		Author:     arg.Author,
		PriceCents: arg.PriceCents,
		ImageUrl:   arg.ImageUrl,
		Position:   f.position,
		AddedAt:    pgNow(),
	}
	f.cart[uid(arg.UserID)] = append(lines, line)
	return line, nil
}

func (f *fakeDB) SetCartLineQuantity(ctx context.Context, arg repository.SetCartLineQuantityParams) (int64, error) {
	lines := f.cart[uid(arg.UserID)]
	for i, l := range lines {
		if l.BookID == arg.BookID {
			lines[i].Quantity = arg.Quantity
			f.writes++
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeDB) DeleteCartLine(ctx context.Context, arg repository.DeleteCartLineParams) error {
	lines := f.cart[uid(arg.UserID)]
	kept := lines[:0]
	for _, l := range lines {
		if l.BookID != arg.BookID {
			kept = append(kept, l)
		}
	}
	f.cart[uid(arg.UserID)] = kept
	f.writes++
	return nil
}

func (f *fakeDB) DeleteCartLines(ctx context.Context, userID pgtype.UUID) error {
	delete(f.cart, uid(userID))
	f.writes++
	return nil
}

// =============================================================================
// Orders
// =============================================================================

func (f *fakeDB) CreateOrder(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
	if err := f.fail("CreateOrder"); err != nil {
		return repository.Order{}, err
	}
	f.writes++
	o := repository.Order{
		ID:            pgUUID(uuid.New()),
		OrderNumber:   arg.OrderNumber,
		UserID:        arg.UserID,
		Status:        arg.Status,
		PaymentMethod: arg.PaymentMethod,
		PaymentStatus: arg.PaymentStatus,
		SubtotalCents: arg.SubtotalCents,
		ShippingCents: arg.ShippingCents,
		TotalCents:    arg.TotalCents,
		ShipName:      arg.ShipName,
		ShipStreet:    arg.ShipStreet,
		ShipCity:      arg.ShipCity,
		ShipState:     arg.ShipState,
		ShipZipCode:   arg.ShipZipCode,
		ShipCountry:   arg.ShipCountry,
		ShipPhone:     arg.ShipPhone,
		Notes:         arg.Notes,
		CreatedAt:     pgNow(),
		UpdatedAt:     pgNow(),
	}
	f.orders[uid(o.ID)] = o
	return o, nil
}

func (f *fakeDB) CreateOrderItem(ctx context.Context, arg repository.CreateOrderItemParams) error {
	f.writes++
	f.orderItems = append(f.orderItems, repository.OrderItem{
		OrderID:    arg.OrderID,
		BookID:     arg.BookID,
		Title:      arg.Title,
		Author:     arg.Author,
		PriceCents: arg.PriceCents,
		Quantity:   arg.Quantity,
		ImageUrl:   arg.ImageUrl,
	})
	return nil
}

func (f *fakeDB) ListOrderItems(ctx context.Context, orderIds []pgtype.UUID) ([]repository.OrderItem, error) {
	want := make(map[uuid.UUID]bool, len(orderIds))
	for _, id := range orderIds {
		want[uid(id)] = true
	}
	var out []repository.OrderItem
	for _, it := range f.orderItems {
		if want[uid(it.OrderID)] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeDB) GetOrder(ctx context.Context, id pgtype.UUID) (repository.Order, error) {
	o, ok := f.orders[uid(id)]
	if !ok {
		return repository.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (f *fakeDB) GetOrderForUser(ctx context.Context, arg repository.GetOrderForUserParams) (repository.Order, error) {
	o, ok := f.orders[uid(arg.ID)]
	if !ok || o.UserID != arg.UserID {
		return repository.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (f *fakeDB) ListOrdersForUser(ctx context.Context, arg repository.ListOrdersForUserParams) ([]repository.Order, error) {
	var out []repository.Order
	for _, o := range f.orders {
		if o.UserID == arg.UserID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeDB) ListOrders(ctx context.Context, arg repository.ListOrdersParams) ([]repository.Order, error) {
	var out []repository.Order
	for _, o := range f.orders {
		if arg.Status == "" || o.Status == arg.Status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeDB) UpdateOrderStatus(ctx context.Context, arg repository.UpdateOrderStatusParams) (repository.Order, error) {
	o, ok := f.orders[uid(arg.ID)]
	if !ok || o.Status != arg.PrevStatus {
		return repository.Order{}, pgx.ErrNoRows
	}
	o.Status = arg.Status
	o.PaymentStatus = arg.PaymentStatus
	if arg.TrackingNumber.Valid {
		o.TrackingNumber = arg.TrackingNumber
	}
	o.UpdatedAt = pgNow()
	f.orders[uid(arg.ID)] = o
	f.writes++
	return o, nil
}

// =============================================================================
// Wishlist
// =============================================================================

func (f *fakeDB) InsertWishlistItem(ctx context.Context, arg repository.InsertWishlistItemParams) (int64, error) {
	for _, it := range f.wishlist[uid(arg.UserID)] {
		if it.BookID == arg.BookID {
			return 0, nil
		}
	}
	added := arg.AddedAt
	if !added.Valid {
		added = pgNow()
	}
	f.wishlist[uid(arg.UserID)] = append(f.wishlist[uid(arg.UserID)], repository.WishlistItem{
		UserID:     arg.UserID,
		BookID:     arg.BookID,
		Title:      arg.Title,
		Author:     arg.Author,
		PriceCents: arg.PriceCents,
		ImageUrl:   arg.ImageUrl,
		Rating:     arg.Rating,
		AddedAt:    added,
	})
	return 1, nil
}

func (f *fakeDB) GetWishlistItem(ctx context.Context, arg repository.GetWishlistItemParams) (repository.WishlistItem, error) {
	for _, it := range f.wishlist[uid(arg.UserID)] {
		if it.BookID == arg.BookID {
			return it, nil
		}
	}
	return repository.WishlistItem{}, pgx.ErrNoRows
}

func (f *fakeDB) ListWishlistItems(ctx context.Context, userID pgtype.UUID) ([]repository.WishlistItem, error) {
	items := append([]repository.WishlistItem{}, f.wishlist[uid(userID)]...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].AddedAt.Time.After(items[j].AddedAt.Time) })
	return items, nil
}

func (f *fakeDB) DeleteWishlistItem(ctx context.Context, arg repository.DeleteWishlistItemParams) error {
	items := f.wishlist[uid(arg.UserID)]
	kept := items[:0]
	for _, it := range items {
		if it.BookID != arg.BookID {
			kept = append(kept, it)
		}
	}
	f.wishlist[uid(arg.UserID)] = kept
	return nil
}

func (f *fakeDB) CountWishlistItems(ctx context.Context, userID pgtype.UUID) (int64, error) {
	return int64(len(f.wishlist[uid(userID)])), nil
}

func (f *fakeDB) DeleteWishlistItems(ctx context.Context, userID pgtype.UUID) error {
	delete(f.wishlist, uid(userID))
	return nil
}

// =============================================================================
// Users
// =============================================================================

func (f *fakeDB) CreateUser(ctx context.Context, arg repository.CreateUserParams) (repository.User, error) {
	for _, u := range f.users {
		if u.Email == arg.Email {
			return repository.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	u := repository.User{
		ID:           pgUUID(uuid.New()),
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		FirstName:    arg.FirstName,
		LastName:     arg.LastName,
		Phone:        arg.Phone,
		Country:      "India",
		ProfileImage: arg.ProfileImage,
		AuthProvider: arg.AuthProvider,
		IsAdmin:      arg.IsAdmin,
		IsActive:     true,
		CreatedAt:    pgNow(),
		UpdatedAt:    pgNow(),
	}
	f.users[uid(u.ID)] = u
	return u, nil
}

func (f *fakeDB) GetUserByEmail(ctx context.Context, email string) (repository.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, pgx.ErrNoRows
}

func (f *fakeDB) GetUserByID(ctx context.Context, id pgtype.UUID) (repository.User, error) {
	u, ok := f.users[uid(id)]
	if !ok {
		return repository.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeDB) ListUsers(ctx context.Context) ([]repository.User, error) {
	out := make([]repository.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	return out, nil
}

func (f *fakeDB) UpdateUserLastLogin(ctx context.Context, id pgtype.UUID) error {
	if err := f.fail("UpdateUserLastLogin"); err != nil {
		return err
	}
	u, ok := f.users[uid(id)]
	if ok {
		u.LastLoginAt = pgNow()
		f.users[uid(id)] = u
	}
	return nil
}

func (f *fakeDB) UpdateUserPassword(ctx context.Context, arg repository.UpdateUserPasswordParams) error {
	if err := f.fail("UpdateUserPassword"); err != nil {
		return err
	}
	u, ok := f.users[uid(arg.ID)]
	if !ok {
		return nil
	}
	u.PasswordHash = arg.PasswordHash
	f.users[uid(arg.ID)] = u
	return nil
}

func (f *fakeDB) UpdateUserProfile(ctx context.Context, arg repository.UpdateUserProfileParams) (repository.User, error) {
	u, ok := f.users[uid(arg.ID)]
	if !ok {
		return repository.User{}, pgx.ErrNoRows
	}
	u.FirstName = arg.FirstName
	u.LastName = arg.LastName
	u.Phone = arg.Phone
	u.Bio = arg.Bio
	u.Street = arg.Street
	u.City = arg.City
	u.State = arg.State
	u.ZipCode = arg.ZipCode
	u.Country = arg.Country
	u.UpdatedAt = pgNow()
	f.users[uid(arg.ID)] = u
	return u, nil
}
