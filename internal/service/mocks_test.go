package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/muhammedsharbag/E-Shop-App/internal/cache"
	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
	"github.com/muhammedsharbag/E-Shop-App/internal/payment"
	"github.com/muhammedsharbag/E-Shop-App/internal/repository"
)

type mockCartRepo struct {
	mu               sync.Mutex
	carts            map[primitive.ObjectID]*domain.Cart
	err              error
	replaceConflicts int // fail this many Replace calls with ErrVersionConflict
	deletes          int
}

func newMockCartRepo(carts ...*domain.Cart) *mockCartRepo {
	m := &mockCartRepo{carts: map[primitive.ObjectID]*domain.Cart{}}
	for _, c := range carts {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		if c.Version == 0 {
			c.Version = 1
		}
		for i := range c.Items {
			if c.Items[i].ID.IsZero() {
				c.Items[i].ID = primitive.NewObjectID()
			}
		}
		m.carts[c.ID] = c
	}
	return m
}

func copyCart(c *domain.Cart) *domain.Cart {
	cp := *c
	cp.Items = append([]domain.CartItem(nil), c.Items...)
	if c.TotalAfterDiscount != nil {
		v := *c.TotalAfterDiscount
		cp.TotalAfterDiscount = &v
	}
	return &cp
}

func (m *mockCartRepo) GetByUser(_ context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.carts {
		if c.UserID == userID {
			return copyCart(c), nil
		}
	}
	return nil, repository.ErrCartNotFound
}

func (m *mockCartRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.carts[id]; ok {
		return copyCart(c), nil
	}
	return nil, repository.ErrCartNotFound
}

func (m *mockCartRepo) Create(_ context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, c := range m.carts {
		if c.UserID == cart.UserID {
			return repository.ErrDuplicateCart
		}
	}
	cart.ID = primitive.NewObjectID()
	cart.Version = 1
	cart.CreatedAt = time.Now()
	cart.UpdatedAt = time.Now()
	for i := range cart.Items {
		cart.Items[i].ID = primitive.NewObjectID()
	}
	m.carts[cart.ID] = copyCart(cart)
	return nil
}

func (m *mockCartRepo) Replace(_ context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.replaceConflicts > 0 {
		m.replaceConflicts--
		return repository.ErrVersionConflict
	}
	current, ok := m.carts[cart.ID]
	if !ok || current.Version != cart.Version {
		return repository.ErrVersionConflict
	}
	cart.Version++
	cart.UpdatedAt = time.Now()
	for i := range cart.Items {
		if cart.Items[i].ID.IsZero() {
			cart.Items[i].ID = primitive.NewObjectID()
		}
	}
	m.carts[cart.ID] = copyCart(cart)
	return nil
}

func (m *mockCartRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[id]; !ok {
		return repository.ErrCartNotFound
	}
	delete(m.carts, id)
	m.deletes++
	return nil
}

func (m *mockCartRepo) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for id, c := range m.carts {
		if c.UserID == userID {
			delete(m.carts, id)
			m.deletes++
		}
	}
	return nil
}

func (m *mockCartRepo) get(id primitive.ObjectID) *domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[id]
}

func (m *mockCartRepo) byUser(userID primitive.ObjectID) *domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.carts {
		if c.UserID == userID {
			return c
		}
	}
	return nil
}

type mockProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*domain.Product
	applied  [][]domain.StockDelta
	matched  int64 // -1 means "match everything"
	err      error
}

func newMockProductRepo(products ...*domain.Product) *mockProductRepo {
	m := &mockProductRepo{products: map[primitive.ObjectID]*domain.Product{}, matched: -1}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepo) AdjustStock(_ context.Context, deltas []domain.StockDelta) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.applied = append(m.applied, deltas)
	if m.matched >= 0 {
		return m.matched, nil
	}
	return int64(len(deltas)), nil
}

func (m *mockProductRepo) batches() [][]domain.StockDelta {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied
}

type mockCouponRepo struct {
	coupon *domain.Coupon
	err    error
}

func (m *mockCouponRepo) FindValid(_ context.Context, name string, now time.Time) (*domain.Coupon, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.coupon == nil || m.coupon.Name != name || !m.coupon.Valid(now) {
		return nil, repository.ErrCouponNotFound
	}
	return m.coupon, nil
}

func (m *mockCouponRepo) Create(_ context.Context, _ *domain.Coupon) error { return m.err }

func (m *mockCouponRepo) List(_ context.Context) ([]domain.Coupon, error) { return nil, m.err }

type mockOrderRepo struct {
	mu        sync.Mutex
	orders    []*domain.Order
	createErr error
}

func (m *mockOrderRepo) Create(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	if order.PaymentSessionID != "" {
		for _, o := range m.orders {
			if o.PaymentSessionID == order.PaymentSessionID {
				return repository.ErrDuplicateOrder
			}
		}
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepo) GetByPaymentSession(_ context.Context, sessionID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.PaymentSessionID == sessionID {
			return o, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderRepo) SetPaid(_ context.Context, id primitive.ObjectID, at time.Time) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			o.IsPaid = true
			o.PaidAt = &at
			return o, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepo) SetDelivered(_ context.Context, id primitive.ObjectID, at time.Time) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			o.IsDelivered = true
			o.DeliveredAt = &at
			return o, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *mockOrderRepo) last() *domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.orders) == 0 {
		return nil
	}
	return m.orders[len(m.orders)-1]
}

type mockUserRepo struct {
	users []*domain.User
	err   error
}

func (m *mockUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateUser
		}
	}
	user.ID = primitive.NewObjectID()
	m.users = append(m.users, user)
	return nil
}

type mockCache struct {
	mu      sync.RWMutex
	carts   map[string]*domain.Cart
	deletes int
	err     error
}

func newMockCache() *mockCache {
	return &mockCache{carts: map[string]*domain.Cart{}}
}

func (m *mockCache) Get(_ context.Context, userID string) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.carts[userID]; ok {
		return copyCart(c), nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *mockCache) Set(_ context.Context, userID string, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = copyCart(cart)
	return m.err
}

func (m *mockCache) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	m.deletes++
	return m.err
}

func (m *mockCache) has(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.carts[userID]
	return ok
}

type fakeGateway struct {
	mu          sync.Mutex
	sessions    []payment.SessionParams
	session     *payment.Session
	createErr   error
	event       *payment.Event
	verifyErr   error
	verifyCalls int
}

func (f *fakeGateway) CreateSession(_ context.Context, params payment.SessionParams) (*payment.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.sessions = append(f.sessions, params)
	if f.session != nil {
		return f.session, nil
	}
	return &payment.Session{ID: "cs_test", URL: "https://pay.example.com/cs_test"}, nil
}

func (f *fakeGateway) VerifyEvent(_ []byte, _ string) (*payment.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.event, nil
}

type mockPublisher struct {
	mu     sync.Mutex
	orders []*domain.Order
	err    error
}

func (m *mockPublisher) OrderCreated(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}
