package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	"github.com/SscSPs/orders_sync_app/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/orders_sync_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var errInjected = errors.New("injected failure")

// --- in-memory order repository ---

type memOrderRepo struct {
	mu             sync.Mutex
	orders         map[int64]domain.Order
	sequenceResets int
	failDelete     bool
}

func newMemOrderRepo(orders ...domain.Order) *memOrderRepo {
	r := &memOrderRepo{orders: make(map[int64]domain.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func sortedOrders(m map[int64]domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(m))
	for _, o := range m {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memOrderRepo) ids() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for _, o := range sortedOrders(r.orders) {
		ids = append(ids, o.ID)
	}
	return ids
}

func (r *memOrderRepo) get(id int64) (domain.Order, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	return o, ok
}

func (r *memOrderRepo) FindOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	return &o, nil
}

func (r *memOrderRepo) ListOrders(_ context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedOrders(r.orders), nil
}

func (r *memOrderRepo) ListOrdersPage(_ context.Context, afterID int64, limit int) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var page []domain.Order
	for _, o := range sortedOrders(r.orders) {
		if o.ID > afterID && len(page) < limit {
			page = append(page, o)
		}
	}
	return page, nil
}

func (r *memOrderRepo) ListOrdersDeliveredBy(_ context.Context, asOf time.Time) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []domain.Order
	for _, o := range sortedOrders(r.orders) {
		if o.IsDueBy(asOf) {
			due = append(due, o)
		}
	}
	return due, nil
}

func (r *memOrderRepo) WithinReconcileTx(ctx context.Context, fn func(ctx context.Context, store portsrepo.OrderReconcileStore) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := &memOrderTx{orders: make(map[int64]domain.Order, len(r.orders)), failDelete: r.failDelete}
	for id, o := range r.orders {
		tx.orders[id] = o
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	r.orders = tx.orders
	r.sequenceResets += tx.sequenceResets
	return nil
}

type memOrderTx struct {
	orders         map[int64]domain.Order
	sequenceResets int
	failDelete     bool
}

func (t *memOrderTx) ListOrders(_ context.Context) ([]domain.Order, error) {
	return sortedOrders(t.orders), nil
}

func (t *memOrderTx) InsertOrders(_ context.Context, orders []domain.Order) error {
	for _, o := range orders {
		if _, exists := t.orders[o.ID]; exists {
			return apperrors.ErrDuplicate
		}
		t.orders[o.ID] = o
	}
	return nil
}

func (t *memOrderTx) UpdateOrders(_ context.Context, orders []domain.Order) error {
	for _, o := range orders {
		if _, exists := t.orders[o.ID]; !exists {
			return apperrors.ErrNotFound
		}
		t.orders[o.ID] = o
	}
	return nil
}

func (t *memOrderTx) DeleteOrders(_ context.Context, ids []int64) (int64, error) {
	if t.failDelete {
		return 0, errInjected
	}
	var n int64
	for _, id := range ids {
		if _, ok := t.orders[id]; ok {
			delete(t.orders, id)
			n++
		}
	}
	return n, nil
}

func (t *memOrderTx) ResetOrderIDSequence(_ context.Context) error {
	t.sequenceResets++
	return nil
}

// --- in-memory recipient and notification repositories ---

type memRecipientRepo struct {
	recipients []domain.NotificationRecipient
	nextID     int64
	failList   bool
}

func (r *memRecipientRepo) ListRecipients(_ context.Context) ([]domain.NotificationRecipient, error) {
	if r.failList {
		return nil, errInjected
	}
	return append([]domain.NotificationRecipient(nil), r.recipients...), nil
}

func (r *memRecipientRepo) FindRecipientByID(_ context.Context, id int64) (*domain.NotificationRecipient, error) {
	for _, rc := range r.recipients {
		if rc.ID == id {
			return &rc, nil
		}
	}
	return nil, apperrors.NewNotFoundError("recipient not found")
}

func (r *memRecipientRepo) SaveRecipient(_ context.Context, recipient domain.NotificationRecipient) (*domain.NotificationRecipient, error) {
	for _, rc := range r.recipients {
		if rc.ExternalID == recipient.ExternalID {
			return nil, apperrors.ErrDuplicate
		}
	}
	r.nextID++
	recipient.ID = r.nextID
	r.recipients = append(r.recipients, recipient)
	return &recipient, nil
}

func (r *memRecipientRepo) DeleteRecipient(_ context.Context, id int64) error {
	for i, rc := range r.recipients {
		if rc.ID == id {
			r.recipients = append(r.recipients[:i], r.recipients[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFoundError("recipient not found")
}

type notificationKey struct{ orderID, recipientID int64 }

type memNotificationRepo struct {
	records map[notificationKey]domain.OrderNotification
	upserts int
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{records: make(map[notificationKey]domain.OrderNotification)}
}

func (r *memNotificationRepo) ListSentOrderIDs(_ context.Context, recipientID int64) ([]int64, error) {
	var ids []int64
	for k, n := range r.records {
		if k.recipientID == recipientID && n.IsSent {
			ids = append(ids, k.orderID)
		}
	}
	return ids, nil
}

func (r *memNotificationRepo) UpsertSentNotifications(_ context.Context, recipientID int64, orderIDs []int64) error {
	r.upserts++
	for _, id := range orderIDs {
		k := notificationKey{orderID: id, recipientID: recipientID}
		n := r.records[k]
		n.OrderID, n.RecipientID, n.IsSent = id, recipientID, true
		r.records[k] = n
	}
	return nil
}

// --- testify mocks for gateways ---

type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) GetRate(ctx context.Context, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockRowSource struct {
	mock.Mock
}

func (m *MockRowSource) FetchRows(ctx context.Context) ([][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}

type MockMessageTransport struct {
	mock.Mock
}

func (m *MockMessageTransport) Open(ctx context.Context) (gateways.MessageSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(gateways.MessageSession), args.Error(1)
}

type MockMessageSession struct {
	mock.Mock
}

func (m *MockMessageSession) Send(ctx context.Context, externalID string, text string) error {
	args := m.Called(ctx, externalID, text)
	return args.Error(0)
}

func (m *MockMessageSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(ctx context.Context, rows []domain.SheetRow) (*domain.ReconciliationResult, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationResult), args.Error(1)
}

// Ensure fakes implement the interfaces
var (
	_ portsrepo.OrderRepositoryFacade        = (*memOrderRepo)(nil)
	_ portsrepo.RecipientRepositoryFacade    = (*memRecipientRepo)(nil)
	_ portsrepo.NotificationRepositoryFacade = (*memNotificationRepo)(nil)
	_ gateways.RateProvider                  = (*MockRateProvider)(nil)
	_ gateways.RowSource                     = (*MockRowSource)(nil)
	_ gateways.MessageTransport              = (*MockMessageTransport)(nil)
	_ gateways.MessageSession                = (*MockMessageSession)(nil)
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sheetRow(id int64, orderID string, cost int64, delivery time.Time) domain.SheetRow {
	c := decimal.NewFromInt(cost)
	return domain.SheetRow{ID: id, OrderID: orderID, CostSource: c, CostTarget: c.Mul(decimal.NewFromInt(75)), DeliveryDate: delivery}
}
