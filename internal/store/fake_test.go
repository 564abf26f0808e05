package store

import (
	"context"
	"sync"

	"github.com/iliyamo/ticketing-gateway/internal/apiclient"
	"github.com/iliyamo/ticketing-gateway/internal/model"
)

// fakeAPI implements TransactionAPI and EventAPI in memory.
type fakeAPI struct {
	mu      sync.Mutex
	calls   map[string]int
	txs     []model.Transaction
	events  []model.Event
	balance int64
	err     error
	// cancelEcho controls whether CancelEvent returns the updated event.
	cancelEcho *model.Event
}

func newFakeAPI() *fakeAPI { return &fakeAPI{calls: map[string]int{}} }

func (f *fakeAPI) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := f.hit("list"); err != nil {
		return nil, err
	}
	return append([]model.Transaction(nil), f.txs...), nil
}

func (f *fakeAPI) MyTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := f.hit("mine"); err != nil {
		return nil, err
	}
	return append([]model.Transaction(nil), f.txs...), nil
}

func (f *fakeAPI) DeleteTransaction(ctx context.Context, id string) error { return f.hit("delete") }

func (f *fakeAPI) DeleteAllTransactions(ctx context.Context) error { return f.hit("delete-all") }

func (f *fakeAPI) MarkTransactionFailed(ctx context.Context, id string) error {
	return f.hit("failed")
}

func (f *fakeAPI) PurchaseTicket(ctx context.Context, eventID string) (*model.Transaction, error) {
	if err := f.hit("purchase"); err != nil {
		return nil, err
	}
	tx := model.Transaction{ID: "p1", Type: model.TxTicketPurchase, Status: model.TxSuccess, EventID: model.ID(eventID)}
	f.mu.Lock()
	f.txs = append(f.txs, tx)
	f.balance -= 100
	f.mu.Unlock()
	return &tx, nil
}

func (f *fakeAPI) TopUpHistory(ctx context.Context) ([]model.Transaction, error) {
	if err := f.hit("history"); err != nil {
		return nil, err
	}
	return append([]model.Transaction(nil), f.txs...), nil
}

func (f *fakeAPI) TopUp(ctx context.Context, amount int64) error {
	if err := f.hit("topup"); err != nil {
		return err
	}
	f.mu.Lock()
	f.balance += amount
	f.txs = append(f.txs, model.Transaction{ID: "t1", Type: model.TxTopUp, Status: model.TxSuccess})
	f.mu.Unlock()
	return nil
}

func (f *fakeAPI) Me(ctx context.Context) (*model.User, error) {
	if err := f.hit("me"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &model.User{ID: "u1", Role: model.RoleAttendee, Balance: model.Rupiah(f.balance)}, nil
}

func (f *fakeAPI) ListEvents(ctx context.Context) ([]model.Event, error) {
	if err := f.hit("events"); err != nil {
		return nil, err
	}
	return append([]model.Event(nil), f.events...), nil
}

func (f *fakeAPI) MyEvents(ctx context.Context) ([]model.Event, error) {
	if err := f.hit("my-events"); err != nil {
		return nil, err
	}
	return append([]model.Event(nil), f.events...), nil
}

func (f *fakeAPI) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if err := f.hit("event"); err != nil {
		return nil, err
	}
	for _, e := range f.events {
		if e.ID.String() == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, &apiclient.Error{StatusCode: 404, Message: "Event not found"}
}

func (f *fakeAPI) CreateEvent(ctx context.Context, in model.EventInput) (*model.Event, error) {
	if err := f.hit("create"); err != nil {
		return nil, err
	}
	return &model.Event{ID: "new", Title: in.Title, Price: in.Price, Active: true}, nil
}

func (f *fakeAPI) UpdateEvent(ctx context.Context, id string, in model.EventInput) (*model.Event, error) {
	if err := f.hit("update"); err != nil {
		return nil, err
	}
	return &model.Event{ID: model.ID(id), Title: in.Title, Price: in.Price, Active: true}, nil
}

func (f *fakeAPI) DeleteEvent(ctx context.Context, id string) error { return f.hit("delete-event") }

func (f *fakeAPI) CancelEvent(ctx context.Context, id string) (*model.Event, error) {
	if err := f.hit("cancel"); err != nil {
		return nil, err
	}
	return f.cancelEcho, nil
}
