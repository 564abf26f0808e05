package listing

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticketing-gateway/internal/model"
)

func tx(id string, status model.TransactionStatus, typ model.TransactionType, amount int64) model.Transaction {
	return model.Transaction{
		ID:     model.ID(id),
		Status: status,
		Type:   typ,
		Amount: decimal.NewFromInt(amount),
	}
}

func amounts(txs []model.Transaction) []int64 {
	out := make([]int64, len(txs))
	for i, t := range txs {
		out[i] = t.Amount.IntPart()
	}
	return out
}

func TestFilter(t *testing.T) {
	txs := []model.Transaction{
		tx("1", model.TxSuccess, model.TxTopUp, 100),
		tx("2", model.TxFailed, model.TxTicketPurchase, 50),
	}

	t.Run("ByStatus", func(t *testing.T) {
		got := Filter(txs, Criteria{Status: "SUCCESS"})
		require.Len(t, got, 1)
		assert.Equal(t, model.ID("1"), got[0].ID)
	})

	t.Run("ByType", func(t *testing.T) {
		got := Filter(txs, Criteria{Type: "TICKET_PURCHASE"})
		require.Len(t, got, 1)
		assert.Equal(t, model.ID("2"), got[0].ID)
	})

	t.Run("Conjunction", func(t *testing.T) {
		assert.Empty(t, Filter(txs, Criteria{Status: "SUCCESS", Type: "TICKET_PURCHASE"}))
	})

	t.Run("AllAndEmptyMatchEverything", func(t *testing.T) {
		assert.Len(t, Filter(txs, Criteria{Status: "ALL", Type: ""}), 2)
	})

	t.Run("SearchIsCaseInsensitive", func(t *testing.T) {
		list := []model.Transaction{
			{ID: "abc-1", Username: "Budi", Description: "Top up via bank"},
			{ID: "xyz-2", Username: "siti", Description: "Ticket Jazz Night"},
		}
		assert.Len(t, Filter(list, Criteria{Search: "budi"}), 1)
		assert.Len(t, Filter(list, Criteria{Search: "JAZZ"}), 1)
		assert.Len(t, Filter(list, Criteria{Search: "xyz"}), 1)
		assert.Empty(t, Filter(list, Criteria{Search: "nothing"}))
	})
}

func TestSort(t *testing.T) {
	base := []model.Transaction{
		tx("a", model.TxSuccess, model.TxTopUp, 50),
		tx("b", model.TxSuccess, model.TxTopUp, 100),
	}

	high := append([]model.Transaction(nil), base...)
	Sort(high, SortAmountHigh)
	assert.Equal(t, []int64{100, 50}, amounts(high))

	low := append([]model.Transaction(nil), base...)
	Sort(low, SortAmountLow)
	assert.Equal(t, []int64{50, 100}, amounts(low))

	t.Run("ByTime", func(t *testing.T) {
		now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
		list := []model.Transaction{
			{ID: "old", CreatedAt: model.Timestamp{Time: now.Add(-time.Hour)}},
			{ID: "new", Timestamp: model.Timestamp{Time: now}},
		}
		Sort(list, "")
		assert.Equal(t, model.ID("new"), list[0].ID)
		Sort(list, SortOldest)
		assert.Equal(t, model.ID("old"), list[0].ID)
	})

	t.Run("StableOnTies", func(t *testing.T) {
		list := []model.Transaction{
			tx("first", model.TxSuccess, model.TxTopUp, 10),
			tx("p", model.TxSuccess, model.TxTicketPurchase, 10),
			tx("second", model.TxSuccess, model.TxTopUp, 10),
		}
		Sort(list, SortType)
		assert.Equal(t, []model.ID{"p", "first", "second"}, []model.ID{list[0].ID, list[1].ID, list[2].ID})
	})
}

func TestPaginate(t *testing.T) {
	list := make([]model.Transaction, 25)
	for i := range list {
		list[i] = tx(fmt.Sprint(i), model.TxSuccess, model.TxTopUp, int64(i))
	}

	p := Paginate(list, 1)
	assert.Len(t, p.Items, PageSize)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 25, p.TotalItems)

	last := Paginate(list, 3)
	assert.Len(t, last.Items, 5)

	clamped := Paginate(list, 99)
	assert.Equal(t, 3, clamped.Page)

	empty := Paginate(nil, 4)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestCriteriaResetsPage(t *testing.T) {
	c := Criteria{Page: 3}
	assert.Equal(t, 1, c.WithStatus("FAILED").Page)
	assert.Equal(t, 1, c.WithType("TOP_UP").Page)
	assert.Equal(t, 1, c.WithSearch("x").Page)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	list := []model.Transaction{
		tx("a", model.TxSuccess, model.TxTopUp, 1),
		tx("b", model.TxSuccess, model.TxTopUp, 2),
	}
	Apply(list, Criteria{Sort: SortAmountHigh})
	assert.Equal(t, model.ID("a"), list[0].ID)
}
