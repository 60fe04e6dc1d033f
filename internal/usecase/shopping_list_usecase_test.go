package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/shopping-list/internal/domain"
	"github.com/DRSN-tech/shopping-list/internal/infrastructure"
	"github.com/DRSN-tech/shopping-list/internal/repository/memory"
	"github.com/DRSN-tech/shopping-list/internal/usecase"
	"github.com/DRSN-tech/shopping-list/pkg/e"
	"github.com/DRSN-tech/shopping-list/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []usecase.ListChangedEvent
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event *usecase.ListChangedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, *event)
	return n.err
}

func (n *recordingNotifier) recorded() []usecase.ListChangedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]usecase.ListChangedEvent(nil), n.events...)
}

func newUC(t *testing.T) (*usecase.ShoppingListUseCase, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	uc := usecase.NewShoppingListUC(memory.NewProductRepo(), domain.DefaultReferenceData(), n, logger.NewNop())
	return uc, n
}

func add(t *testing.T, uc *usecase.ShoppingListUseCase, name string, shop, category int64) *domain.Product {
	t.Helper()
	p, err := uc.Add(context.Background(), usecase.NewAddProductReq(name, shop, category))
	require.NoError(t, err)
	return p
}

func names(products []domain.Product) []string {
	res := make([]string, len(products))
	for i, p := range products {
		res[i] = p.Name
	}
	return res
}

func TestShoppingListScenario(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUC(t)

	milk := add(t, uc, "Milk", 1, 3)
	lego := add(t, uc, "Lego", 3, 2)

	products, err := uc.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Milk", "Lego"}, names(products))
	assert.False(t, products[0].IsBought)
	assert.False(t, products[1].IsBought)
	assertCompleted(t, uc, false)

	res, err := uc.Toggle(ctx, milk.ID)
	require.NoError(t, err)
	assert.True(t, res.Product.IsBought)
	assert.False(t, res.Completed)
	assert.False(t, res.JustCompleted)

	res, err = uc.Toggle(ctx, lego.ID)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.True(t, res.JustCompleted)

	require.NoError(t, uc.Delete(ctx, milk.ID))

	products, err = uc.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Lego", products[0].Name)
	assert.True(t, products[0].IsBought)
	assertCompleted(t, uc, true)

	filtered, err := uc.Filter(ctx, domain.FilterCriteria{Status: domain.StatusNotBought})
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func assertCompleted(t *testing.T, uc *usecase.ShoppingListUseCase, want bool) {
	t.Helper()
	got, err := uc.Completed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	st, err := uc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, st.Completed)
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   *usecase.AddProductReq
		cause error
	}{
		{"empty name", usecase.NewAddProductReq("", 1, 1), e.ErrProductNameRequired},
		{"blank name", usecase.NewAddProductReq("   ", 1, 1), e.ErrProductNameRequired},
		{"missing shop", usecase.NewAddProductReq("Milk", 0, 1), e.ErrShopRequired},
		{"missing category", usecase.NewAddProductReq("Milk", 1, 0), e.ErrCategoryRequired},
		{"unknown shop", usecase.NewAddProductReq("Milk", 42, 1), e.ErrUnknownShop},
		{"unknown category", usecase.NewAddProductReq("Milk", 1, 42), e.ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, n := newUC(t)
			add(t, uc, "Bread", 2, 3)

			_, err := uc.Add(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, e.ErrValidation)
			assert.ErrorIs(t, err, tt.cause)

			products, err := uc.Products(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"Bread"}, names(products))
			assert.Len(t, n.recorded(), 1)
		})
	}
}

func TestAddNilRequest(t *testing.T) {
	uc, n := newUC(t)

	_, err := uc.Add(context.Background(), nil)
	assert.ErrorIs(t, err, e.ErrValidation)
	assert.ErrorIs(t, err, e.ErrEmptyRequest)
	assert.Empty(t, n.recorded())
}

func TestAddTrimsNameAndStartsUnbought(t *testing.T) {
	uc, _ := newUC(t)

	p := add(t, uc, "  Cheese ", 1, 3)
	assert.Equal(t, "Cheese", p.Name)
	assert.False(t, p.IsBought)
	assert.NotEmpty(t, p.ID)
}

func TestToggleIsInvolution(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUC(t)
	add(t, uc, "Milk", 1, 3)
	p := add(t, uc, "Phone", 1, 1)
	add(t, uc, "Ball", 3, 2)

	_, err := uc.Toggle(ctx, p.ID)
	require.NoError(t, err)
	res, err := uc.Toggle(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, res.Product.IsBought)

	products, err := uc.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Milk", "Phone", "Ball"}, names(products))
}

func TestOperationsOnDeletedProductFail(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUC(t)
	p := add(t, uc, "Milk", 1, 3)

	require.NoError(t, uc.Delete(ctx, p.ID))

	_, err := uc.Toggle(ctx, p.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)

	err = uc.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestUnknownIDFails(t *testing.T) {
	uc, n := newUC(t)

	_, err := uc.Toggle(context.Background(), "missing")
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(context.Background(), "missing"), e.ErrNotFound)
	assert.Empty(t, n.recorded())
}

func TestIDsStayUnique(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUC(t)

	for i := 0; i < 50; i++ {
		p := add(t, uc, "Item", 1+int64(i%3), 1+int64(i%3))
		if i%4 == 0 {
			_, err := uc.Toggle(ctx, p.ID)
			require.NoError(t, err)
		}
		if i%5 == 0 {
			require.NoError(t, uc.Delete(ctx, p.ID))
		}
	}

	products, err := uc.Products(ctx)
	require.NoError(t, err)

	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		_, dup := seen[p.ID]
		require.False(t, dup, "duplicate id %s", p.ID)
		seen[p.ID] = struct{}{}
	}
}

func TestCompletionFlag(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUC(t)

	assertCompleted(t, uc, false)

	p := add(t, uc, "Milk", 1, 3)
	res, err := uc.Toggle(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, res.JustCompleted)
	assertCompleted(t, uc, true)

	add(t, uc, "Bread", 2, 3)
	assertCompleted(t, uc, false)

	products, err := uc.Products(ctx)
	require.NoError(t, err)
	res, err = uc.Toggle(ctx, products[1].ID)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.True(t, res.JustCompleted)

	// Снятие отметки возвращает флаг в false
	res, err = uc.Toggle(ctx, products[1].ID)
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.False(t, res.JustCompleted)

	require.NoError(t, uc.Delete(ctx, products[1].ID))
	assertCompleted(t, uc, true)

	require.NoError(t, uc.Delete(ctx, products[0].ID))
	assertCompleted(t, uc, false)
}

func TestFilterDefaultReturnsFullList(t *testing.T) {
	uc, _ := newUC(t)
	add(t, uc, "Milk", 1, 3)
	add(t, uc, "Lego", 3, 2)
	add(t, uc, "Laptop", 1, 1)

	products, err := uc.Filter(context.Background(), domain.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Milk", "Lego", "Laptop"}, names(products))
}

func TestFilterCombinesCriteria(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUC(t)
	add(t, uc, "Milk", 1, 3)
	lego := add(t, uc, "Lego City", 3, 2)
	add(t, uc, "Lego Technic", 3, 2)
	add(t, uc, "Laptop", 1, 1)

	_, err := uc.Toggle(ctx, lego.ID)
	require.NoError(t, err)

	shop := int64(3)
	got, err := uc.Filter(ctx, domain.FilterCriteria{ShopID: &shop})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lego City", "Lego Technic"}, names(got))

	got, err = uc.Filter(ctx, domain.FilterCriteria{ShopID: &shop, Status: domain.StatusNotBought})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lego Technic"}, names(got))

	got, err = uc.Filter(ctx, domain.FilterCriteria{Name: "LEGO", Status: domain.StatusBought})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lego City"}, names(got))

	category := int64(1)
	got, err = uc.Filter(ctx, domain.FilterCriteria{ShopID: &shop, CategoryID: &category})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUC(t)
	add(t, uc, "Milk", 1, 3)
	add(t, uc, "Lego", 3, 2)
	add(t, uc, "Laptop", 2, 1)

	got, err := uc.Search(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Milk", "Lego", "Laptop"}, names(got))

	got, err = uc.Search(ctx, "lptp")
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop"}, names(got))

	// совпадение по названию магазина
	got, err = uc.Search(ctx, "toyzz")
	require.NoError(t, err)
	assert.Equal(t, []string{"Lego"}, names(got))

	// совпадение по категории
	got, err = uc.Search(ctx, "deli")
	require.NoError(t, err)
	assert.Equal(t, []string{"Milk"}, names(got))
}

func TestEventsArePublished(t *testing.T) {
	ctx := context.Background()
	uc, n := newUC(t)

	p := add(t, uc, "Milk", 1, 3)
	_, err := uc.Toggle(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, p.ID))

	events := n.recorded()
	require.Len(t, events, 3)

	assert.Equal(t, usecase.ChangeAdded, events[0].Type)
	assert.False(t, events[0].Completed)

	assert.Equal(t, usecase.ChangeToggled, events[1].Type)
	assert.True(t, events[1].Completed)
	assert.True(t, events[1].JustCompleted)
	assert.True(t, events[1].Product.IsBought)

	assert.Equal(t, usecase.ChangeDeleted, events[2].Type)
	assert.Equal(t, p.ID, events[2].Product.ID)
	assert.False(t, events[2].Completed)
}

func TestNotifierFailureDoesNotFailOperation(t *testing.T) {
	n := &recordingNotifier{err: errors.New("broker down")}
	uc := usecase.NewShoppingListUC(memory.NewProductRepo(), domain.DefaultReferenceData(), n, logger.NewNop())

	p, err := uc.Add(context.Background(), usecase.NewAddProductReq("Milk", 1, 3))
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Len(t, n.recorded(), 1)
}

func TestConcurrentToggles(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUC(t)
	p := add(t, uc, "Milk", 1, 3)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Toggle(ctx, p.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	products, err := uc.Products(ctx)
	require.NoError(t, err)
	assert.False(t, products[0].IsBought)
}

// blockingNotifier держит каждую доставку, пока не закроют release или не истечёт ctx.
type blockingNotifier struct {
	release chan struct{}
	recordingNotifier
}

func (n *blockingNotifier) Notify(ctx context.Context, event *usecase.ListChangedEvent) error {
	select {
	case <-n.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return n.recordingNotifier.Notify(ctx, event)
}

func TestMutationsDoNotWaitForSlowNotifier(t *testing.T) {
	ctx := context.Background()
	slow := &blockingNotifier{release: make(chan struct{})}
	dispatcher := infrastructure.NewDispatcher(slow, 16, 5*time.Second, logger.NewNop())
	uc := usecase.NewShoppingListUC(memory.NewProductRepo(), domain.DefaultReferenceData(), dispatcher, logger.NewNop())

	start := time.Now()
	p := add(t, uc, "Milk", 1, 3)
	_, err := uc.Toggle(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, p.ID))
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, slow.recorded())

	close(slow.release)
	require.NoError(t, dispatcher.Close(ctx))

	events := slow.recorded()
	require.Len(t, events, 3)
	assert.Equal(t, usecase.ChangeAdded, events[0].Type)
	assert.Equal(t, usecase.ChangeToggled, events[1].Type)
	assert.Equal(t, usecase.ChangeDeleted, events[2].Type)
}

func TestConcurrentMutationsKeepEventOrder(t *testing.T) {
	ctx := context.Background()
	uc, n := newUC(t)
	p := add(t, uc, "Milk", 1, 3)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Toggle(ctx, p.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Toggle-события чередуются: куплено, не куплено, куплено...
	events := n.recorded()[1:]
	require.Len(t, events, 50)
	for i, ev := range events {
		assert.Equal(t, i%2 == 0, ev.Product.IsBought, "event %d", i)
	}
}
