package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/catalog_assistant/internal/cart"
	"github.com/GTDGit/catalog_assistant/internal/models"
	"github.com/GTDGit/catalog_assistant/internal/session"
	"github.com/GTDGit/catalog_assistant/internal/utils"
)

type fakeCatalog struct {
	rows []models.RawProduct
	err  error
}

func (f *fakeCatalog) LoadProducts(ctx context.Context) ([]models.RawProduct, error) {
	return f.rows, f.err
}

type fakePurchases struct {
	records []models.PurchaseRecord
	err     error
}

func (f *fakePurchases) LoadPurchases(ctx context.Context) ([]models.PurchaseRecord, error) {
	return f.records, f.err
}

type recordingNotifier struct {
	mu      sync.Mutex
	carts   []string
	orders  []cart.Order
	reloads int
}

func (r *recordingNotifier) NotifyCartUpdated(sessionID string, lines []cart.Line) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts = append(r.carts, sessionID)
}

func (r *recordingNotifier) NotifyOrderSubmitted(sessionID string, order cart.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order)
}

func (r *recordingNotifier) NotifyCatalogReloaded(products, purchases int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reloads++
}

func product(name, category, price string) models.RawProduct {
	r := models.RawProduct{Name: &name, Category: &category}
	if price != "" {
		r.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	return r
}

func purchase(name, category string) models.PurchaseRecord {
	return models.PurchaseRecord{ProductName: name, Category: category}
}

type fixture struct {
	svc       *AssistantService
	catalog   *fakeCatalog
	purchases *fakePurchases
	notifier  *recordingNotifier
	store     *session.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		catalog: &fakeCatalog{rows: []models.RawProduct{
			product("Premia Tea Masala", "Grocery", "50"),
			product("Sugar Cubes", "Grocery", "25"),
			product("Elaichi", "Grocery", "100"),
			product("Laptop", "Electronics", "40000"),
			product("Mouse", "Electronics", "500"),
			product("Mixer", "Appliances", ""),
		}},
		purchases: &fakePurchases{records: []models.PurchaseRecord{
			purchase("Sugar Cubes", "Grocery"),
			purchase("Premia Tea Masala", "Grocery"),
			purchase("Sugar Cubes", "Grocery"),
			purchase("Mouse", "Electronics"),
			purchase("Elaichi", "Grocery"),
			purchase("Premia Tea Masala", "Grocery"),
			purchase("Premia Tea Masala", "Grocery"),
		}},
		notifier: &recordingNotifier{},
		store:    session.NewMemoryStore(time.Hour),
	}
	f.svc = NewAssistantService(f.catalog, f.purchases, f.store, f.notifier, 5)

	changed, err := f.svc.Reload(context.Background())
	require.NoError(t, err)
	require.True(t, changed)
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAssistantService_NotLoaded(t *testing.T) {
	svc := NewAssistantService(&fakeCatalog{}, &fakePurchases{}, session.NewMemoryStore(time.Hour), nil, 5)

	_, err := svc.CreateSession(context.Background())
	assert.ErrorIs(t, err, utils.ErrDatasetNotLoaded)

	_, err = svc.Trending(0)
	assert.ErrorIs(t, err, utils.ErrDatasetNotLoaded)
}

func TestAssistantService_ReloadDetectsChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	changed, err := f.svc.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	f.purchases.records = append(f.purchases.records, purchase("Laptop", "Electronics"))
	changed, err = f.svc.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, f.notifier.reloads)

	f.catalog.err = assert.AnError
	_, err = f.svc.Reload(ctx)
	assert.ErrorIs(t, err, assert.AnError)

	ds, err := f.svc.Dataset()
	require.NoError(t, err)
	assert.Len(t, ds.Purchases, 8, "failed reload keeps the previous dataset")
}

func TestAssistantService_CreateSessionDefaults(t *testing.T) {
	f := newFixture(t)

	view, err := f.svc.CreateSession(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, []string{"Grocery", "Electronics", "Appliances"}, view.Selection.Categories)
	assert.Equal(t, "Grocery", view.Selection.SelectedCategory)
	assert.Equal(t, "Premia Tea Masala", view.Selection.SelectedProduct)
	require.Len(t, view.Selection.Products, 3)
	assert.True(t, view.Selection.Products[0].FinalPrice.Equal(dec("59")))

	assert.Equal(t, []models.ProductCount{
		{Name: "Premia Tea Masala", Count: 3},
		{Name: "Sugar Cubes", Count: 2},
		{Name: "Mouse", Count: 1},
		{Name: "Elaichi", Count: 1},
	}, view.Trending.Items)
	assert.Empty(t, view.Trending.Message)

	assert.Equal(t, []models.ProductCount{
		{Name: "Sugar Cubes", Count: 2},
		{Name: "Elaichi", Count: 1},
	}, view.Recommendations.Items)
	assert.Equal(t, "Recommended Products for 'Premia Tea Masala'", view.Recommendations.Title)

	assert.Equal(t, MsgCartEmpty, view.Cart.Message)
	assert.False(t, view.Cart.CanSubmit)
	assert.Nil(t, view.Order)
}

func TestAssistantService_EmptyPurchaseLog(t *testing.T) {
	f := newFixture(t)
	f.purchases.records = nil
	_, err := f.svc.Reload(context.Background())
	require.NoError(t, err)

	view, err := f.svc.CreateSession(context.Background())
	require.NoError(t, err)

	assert.Empty(t, view.Trending.Items)
	assert.Equal(t, MsgNoTrending, view.Trending.Message)
	assert.Empty(t, view.Recommendations.Items)
	assert.Equal(t, MsgNoRelated, view.Recommendations.Message)
}

func TestAssistantService_OnCategorySelected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	sid := view.SessionID

	view, err = f.svc.OnCategorySelected(ctx, sid, "Electronics", "")
	require.NoError(t, err)
	assert.Equal(t, "Electronics", view.Selection.SelectedCategory)
	assert.Equal(t, "Laptop", view.Selection.SelectedProduct)
	assert.Equal(t, []models.ProductCount{{Name: "Mouse", Count: 1}}, view.Recommendations.Items)

	view, err = f.svc.OnCategorySelected(ctx, sid, "Electronics", "Mouse")
	require.NoError(t, err)
	assert.Equal(t, "Mouse", view.Selection.SelectedProduct)
	assert.Empty(t, view.Recommendations.Items)
	assert.Equal(t, MsgNoRelated, view.Recommendations.Message)

	_, err = f.svc.OnCategorySelected(ctx, sid, "Toys", "")
	assert.ErrorIs(t, err, utils.ErrCategoryNotFound)

	_, err = f.svc.OnCategorySelected(ctx, sid, "Grocery", "Laptop")
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	view, err = f.svc.Render(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "Mouse", view.Selection.SelectedProduct, "failed events keep the previous selection")
}

func TestAssistantService_RecommendationsExcludeSelected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	for _, p := range []string{"Premia Tea Masala", "Sugar Cubes", "Elaichi"} {
		view, err = f.svc.OnCategorySelected(ctx, view.SessionID, "Grocery", p)
		require.NoError(t, err)
		for _, item := range view.Recommendations.Items {
			assert.NotEqual(t, p, item.Name)
		}
	}
}

func TestAssistantService_AddAndSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	sid := view.SessionID

	_, err = f.svc.OnAddToCart(ctx, sid, "")
	require.NoError(t, err)
	_, err = f.svc.OnAddToCart(ctx, sid, "Premia Tea Masala")
	require.NoError(t, err)
	view, err = f.svc.OnAddToCart(ctx, sid, "Sugar Cubes")
	require.NoError(t, err)

	require.Len(t, view.Cart.Lines, 2)
	assert.Equal(t, 2, view.Cart.Lines[0].Quantity)
	assert.True(t, view.Cart.Lines[0].LineTotal.Equal(dec("118")))
	assert.Equal(t, 3, view.Cart.TotalItems)
	assert.True(t, view.Cart.TotalPrice.Equal(dec("147.5")))
	assert.True(t, view.Cart.CanSubmit)
	assert.Len(t, f.notifier.carts, 3)

	view, err = f.svc.OnSubmitOrder(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, view.Order)
	assert.True(t, view.Order.Submitted)
	assert.Equal(t, MsgOrderPlaced, view.Order.Message)
	assert.Equal(t, 3, view.Order.TotalItems)
	assert.Equal(t, "₹147.50", view.Order.TotalPrice)
	assert.Empty(t, view.Cart.Lines)
	assert.Equal(t, MsgCartEmpty, view.Cart.Message)
	require.Len(t, f.notifier.orders, 1)

	cartView, err := f.svc.Cart(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, cartView.Lines)
}

func TestAssistantService_AddUnknownProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	sid := view.SessionID

	_, err = f.svc.OnAddToCart(ctx, sid, "Mouse")
	require.NoError(t, err)

	_, err = f.svc.OnAddToCart(ctx, sid, "Unknown Product")
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	cartView, err := f.svc.Cart(ctx, sid)
	require.NoError(t, err)
	require.Len(t, cartView.Lines, 1)
	assert.Equal(t, "Mouse", cartView.Lines[0].ProductName)
	assert.Equal(t, 1, cartView.Lines[0].Quantity)
}

func TestAssistantService_SubmitEmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	view, err = f.svc.OnSubmitOrder(ctx, view.SessionID)
	require.NoError(t, err)
	require.NotNil(t, view.Order)
	assert.False(t, view.Order.Submitted)
	assert.Equal(t, 0, view.Order.TotalItems)
	assert.Equal(t, "₹0.00", view.Order.TotalPrice)
	assert.Empty(t, f.notifier.orders)
}

func TestAssistantService_PriceCapturedAcrossReload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	sid := view.SessionID

	_, err = f.svc.OnAddToCart(ctx, sid, "Mouse")
	require.NoError(t, err)

	f.catalog.rows[4] = product("Mouse", "Electronics", "1000")
	changed, err := f.svc.Reload(ctx)
	require.NoError(t, err)
	require.True(t, changed)

	view, err = f.svc.OnAddToCart(ctx, sid, "Mouse")
	require.NoError(t, err)
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, 2, view.Cart.Lines[0].Quantity)
	assert.True(t, view.Cart.Lines[0].UnitPrice.Equal(dec("590")))
}

func TestAssistantService_RenderIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = f.svc.OnAddToCart(ctx, view.SessionID, "Laptop")
	require.NoError(t, err)

	first, err := f.svc.Render(ctx, view.SessionID)
	require.NoError(t, err)
	second, err := f.svc.Render(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssistantService_UnknownSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.OnAddToCart(context.Background(), "missing", "Mouse")
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

func TestAssistantService_ConcurrentAddsOnOneSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.OnAddToCart(ctx, view.SessionID, "Mouse")
		}()
	}
	wg.Wait()

	cartView, err := f.svc.Cart(ctx, view.SessionID)
	require.NoError(t, err)
	require.Len(t, cartView.Lines, 1)
	assert.Equal(t, 20, cartView.Lines[0].Quantity)
}

func TestAssistantService_Catalog(t *testing.T) {
	f := newFixture(t)

	cats, err := f.svc.Categories()
	require.NoError(t, err)
	assert.Len(t, cats, 3)

	products, err := f.svc.ProductsInCategory("Appliances")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].FinalPrice.IsZero())

	_, err = f.svc.ProductsInCategory("Toys")
	assert.ErrorIs(t, err, utils.ErrCategoryNotFound)

	trending, err := f.svc.Trending(2)
	require.NoError(t, err)
	assert.Len(t, trending, 2)
}
