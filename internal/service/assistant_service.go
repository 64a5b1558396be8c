package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_assistant/internal/analytics"
	"github.com/GTDGit/catalog_assistant/internal/cart"
	"github.com/GTDGit/catalog_assistant/internal/catalog"
	"github.com/GTDGit/catalog_assistant/internal/models"
	"github.com/GTDGit/catalog_assistant/internal/session"
	"github.com/GTDGit/catalog_assistant/internal/sse"
	"github.com/GTDGit/catalog_assistant/internal/utils"
)

// AssistantService handles display events for a session and recomputes the
// whole view after each one.
type AssistantService struct {
	catalogProvider  CatalogProvider
	purchaseProvider PurchaseLogProvider
	sessions         session.Store
	notifier         sse.SessionNotifier
	trendingLimit    int

	mu   sync.RWMutex
	data *Dataset

	locks *keyedMutex
}

// NewAssistantService constructs an AssistantService. Call Reload before
// serving events.
func NewAssistantService(
	catalogProvider CatalogProvider,
	purchaseProvider PurchaseLogProvider,
	sessions session.Store,
	notifier sse.SessionNotifier,
	trendingLimit int,
) *AssistantService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &AssistantService{
		catalogProvider:  catalogProvider,
		purchaseProvider: purchaseProvider,
		sessions:         sessions,
		notifier:         notifier,
		trendingLimit:    trendingLimit,
		locks:            newKeyedMutex(),
	}
}

// Reload reads both providers and swaps in the new dataset. It reports false
// when the content is unchanged.
func (s *AssistantService) Reload(ctx context.Context) (bool, error) {
	rows, err := s.catalogProvider.LoadProducts(ctx)
	if err != nil {
		return false, fmt.Errorf("load catalog: %w", err)
	}
	purchases, err := s.purchaseProvider.LoadPurchases(ctx)
	if err != nil {
		return false, fmt.Errorf("load purchases: %w", err)
	}

	next := NewDataset(rows, purchases)

	s.mu.Lock()
	if next.SameAs(s.data) {
		s.mu.Unlock()
		return false, nil
	}
	s.data = next
	s.mu.Unlock()

	log.Info().
		Int("products", next.Catalog.Len()).
		Int("purchases", len(next.Purchases)).
		Int("categories", len(next.Catalog.Categories())).
		Msg("Dataset loaded")
	s.notifier.NotifyCatalogReloaded(next.Catalog.Len(), len(next.Purchases))
	return true, nil
}

// Dataset returns the current dataset.
func (s *AssistantService) Dataset() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, utils.ErrDatasetNotLoaded
	}
	return s.data, nil
}

// Trending returns the top products across the whole purchase log. A
// non-positive limit uses the configured default.
func (s *AssistantService) Trending(limit int) ([]models.ProductCount, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.trendingLimit
	}
	return analytics.TopTrending(ds.Purchases, limit), nil
}

// Categories returns the catalog categories in catalog order.
func (s *AssistantService) Categories() ([]string, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Catalog.Categories(), nil
}

// ProductsInCategory lists the products of one category.
func (s *AssistantService) ProductsInCategory(category string) ([]models.Product, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	if !ds.Catalog.HasCategory(category) {
		return nil, utils.ErrCategoryNotFound
	}
	return ds.Catalog.ProductsInCategory(category), nil
}

// CreateSession starts a session with an empty cart and default selection.
func (s *AssistantService) CreateSession(ctx context.Context) (*View, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}

	sess := session.New()
	resolveSelection(ds.Catalog, sess)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	log.Info().Str("session_id", sess.ID).Msg("Session created")
	return s.render(ctx, ds, sess), nil
}

// Render recomputes the view for a session without changing it.
func (s *AssistantService) Render(ctx context.Context, sessionID string) (*View, error) {
	return s.handle(ctx, sessionID, func(ds *Dataset, sess *session.Session) (bool, error) {
		return false, nil
	})
}

// Cart returns the cart panel of a session.
func (s *AssistantService) Cart(ctx context.Context, sessionID string) (*CartView, error) {
	view, err := s.Render(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &view.Cart, nil
}

// OnCategorySelected changes the selected category and, optionally, the
// selected product. An empty product selects the first one of the category.
func (s *AssistantService) OnCategorySelected(ctx context.Context, sessionID, category, product string) (*View, error) {
	return s.handle(ctx, sessionID, func(ds *Dataset, sess *session.Session) (bool, error) {
		if !ds.Catalog.HasCategory(category) {
			return false, fmt.Errorf("select %q: %w", category, utils.ErrCategoryNotFound)
		}
		if product != "" && !categoryHasProduct(ds.Catalog, category, product) {
			return false, fmt.Errorf("select %q in %q: %w", product, category, utils.ErrProductNotFound)
		}

		sess.SelectedCategory = category
		sess.SelectedProduct = product
		resolveSelection(ds.Catalog, sess)
		return true, nil
	})
}

// OnAddToCart adds one unit of product to the session cart. An empty product
// adds the currently selected product. A failed add leaves the cart unchanged.
func (s *AssistantService) OnAddToCart(ctx context.Context, sessionID, product string) (*View, error) {
	return s.handle(ctx, sessionID, func(ds *Dataset, sess *session.Session) (bool, error) {
		if product == "" {
			product = sess.SelectedProduct
		}
		if err := sess.Cart.Add(product, ds.Catalog); err != nil {
			log.Debug().Str("session_id", sess.ID).Str("product", product).Msg("Add to cart rejected")
			return false, err
		}

		s.notifier.NotifyCartUpdated(sess.ID, sess.Cart.Snapshot())
		return true, nil
	})
}

// OnSubmitOrder totals and clears the cart. On an empty cart it is a no-op
// that reports zero totals.
func (s *AssistantService) OnSubmitOrder(ctx context.Context, sessionID string) (*View, error) {
	var confirmation *OrderConfirmation

	view, err := s.handle(ctx, sessionID, func(ds *Dataset, sess *session.Session) (bool, error) {
		if sess.Cart.IsEmpty() {
			confirmation = orderConfirmation(cart.Submit(sess.Cart), false)
			return false, nil
		}

		order := cart.Submit(sess.Cart)
		confirmation = orderConfirmation(order, true)

		log.Info().
			Str("session_id", sess.ID).
			Int("total_items", order.TotalItems).
			Str("total_price", order.TotalPrice.String()).
			Msg("Order submitted")
		s.notifier.NotifyOrderSubmitted(sess.ID, order)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	view.Order = confirmation
	return view, nil
}

// handle runs one event against a session under its lock. apply reports
// whether the session changed and must be saved; on error nothing is saved.
func (s *AssistantService) handle(ctx context.Context, sessionID string, apply func(*Dataset, *session.Session) (bool, error)) (*View, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Cart == nil {
		sess.Cart = cart.New()
	}

	changed, err := apply(ds, sess)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.sessions.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	return s.render(ctx, ds, sess), nil
}

// render recomputes every panel from the dataset and the session state.
func (s *AssistantService) render(ctx context.Context, ds *Dataset, sess *session.Session) *View {
	timing := startTiming(ctx, "recompute", "view recomputation")
	defer timing.Stop()

	resolveSelection(ds.Catalog, sess)

	products := ds.Catalog.ProductsInCategory(sess.SelectedCategory)
	options := make([]ProductOption, 0, len(products))
	for _, p := range products {
		options = append(options, ProductOption{Name: p.Name, Brand: p.Brand, FinalPrice: p.FinalPrice})
	}

	related := []models.ProductCount{}
	if sess.SelectedCategory != "" {
		related = analytics.RelatedProducts(sess.SelectedProduct, sess.SelectedCategory, ds.Purchases)
	}

	return &View{
		SessionID: sess.ID,
		Trending:  trendingPanel(analytics.TopTrending(ds.Purchases, s.trendingLimit)),
		Selection: SelectionView{
			Categories:       ds.Catalog.Categories(),
			SelectedCategory: sess.SelectedCategory,
			Products:         options,
			SelectedProduct:  sess.SelectedProduct,
		},
		Recommendations: recommendationPanel(sess.SelectedProduct, related),
		Cart:            cartView(sess.Cart),
	}
}

// resolveSelection falls back to the first category and the first product of
// the selected category when the stored selection is unset or stale.
func resolveSelection(c *catalog.Catalog, sess *session.Session) {
	if !c.HasCategory(sess.SelectedCategory) {
		sess.SelectedCategory = ""
		if cats := c.Categories(); len(cats) > 0 {
			sess.SelectedCategory = cats[0]
		}
	}

	if !categoryHasProduct(c, sess.SelectedCategory, sess.SelectedProduct) {
		sess.SelectedProduct = ""
		if products := c.ProductsInCategory(sess.SelectedCategory); len(products) > 0 {
			sess.SelectedProduct = products[0].Name
		}
	}
}

func categoryHasProduct(c *catalog.Catalog, category, product string) bool {
	if product == "" {
		return false
	}
	for _, p := range c.ProductsInCategory(category) {
		if p.Name == product {
			return true
		}
	}
	return false
}
