package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/DRSN-tech/shopping-list/internal/domain"
	"github.com/DRSN-tech/shopping-list/pkg/e"
	"github.com/DRSN-tech/shopping-list/pkg/logger"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ShoppingListUseCase реализует бизнес-логику списка покупок.
type ShoppingListUseCase struct {
	productRepo ProductRepository
	reference   *domain.ReferenceData
	notifier    ChangeNotifier
	logger      logger.Logger

	// mu сериализует изменения, чтобы переход "не куплено -> всё куплено"
	// считался по согласованной паре состояний до и после. События ставятся
	// в очередь под ним же, поэтому их порядок совпадает с порядком изменений.
	mu sync.Mutex
}

func NewShoppingListUC(
	productRepo ProductRepository,
	reference *domain.ReferenceData,
	notifier ChangeNotifier,
	logger logger.Logger,
) *ShoppingListUseCase {
	return &ShoppingListUseCase{
		productRepo: productRepo,
		reference:   reference,
		notifier:    notifier,
		logger:      logger,
	}
}

// Add проверяет запрос и добавляет новую некупленную позицию в конец списка.
func (s *ShoppingListUseCase) Add(ctx context.Context, req *AddProductReq) (*domain.Product, error) {
	const op = "ShoppingListUseCase.Add"

	if err := s.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product := domain.NewProduct(req.Name, req.ShopID, req.CategoryID)
	if err := s.productRepo.Append(ctx, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	completed, err := s.completed(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.logger.Debugf("%s: product %s added to shop %d", op, product.ID, product.ShopID)
	s.notify(ctx, NewListChangedEvent(ChangeAdded, *product, completed, false))

	return product, nil
}

// Toggle переключает признак покупки позиции, не меняя её место в списке.
func (s *ShoppingListUseCase) Toggle(ctx context.Context, id string) (*ToggleProductRes, error) {
	const op = "ShoppingListUseCase.Toggle"

	s.mu.Lock()
	defer s.mu.Unlock()

	wasCompleted, err := s.completed(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := s.productRepo.Toggle(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	completed, err := s.completed(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	justCompleted := completed && !wasCompleted
	if justCompleted {
		s.logger.Infof("%s: shopping completed", op)
	}
	s.notify(ctx, NewListChangedEvent(ChangeToggled, *product, completed, justCompleted))

	return NewToggleProductRes(product, completed, justCompleted), nil
}

// Delete удаляет позицию из списка.
func (s *ShoppingListUseCase) Delete(ctx context.Context, id string) error {
	const op = "ShoppingListUseCase.Delete"

	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.productRepo.Get(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	completed, err := s.completed(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	s.notify(ctx, NewListChangedEvent(ChangeDeleted, *product, completed, false))

	return nil
}

// Filter возвращает позиции, подходящие под критерии, в порядке списка.
func (s *ShoppingListUseCase) Filter(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Product, error) {
	const op = "ShoppingListUseCase.Filter"

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return domain.Filter(products, criteria), nil
}

// Search выполняет нечёткий поиск по названию, магазину и категории.
// Пустой запрос возвращает весь список.
func (s *ShoppingListUseCase) Search(ctx context.Context, query string) ([]domain.Product, error) {
	const op = "ShoppingListUseCase.Search"

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return products, nil
	}

	result := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if s.fuzzyMatch(query, p) {
			result = append(result, p)
		}
	}

	return result, nil
}

// Products возвращает копию полного списка.
func (s *ShoppingListUseCase) Products(ctx context.Context) ([]domain.Product, error) {
	const op = "ShoppingListUseCase.Products"

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// Status возвращает сводку по списку, включая признак завершения покупок.
func (s *ShoppingListUseCase) Status(ctx context.Context) (*ListStatus, error) {
	const op = "ShoppingListUseCase.Status"

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewListStatus(products), nil
}

// Completed - true, если список не пуст и всё куплено.
func (s *ShoppingListUseCase) Completed(ctx context.Context) (bool, error) {
	return s.completed(ctx)
}

func (s *ShoppingListUseCase) Reference() *domain.ReferenceData {
	return s.reference
}

func (s *ShoppingListUseCase) completed(ctx context.Context) (bool, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return false, err
	}

	return domain.AllBought(products), nil
}

func (s *ShoppingListUseCase) fuzzyMatch(query string, p domain.Product) bool {
	return fuzzy.MatchNormalizedFold(query, p.Name) ||
		fuzzy.MatchNormalizedFold(query, s.reference.ShopName(p.ShopID)) ||
		fuzzy.MatchNormalizedFold(query, s.reference.CategoryName(p.CategoryID))
}

// notify передаёт событие получателю; ошибка не влияет на результат операции.
func (s *ShoppingListUseCase) notify(ctx context.Context, event *ListChangedEvent) {
	const op = "ShoppingListUseCase.notify"

	if s.notifier == nil {
		return
	}

	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warnf("Failed to publish %s event for product %s: %v", event.Type, event.Product.ID, e.Wrap(op, err))
	}
}

// validateProduct проверяет корректность входных данных запроса на добавление позиции.
func (s *ShoppingListUseCase) validateProduct(req *AddProductReq) error {
	if req == nil {
		return e.ValidationError(e.ErrEmptyRequest)
	}

	if strings.TrimSpace(req.Name) == "" {
		return e.ValidationError(e.ErrProductNameRequired)
	}

	if req.ShopID == 0 {
		return e.ValidationError(e.ErrShopRequired)
	}

	if req.CategoryID == 0 {
		return e.ValidationError(e.ErrCategoryRequired)
	}

	if !s.reference.HasShop(req.ShopID) {
		return e.ValidationError(e.ErrUnknownShop)
	}

	if !s.reference.HasCategory(req.CategoryID) {
		return e.ValidationError(e.ErrUnknownCategory)
	}

	return nil
}
