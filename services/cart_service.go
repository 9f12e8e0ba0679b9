package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/realtime"
	"github.com/sidegames-golf/sidegames/repositories"
	"github.com/sidegames-golf/sidegames/sidegames"
)

// Notifier доставляет сообщения в открытые вкладки пользователя.
type Notifier interface {
	NotifyUser(userID uuid.UUID, msgType string, payload interface{})
}

type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.CartView, error)
	Add(ctx context.Context, userID uuid.UUID, input AddToCartInput) (*models.CartView, error)
	Remove(ctx context.Context, userID uuid.UUID, index int) (*models.CartView, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	Replace(ctx context.Context, userID uuid.UUID, items []AddToCartInput) (*models.CartView, error)
}

// AddToCartInput — событие и выбранные ключи игр каталога.
type AddToCartInput struct {
	EventID   int64    `json:"event_id"`
	SideGames []string `json:"side_games"`
}

// ItemsToInputs превращает присланную клиентом корзину в запросы на добавление:
// сервер доверяет только событию и отмеченным ключам, цены пересчитываются.
func ItemsToInputs(items models.CartItems) []AddToCartInput {
	out := make([]AddToCartInput, 0, len(items))
	for _, item := range items {
		in := AddToCartInput{EventID: item.EventID()}
		for _, r := range item.SideGamesData.SelectedRows() {
			if r.Key != "" {
				in.SideGames = append(in.SideGames, r.Key)
			} else {
				in.SideGames = append(in.SideGames, r.Name)
			}
		}
		out = append(out, in)
	}
	return out
}

type cartService struct {
	tx           repositories.Transactor
	cartRepo     repositories.CartRepository
	purchaseRepo repositories.PurchaseRepository
	events       EventService
	fees         sidegames.Fees
	notifier     Notifier
}

func NewCartService(
	tx repositories.Transactor,
	cartRepo repositories.CartRepository,
	purchaseRepo repositories.PurchaseRepository,
	events EventService,
	fees sidegames.Fees,
	notifier Notifier,
) CartService {
	return &cartService{
		tx:           tx,
		cartRepo:     cartRepo,
		purchaseRepo: purchaseRepo,
		events:       events,
		fees:         fees,
		notifier:     notifier,
	}
}

func (s *cartService) load(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCartNotFound) {
			return &models.Cart{ID: userID, Items: models.CartItems{}}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = models.CartItems{}
	}
	return cart, nil
}

func (s *cartService) view(items models.CartItems) *models.CartView {
	return &models.CartView{Items: items, Summary: s.fees.Compute(sidegames.Subtotal(items))}
}

// update меняет корзину под блокировкой строки: параллельные изменения одной корзины
// выполняются по очереди и не теряют позиции друг друга.
func (s *cartService) update(ctx context.Context, userID uuid.UUID, fn func(exec repositories.SQLExecutor, cart *models.Cart) error) (*models.CartView, error) {
	var saved *models.Cart
	var fnErr error
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		cart, err := s.cartRepo.GetForUpdate(ctx, exec, userID)
		if err != nil {
			return fmt.Errorf("failed to lock cart: %w", err)
		}
		if fnErr = fn(exec, cart); fnErr != nil {
			return fnErr
		}
		if err := s.cartRepo.Upsert(ctx, exec, cart); err != nil {
			return fmt.Errorf("failed to save cart: %w", err)
		}
		saved = cart
		return nil
	})
	if fnErr != nil {
		return nil, fnErr
	}
	if err != nil {
		return nil, err
	}

	v := s.view(saved.Items)
	s.notifier.NotifyUser(userID, realtime.MessageCartUpdated, v)
	return v, nil
}

func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*models.CartView, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(cart.Items), nil
}

func (s *cartService) Add(ctx context.Context, userID uuid.UUID, input AddToCartInput) (*models.CartView, error) {
	if input.EventID <= 0 {
		return nil, ErrEventNotSelected
	}
	return s.update(ctx, userID, func(exec repositories.SQLExecutor, cart *models.Cart) error {
		for _, item := range cart.Items {
			if item.EventID() == input.EventID {
				return ErrEventAlreadyInCart
			}
		}

		purchased, err := s.purchasedKeys(ctx, exec, userID, []int64{input.EventID})
		if err != nil {
			return err
		}
		item, err := s.buildItem(ctx, input, purchased[input.EventID])
		if err != nil {
			return err
		}
		cart.Items = append(cart.Items, *item)
		return nil
	})
}

func (s *cartService) Remove(ctx context.Context, userID uuid.UUID, index int) (*models.CartView, error) {
	return s.update(ctx, userID, func(_ repositories.SQLExecutor, cart *models.Cart) error {
		if index < 0 || index >= len(cart.Items) {
			return ErrCartItemNotFound
		}
		items := make(models.CartItems, 0, len(cart.Items)-1)
		items = append(items, cart.Items[:index]...)
		cart.Items = append(items, cart.Items[index+1:]...)
		return nil
	})
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.Clear(ctx, nil, userID); err != nil && !errors.Is(err, repositories.ErrCartNotFound) {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.notifier.NotifyUser(userID, realtime.MessageCartUpdated, s.view(models.CartItems{}))
	return nil
}

// Replace заменяет корзину целиком; каждая позиция проверяется заново.
func (s *cartService) Replace(ctx context.Context, userID uuid.UUID, inputs []AddToCartInput) (*models.CartView, error) {
	eventIDs := make([]int64, 0, len(inputs))
	seen := make(map[int64]bool, len(inputs))
	for _, in := range inputs {
		if in.EventID <= 0 {
			return nil, ErrEventNotSelected
		}
		if seen[in.EventID] {
			return nil, ErrEventAlreadyInCart
		}
		seen[in.EventID] = true
		eventIDs = append(eventIDs, in.EventID)
	}

	return s.update(ctx, userID, func(exec repositories.SQLExecutor, cart *models.Cart) error {
		purchased, err := s.purchasedKeys(ctx, exec, userID, eventIDs)
		if err != nil {
			return err
		}
		items := make(models.CartItems, 0, len(inputs))
		for _, in := range inputs {
			item, err := s.buildItem(ctx, in, purchased[in.EventID])
			if err != nil {
				return fmt.Errorf("event %d: %w", in.EventID, err)
			}
			items = append(items, *item)
		}
		cart.Items = items
		return nil
	})
}

// purchasedKeys — ключи уже купленных игр пользователя по событиям.
func (s *cartService) purchasedKeys(ctx context.Context, exec repositories.SQLExecutor, userID uuid.UUID, eventIDs []int64) (map[int64]sidegames.KeySet, error) {
	if len(eventIDs) == 0 {
		return map[int64]sidegames.KeySet{}, nil
	}
	purchases, err := s.purchaseRepo.List(ctx, exec, repositories.PurchaseFilter{UserID: userID, EventIDs: eventIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	return sidegames.PurchasedByEvent(purchases), nil
}

// buildItem собирает позицию корзины по настройкам события: строки всех предлагаемых
// игр с взносами события, отмечены выбранные.
func (s *cartService) buildItem(ctx context.Context, input AddToCartInput, purchased sidegames.KeySet) (*models.CartItem, error) {
	details, err := s.events.GetDetails(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if !details.EntryOpen {
		return nil, ErrEntryClosed
	}

	offered := make(map[string]models.EventSideGame, len(details.SideGames))
	for _, g := range details.SideGames {
		offered[sidegames.NormalizeKey(g.Key)] = g
	}

	chosen := sidegames.KeySet{}
	selected := make([]string, 0, len(input.SideGames))
	for _, key := range input.SideGames {
		game, ok := offered[sidegames.NormalizeKey(key)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSideGameNotOffered, key)
		}
		if chosen.Has(game.Key) {
			continue
		}
		chosen.Add(game.Key)
		selected = append(selected, game.Key)
	}

	var owned []string
	for key := range purchased {
		owned = append(owned, key)
	}
	if err := sidegames.ValidateSelection(selected, owned); err != nil {
		return nil, err
	}

	rows := make([]models.SideGameRow, 0, len(details.SideGames))
	for _, g := range details.SideGames {
		rows = append(rows, models.SideGameRow{
			Key:      g.Key,
			Name:     g.Name,
			Cost:     g.Fee,
			Selected: chosen.Has(g.Key),
		})
	}
	net, division, superSkins := sidegames.Pick(selected)

	summary := models.EventSummary{SelectedEvent: details.Event}
	if details.TourName != "" {
		name := details.TourName
		summary.TourLabel = &name
	}
	if details.LocationName != "" {
		name := details.LocationName
		summary.LocationLabel = &name
	}

	return &models.CartItem{
		EventSummary: summary,
		SideGamesData: models.SideGamesData{
			Net:        net,
			Division:   division,
			SuperSkins: superSkins,
			Rows:       rows,
			TotalCost:  sidegames.ItemTotal(rows),
		},
	}, nil
}
