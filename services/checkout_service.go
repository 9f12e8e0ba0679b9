package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/realtime"
	"github.com/sidegames-golf/sidegames/repositories"
	"github.com/sidegames-golf/sidegames/sidegames"
)

type CheckoutService interface {
	Quote(ctx context.Context, userID uuid.UUID) (*models.FeeBreakdown, error)
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*CheckoutResult, error)
}

type CheckoutInput struct {
	PaymentMethod models.PaymentMethod `json:"payment_method"`
}

// CheckoutResult — созданные покупки, пропущенные (уже купленные) игры и итог оплаты.
type CheckoutResult struct {
	Purchases []models.Purchase   `json:"purchases"`
	Skipped   []string            `json:"skipped"`
	Summary   models.FeeBreakdown `json:"summary"`
}

type checkoutService struct {
	tx           repositories.Transactor
	cartRepo     repositories.CartRepository
	purchaseRepo repositories.PurchaseRepository
	fees         sidegames.Fees
	notifier     Notifier
	loc          *time.Location
	log          *slog.Logger
	now          func() time.Time
}

func NewCheckoutService(
	tx repositories.Transactor,
	cartRepo repositories.CartRepository,
	purchaseRepo repositories.PurchaseRepository,
	fees sidegames.Fees,
	notifier Notifier,
	loc *time.Location,
	log *slog.Logger,
) CheckoutService {
	if loc == nil {
		loc = time.Local
	}
	return &checkoutService{
		tx:           tx,
		cartRepo:     cartRepo,
		purchaseRepo: purchaseRepo,
		fees:         fees,
		notifier:     notifier,
		loc:          loc,
		log:          log.With(slog.String("service", "checkout")),
		now:          time.Now,
	}
}

func (s *checkoutService) loadItems(ctx context.Context, userID uuid.UUID) (models.CartItems, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCartNotFound) {
			return models.CartItems{}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart.Items, nil
}

func (s *checkoutService) Quote(ctx context.Context, userID uuid.UUID) (*models.FeeBreakdown, error) {
	items, err := s.loadItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	breakdown := s.fees.Compute(sidegames.Subtotal(items))
	return &breakdown, nil
}

// Checkout превращает корзину в покупки. Уже купленные игры отбрасываются; если
// позиция целиком состоит из купленных игр, оплата отменяется полностью и корзина
// остаётся как есть. Корзина блокируется на всю транзакцию, поэтому параллельная
// оплата той же корзины ждёт и видит её уже пустой.
func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*CheckoutResult, error) {
	if !input.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	var (
		result    *CheckoutResult
		subtotal  models.Cents
		reference string
		planErr   error
	)
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		cart, err := s.cartRepo.GetForUpdate(ctx, exec, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrCartNotFound) {
				planErr = ErrCartEmpty
				return planErr
			}
			return fmt.Errorf("failed to lock cart: %w", err)
		}
		if len(cart.Items) == 0 {
			planErr = ErrCartEmpty
			return planErr
		}

		eventIDs := make([]int64, 0, len(cart.Items))
		for _, item := range cart.Items {
			eventIDs = append(eventIDs, item.EventID())
		}
		prior, err := s.purchaseRepo.List(ctx, exec, repositories.PurchaseFilter{UserID: userID, EventIDs: eventIDs})
		if err != nil {
			return fmt.Errorf("failed to load purchases: %w", err)
		}

		now := s.now()
		reference = fmt.Sprintf("%s-%d", input.PaymentMethod, now.UnixMilli())
		result, subtotal, planErr = s.plan(userID, cart.Items, sidegames.PurchasedByEvent(prior), input.PaymentMethod, reference, now)
		if planErr != nil {
			return planErr
		}

		for i := range result.Purchases {
			if err := s.purchaseRepo.Create(ctx, exec, &result.Purchases[i]); err != nil {
				return err
			}
		}
		if err := s.cartRepo.Clear(ctx, exec, userID); err != nil {
			if errors.Is(err, repositories.ErrCartNotFound) {
				planErr = ErrCartEmpty
				return planErr
			}
			return err
		}
		return nil
	})
	if planErr != nil {
		return nil, planErr
	}
	if err != nil {
		if errors.Is(err, repositories.ErrPurchaseEventInvalid) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("checkout failed: %w", err)
	}

	result.Summary = s.fees.Compute(subtotal)
	s.log.Info("checkout completed",
		slog.String("user_id", userID.String()),
		slog.Int("purchases", len(result.Purchases)),
		slog.String("total", result.Summary.Total.String()),
		slog.String("payment_reference", reference),
	)

	s.notifier.NotifyUser(userID, realtime.MessagePurchaseCompleted, result)
	s.notifier.NotifyUser(userID, realtime.MessageCartUpdated, &models.CartView{
		Items:   models.CartItems{},
		Summary: s.fees.Compute(0),
	})
	return result, nil
}

// plan раскладывает позиции корзины на покупки с учётом уже купленных игр.
func (s *checkoutService) plan(
	userID uuid.UUID,
	items models.CartItems,
	purchasedByEvent map[int64]sidegames.KeySet,
	paymentMethod models.PaymentMethod,
	reference string,
	now time.Time,
) (*CheckoutResult, models.Cents, error) {
	method := string(paymentMethod)
	result := &CheckoutResult{Skipped: []string{}}
	var duplicates []string
	var subtotal models.Cents
	for _, item := range items {
		if !sidegames.EntryOpen(item.EventSummary.SelectedEvent.EventDate, now.In(s.loc)) {
			return nil, 0, fmt.Errorf("%w: %s", ErrEntryClosed, item.EventSummary.SelectedEvent.Name)
		}

		kept, skipped := sidegames.FilterPurchased(item.SideGamesData.Rows, purchasedByEvent[item.EventID()])
		result.Skipped = append(result.Skipped, skipped...)
		if len(kept) == 0 {
			if len(skipped) == 0 {
				return nil, 0, sidegames.ErrNoSelection
			}
			duplicates = append(duplicates, skipped...)
			continue
		}

		keys := make([]string, 0, len(kept))
		for _, r := range kept {
			keys = append(keys, r.Key)
		}
		net, division, superSkins := sidegames.Pick(keys)
		total := sidegames.ItemTotal(kept)
		subtotal += total

		ref := reference
		result.Purchases = append(result.Purchases, models.Purchase{
			UserID:  userID,
			EventID: item.EventID(),
			SideGamesData: models.SideGamesData{
				Net:        net,
				Division:   division,
				SuperSkins: superSkins,
				Rows:       kept,
				TotalCost:  total,
			},
			TotalCost:        total,
			Status:           models.PurchaseStatusCompleted,
			PaymentMethod:    &method,
			PaymentReference: &ref,
			PurchaseDate:     now,
		})
	}
	if len(duplicates) > 0 {
		return nil, 0, &sidegames.DuplicateError{Names: duplicates}
	}
	return result, subtotal, nil
}
