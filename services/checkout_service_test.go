package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidegames-golf/sidegames/logger"
	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/realtime"
	"github.com/sidegames-golf/sidegames/repositories"
	"github.com/sidegames-golf/sidegames/sidegames"
)

// fiftyDollarGames — Low Net $10, Super Skins $20, D1 Skins $10, Closest To Pin $10.
func fiftyDollarGames() models.SideGameSettings {
	return models.SideGameSettings{
		"01_Low_Net":        {Enabled: true, Fee: 1000},
		"03_Super_Skins":    {Enabled: true, Fee: 2000},
		"04_D1_Skins":       {Enabled: true, Fee: 1000},
		"09_Closest_To_Pin": {Enabled: true, Fee: 1000},
	}
}

var fiftyDollarSelection = []string{"01_Low_Net", "03_Super_Skins", "04_D1_Skins", "09_Closest_To_Pin"}

func TestCheckoutCreatesPurchases(t *testing.T) {
	env := newTestEnv()
	user := uuid.New()
	event := env.seedEvent(uuid.New(), "2026-06-10", fiftyDollarGames())

	_, err := env.cartSvc.Add(context.Background(), user, AddToCartInput{EventID: event.ID, SideGames: fiftyDollarSelection})
	require.NoError(t, err)

	quote, err := env.checkout.Quote(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, models.FeeBreakdown{Subtotal: 5000, Fee: 210, Total: 5210}, *quote)

	txBefore := env.tx.calls
	result, err := env.checkout.Checkout(context.Background(), user, CheckoutInput{PaymentMethod: models.PaymentCard})
	require.NoError(t, err)

	assert.Equal(t, models.FeeBreakdown{Subtotal: 5000, Fee: 210, Total: 5210}, result.Summary)
	assert.Empty(t, result.Skipped)
	require.Len(t, result.Purchases, 1)

	p := result.Purchases[0]
	assert.NotZero(t, p.ID)
	assert.Equal(t, user, p.UserID)
	assert.Equal(t, event.ID, p.EventID)
	assert.Equal(t, models.PurchaseStatusCompleted, p.Status)
	assert.Equal(t, models.Cents(5000), p.TotalCost)
	require.NotNil(t, p.PaymentMethod)
	assert.Equal(t, "card", *p.PaymentMethod)
	require.NotNil(t, p.PaymentReference)
	assert.Equal(t, "card-1780315200000", *p.PaymentReference)
	assert.Len(t, p.SideGamesData.Rows, 4)

	assert.NotContains(t, env.carts.carts, user, "cart is cleared")
	assert.Equal(t, txBefore+1, env.tx.calls, "purchases and cart clearing share one transaction")
	assert.Equal(t, []string{
		realtime.MessageCartUpdated,
		realtime.MessagePurchaseCompleted,
		realtime.MessageCartUpdated,
	}, env.notifier.types())
}

func TestCheckoutSkipsAlreadyPurchasedGames(t *testing.T) {
	env := newTestEnv()
	user := uuid.New()
	event := env.seedEvent(uuid.New(), "2026-06-10", fiftyDollarGames())

	_, err := env.cartSvc.Add(context.Background(), user, AddToCartInput{EventID: event.ID, SideGames: fiftyDollarSelection})
	require.NoError(t, err)

	// Покупка из другой вкладки после того, как позиция попала в корзину.
	env.purchases.purchases = append(env.purchases.purchases, priorPurchase(user, event.ID, "03_Super_Skins"))

	result, err := env.checkout.Checkout(context.Background(), user, CheckoutInput{PaymentMethod: models.PaymentVenmo})
	require.NoError(t, err)
	assert.Equal(t, []string{"Super Skins"}, result.Skipped)
	require.Len(t, result.Purchases, 1)
	assert.Equal(t, models.Cents(3000), result.Purchases[0].TotalCost)
	assert.False(t, result.Purchases[0].SideGamesData.SuperSkins)
	assert.Equal(t, models.FeeBreakdown{Subtotal: 3000, Fee: 150, Total: 3150}, result.Summary)
}

func TestCheckoutFullyDuplicateItemAbortsEverything(t *testing.T) {
	env := newTestEnv()
	user := uuid.New()
	dupEvent := env.seedEvent(uuid.New(), "2026-06-10", fiftyDollarGames())
	freshEvent := env.seedEvent(uuid.New(), "2026-06-11", fiftyDollarGames())

	_, err := env.cartSvc.Add(context.Background(), user, AddToCartInput{EventID: dupEvent.ID, SideGames: []string{"01_Low_Net"}})
	require.NoError(t, err)
	_, err = env.cartSvc.Add(context.Background(), user, AddToCartInput{EventID: freshEvent.ID, SideGames: []string{"01_Low_Net"}})
	require.NoError(t, err)

	env.purchases.purchases = append(env.purchases.purchases, priorPurchase(user, dupEvent.ID, "01_Low_Net"))
	before := len(env.purchases.purchases)

	_, err = env.checkout.Checkout(context.Background(), user, CheckoutInput{PaymentMethod: models.PaymentPayPal})
	var dup *sidegames.DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, []string{"Low Net"}, dup.Names)

	assert.Len(t, env.purchases.purchases, before, "no purchases are written")
	assert.Len(t, env.carts.carts[user], 2, "cart is kept")
}

func TestCheckoutRejects(t *testing.T) {
	env := newTestEnv()
	user := uuid.New()

	_, err := env.checkout.Checkout(context.Background(), user, CheckoutInput{PaymentMethod: "bitcoin"})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, err = env.checkout.Checkout(context.Background(), user, CheckoutInput{PaymentMethod: models.PaymentApplePay})
	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Equal(t, "There are no items in the cart.", err.Error())

	quote, err := env.checkout.Quote(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, models.FeeBreakdown{}, *quote)
}

func TestCheckoutRejectsClosedEvent(t *testing.T) {
	env := newTestEnv()
	user := uuid.New()
	event := env.seedEvent(uuid.New(), "2026-06-03", fiftyDollarGames())

	_, err := env.cartSvc.Add(context.Background(), user, AddToCartInput{EventID: event.ID, SideGames: []string{"01_Low_Net"}})
	require.NoError(t, err)

	// Дедлайн прошёл, пока позиция лежала в корзине.
	env.checkout.now = func() time.Time { return testNow.Add(48 * time.Hour) }
	_, err = env.checkout.Checkout(context.Background(), user, CheckoutInput{PaymentMethod: models.PaymentCashApp})
	assert.ErrorIs(t, err, ErrEntryClosed)
	assert.Len(t, env.carts.carts[user], 1)
}

// interleavedPurchaseRepo запускает вторую оплату той же корзины, пока первая
// читает историю покупок, и даёт ей время дойти до конца.
type interleavedPurchaseRepo struct {
	*fakePurchaseRepo
	once   sync.Once
	second func() error
	result chan error
}

func (r *interleavedPurchaseRepo) List(ctx context.Context, exec repositories.SQLExecutor, filter repositories.PurchaseFilter) ([]models.Purchase, error) {
	r.once.Do(func() {
		go func() { r.result <- r.second() }()
		select {
		case err := <-r.result:
			r.result <- err
		case <-time.After(50 * time.Millisecond):
		}
	})
	return r.fakePurchaseRepo.List(ctx, exec, filter)
}

func TestCheckoutConcurrentRequestsPurchaseOnce(t *testing.T) {
	env := newTestEnv()
	user := uuid.New()
	event := env.seedEvent(uuid.New(), "2026-06-10", fiftyDollarGames())

	_, err := env.cartSvc.Add(context.Background(), user, AddToCartInput{EventID: event.ID, SideGames: fiftyDollarSelection})
	require.NoError(t, err)

	purchases := &interleavedPurchaseRepo{fakePurchaseRepo: env.purchases, result: make(chan error, 1)}
	svc := NewCheckoutService(env.tx, env.carts, purchases, sidegames.DefaultFees(),
		env.notifier, time.UTC, logger.Discard()).(*checkoutService)
	svc.now = func() time.Time { return testNow }
	purchases.second = func() error {
		_, err := svc.Checkout(context.Background(), user, CheckoutInput{PaymentMethod: models.PaymentCard})
		return err
	}

	first, err := svc.Checkout(context.Background(), user, CheckoutInput{PaymentMethod: models.PaymentCard})
	require.NoError(t, err)
	require.Len(t, first.Purchases, 1)

	assert.ErrorIs(t, <-purchases.result, ErrCartEmpty, "the second request sees the cart already paid")

	bought, err := env.purchases.List(context.Background(), nil, repositories.PurchaseFilter{UserID: user, EventIDs: []int64{event.ID}})
	require.NoError(t, err)
	assert.Len(t, bought, 1, "side games are bought once")
	assert.NotContains(t, env.carts.carts, user)
}
