package handlers

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/services"
)

type mockAuthService struct {
	SignUpF               func(context.Context, services.SignUpInput) (*services.AuthResult, error)
	LoginF                func(context.Context, services.LoginInput) (*services.AuthResult, error)
	LogoutF               func(context.Context, services.TokenClaims) (string, error)
	SessionF              func(context.Context, uuid.UUID) (*models.SessionUser, error)
	UpdatePasswordF       func(context.Context, uuid.UUID, services.UpdatePasswordInput) error
	ConfirmEmailF         func(context.Context, string) error
	RequestPasswordResetF func(context.Context, string) error
	ResetPasswordF        func(context.Context, services.ResetPasswordInput) error
}

func (m *mockAuthService) SignUp(ctx context.Context, in services.SignUpInput) (*services.AuthResult, error) {
	return m.SignUpF(ctx, in)
}
func (m *mockAuthService) Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error) {
	return m.LoginF(ctx, in)
}
func (m *mockAuthService) Logout(ctx context.Context, c services.TokenClaims) (string, error) {
	return m.LogoutF(ctx, c)
}
func (m *mockAuthService) Session(ctx context.Context, id uuid.UUID) (*models.SessionUser, error) {
	return m.SessionF(ctx, id)
}
func (m *mockAuthService) UpdatePassword(ctx context.Context, id uuid.UUID, in services.UpdatePasswordInput) error {
	return m.UpdatePasswordF(ctx, id, in)
}
func (m *mockAuthService) ConfirmEmail(ctx context.Context, token string) error {
	return m.ConfirmEmailF(ctx, token)
}
func (m *mockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.RequestPasswordResetF(ctx, email)
}
func (m *mockAuthService) ResetPassword(ctx context.Context, in services.ResetPasswordInput) error {
	return m.ResetPasswordF(ctx, in)
}

type mockProfileService struct {
	GetOwnF              func(context.Context, uuid.UUID) (*models.Profile, error)
	GetByIDF             func(context.Context, *uuid.UUID, uuid.UUID) (*models.Profile, error)
	UpdateF              func(context.Context, uuid.UUID, services.UpdateProfileInput) (*models.Profile, error)
	UpdateNotificationsF func(context.Context, uuid.UUID, models.NotificationPreferences) (*models.Profile, error)
	UploadAvatarF        func(context.Context, uuid.UUID, io.Reader) (*models.Profile, error)
	DeleteF              func(context.Context, uuid.UUID) error
}

func (m *mockProfileService) GetOwn(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return m.GetOwnF(ctx, id)
}
func (m *mockProfileService) GetByID(ctx context.Context, viewer *uuid.UUID, id uuid.UUID) (*models.Profile, error) {
	return m.GetByIDF(ctx, viewer, id)
}
func (m *mockProfileService) Update(ctx context.Context, id uuid.UUID, in services.UpdateProfileInput) (*models.Profile, error) {
	return m.UpdateF(ctx, id, in)
}
func (m *mockProfileService) UpdateNotifications(ctx context.Context, id uuid.UUID, p models.NotificationPreferences) (*models.Profile, error) {
	return m.UpdateNotificationsF(ctx, id, p)
}
func (m *mockProfileService) UploadAvatar(ctx context.Context, id uuid.UUID, r io.Reader) (*models.Profile, error) {
	return m.UploadAvatarF(ctx, id, r)
}
func (m *mockProfileService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteF(ctx, id)
}

type mockEventService struct {
	ListF       func(context.Context, services.EventListFilter) ([]models.Event, error)
	GetDetailsF func(context.Context, int64) (*models.EventDetails, error)
	CreateF     func(context.Context, uuid.UUID, services.EventInput) (*models.EventDetails, error)
	UpdateF     func(context.Context, uuid.UUID, int64, services.EventInput) (*models.EventDetails, error)
	DeleteF     func(context.Context, uuid.UUID, int64) error
	CalendarF   func(context.Context, string) ([]models.CalendarEntry, error)
}

func (m *mockEventService) List(ctx context.Context, f services.EventListFilter) ([]models.Event, error) {
	return m.ListF(ctx, f)
}
func (m *mockEventService) GetDetails(ctx context.Context, id int64) (*models.EventDetails, error) {
	return m.GetDetailsF(ctx, id)
}
func (m *mockEventService) Create(ctx context.Context, user uuid.UUID, in services.EventInput) (*models.EventDetails, error) {
	return m.CreateF(ctx, user, in)
}
func (m *mockEventService) Update(ctx context.Context, user uuid.UUID, id int64, in services.EventInput) (*models.EventDetails, error) {
	return m.UpdateF(ctx, user, id, in)
}
func (m *mockEventService) Delete(ctx context.Context, user uuid.UUID, id int64) error {
	return m.DeleteF(ctx, user, id)
}
func (m *mockEventService) Calendar(ctx context.Context, month string) ([]models.CalendarEntry, error) {
	return m.CalendarF(ctx, month)
}

type mockCartService struct {
	GetF     func(context.Context, uuid.UUID) (*models.CartView, error)
	AddF     func(context.Context, uuid.UUID, services.AddToCartInput) (*models.CartView, error)
	RemoveF  func(context.Context, uuid.UUID, int) (*models.CartView, error)
	ClearF   func(context.Context, uuid.UUID) error
	ReplaceF func(context.Context, uuid.UUID, []services.AddToCartInput) (*models.CartView, error)
}

func (m *mockCartService) Get(ctx context.Context, id uuid.UUID) (*models.CartView, error) {
	return m.GetF(ctx, id)
}
func (m *mockCartService) Add(ctx context.Context, id uuid.UUID, in services.AddToCartInput) (*models.CartView, error) {
	return m.AddF(ctx, id, in)
}
func (m *mockCartService) Remove(ctx context.Context, id uuid.UUID, index int) (*models.CartView, error) {
	return m.RemoveF(ctx, id, index)
}
func (m *mockCartService) Clear(ctx context.Context, id uuid.UUID) error {
	return m.ClearF(ctx, id)
}
func (m *mockCartService) Replace(ctx context.Context, id uuid.UUID, items []services.AddToCartInput) (*models.CartView, error) {
	return m.ReplaceF(ctx, id, items)
}

type mockCheckoutService struct {
	QuoteF    func(context.Context, uuid.UUID) (*models.FeeBreakdown, error)
	CheckoutF func(context.Context, uuid.UUID, services.CheckoutInput) (*services.CheckoutResult, error)
}

func (m *mockCheckoutService) Quote(ctx context.Context, id uuid.UUID) (*models.FeeBreakdown, error) {
	return m.QuoteF(ctx, id)
}
func (m *mockCheckoutService) Checkout(ctx context.Context, id uuid.UUID, in services.CheckoutInput) (*services.CheckoutResult, error) {
	return m.CheckoutF(ctx, id, in)
}

type mockPurchaseService struct {
	ListF     func(context.Context, uuid.UUID, *int64) ([]models.Purchase, error)
	MyEventsF func(context.Context, uuid.UUID) (*models.MyEvents, error)
	ReceiptF  func(context.Context, uuid.UUID, int64) ([]byte, error)
}

func (m *mockPurchaseService) List(ctx context.Context, id uuid.UUID, eventID *int64) ([]models.Purchase, error) {
	return m.ListF(ctx, id, eventID)
}
func (m *mockPurchaseService) MyEvents(ctx context.Context, id uuid.UUID) (*models.MyEvents, error) {
	return m.MyEventsF(ctx, id)
}
func (m *mockPurchaseService) Receipt(ctx context.Context, id uuid.UUID, purchaseID int64) ([]byte, error) {
	return m.ReceiptF(ctx, id, purchaseID)
}

type mockContactService struct {
	SendF func(context.Context, services.ContactInput) error
}

func (m *mockContactService) Send(ctx context.Context, in services.ContactInput) error {
	return m.SendF(ctx, in)
}

type mockDashboardService struct {
	LoadF func(context.Context, services.DashboardQuery) (*models.Dashboard, error)
}

func (m *mockDashboardService) Load(ctx context.Context, q services.DashboardQuery) (*models.Dashboard, error) {
	return m.LoadF(ctx, q)
}
