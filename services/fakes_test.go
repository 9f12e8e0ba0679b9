package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sidegames-golf/sidegames/mailer"
	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/repositories"
	"github.com/sidegames-golf/sidegames/storage"
)

// --- Транзакции ---

// fakeTx выполняет транзакции по одной, как блокировка строки в Postgres.
type fakeTx struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTx) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return fn(nil)
}

// --- Пользователи и профили ---

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, _ repositories.SQLExecutor, u *models.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUserRepo) GetByConfirmationToken(_ context.Context, token string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ConfirmationToken != nil && *u.ConfirmationToken == token })
}

func (f *fakeUserRepo) GetByPasswordResetToken(_ context.Context, token string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.PasswordResetToken != nil && *u.PasswordResetToken == token })
}

func (f *fakeUserRepo) ConfirmEmail(_ context.Context, id uuid.UUID) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	now := time.Now()
	u.EmailConfirmedAt = &now
	u.ConfirmationToken = nil
	return nil
}

func (f *fakeUserRepo) SetPasswordResetToken(_ context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PasswordResetToken = &token
	u.PasswordResetExpiresAt = &expiresAt
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.PasswordResetToken = nil
	u.PasswordResetExpiresAt = nil
	return nil
}

func (f *fakeUserRepo) TouchLastSignIn(_ context.Context, id uuid.UUID, at time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.LastSignInAt = &at
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uuid.UUID]*models.Profile{}}
}

func (f *fakeProfileRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Profile) error {
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p *models.Profile) error {
	if _, ok := f.profiles[p.ID]; !ok {
		return repositories.ErrProfileNotFound
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) UpdateNotifications(_ context.Context, id uuid.UUID, prefs models.NotificationPreferences) error {
	p, ok := f.profiles[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.MakePrivate = prefs.MakePrivate
	p.EnableNotifications = prefs.EnableNotifications
	p.AllowSMS = prefs.AllowSMS
	p.AllowEmail = prefs.AllowEmail
	return nil
}

func (f *fakeProfileRepo) SetImage(_ context.Context, id uuid.UUID, url, key *string) error {
	p, ok := f.profiles[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.ImageURL = url
	p.ImageKey = key
	return nil
}

func (f *fakeProfileRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID) error {
	if _, ok := f.profiles[id]; !ok {
		return repositories.ErrProfileNotFound
	}
	delete(f.profiles, id)
	return nil
}

// --- Туры и поля ---

type fakeTourRepo struct {
	tours  map[int64]*models.Tour
	nextID int64
	inUse  map[int64]bool
}

func newFakeTourRepo(tours ...models.Tour) *fakeTourRepo {
	f := &fakeTourRepo{tours: map[int64]*models.Tour{}, inUse: map[int64]bool{}}
	for i := range tours {
		t := tours[i]
		f.tours[t.ID] = &t
		if t.ID > f.nextID {
			f.nextID = t.ID
		}
	}
	return f
}

func (f *fakeTourRepo) Create(_ context.Context, t *models.Tour) error {
	for _, existing := range f.tours {
		if existing.Name == t.Name {
			return repositories.ErrTourNameConflict
		}
	}
	f.nextID++
	t.ID = f.nextID
	cp := *t
	f.tours[t.ID] = &cp
	return nil
}

func (f *fakeTourRepo) GetByID(_ context.Context, id int64) (*models.Tour, error) {
	t, ok := f.tours[id]
	if !ok {
		return nil, repositories.ErrTourNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTourRepo) List(_ context.Context) ([]models.Tour, error) {
	out := make([]models.Tour, 0, len(f.tours))
	for _, t := range f.tours {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTourRepo) Update(_ context.Context, t *models.Tour) error {
	if _, ok := f.tours[t.ID]; !ok {
		return repositories.ErrTourNotFound
	}
	cp := *t
	f.tours[t.ID] = &cp
	return nil
}

func (f *fakeTourRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.tours[id]; !ok {
		return repositories.ErrTourNotFound
	}
	if f.inUse[id] {
		return repositories.ErrTourInUse
	}
	delete(f.tours, id)
	return nil
}

type fakeLocationRepo struct {
	locations map[int64]*models.Location
	byTour    map[int64][]int64
	nextID    int64
}

func newFakeLocationRepo(locations ...models.Location) *fakeLocationRepo {
	f := &fakeLocationRepo{locations: map[int64]*models.Location{}, byTour: map[int64][]int64{}}
	for i := range locations {
		l := locations[i]
		f.locations[l.ID] = &l
		if l.ID > f.nextID {
			f.nextID = l.ID
		}
	}
	return f
}

func (f *fakeLocationRepo) Create(_ context.Context, l *models.Location) error {
	f.nextID++
	l.ID = f.nextID
	cp := *l
	f.locations[l.ID] = &cp
	return nil
}

func (f *fakeLocationRepo) GetByID(_ context.Context, id int64) (*models.Location, error) {
	l, ok := f.locations[id]
	if !ok {
		return nil, repositories.ErrLocationNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLocationRepo) List(_ context.Context, filter repositories.LocationFilter) ([]models.Location, error) {
	var ids []int64
	if filter.TourID != nil {
		ids = f.byTour[*filter.TourID]
	} else {
		for id := range f.locations {
			ids = append(ids, id)
		}
	}
	out := []models.Location{}
	for _, id := range ids {
		if l, ok := f.locations[id]; ok {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLocationRepo) Update(_ context.Context, l *models.Location) error {
	if _, ok := f.locations[l.ID]; !ok {
		return repositories.ErrLocationNotFound
	}
	cp := *l
	f.locations[l.ID] = &cp
	return nil
}

func (f *fakeLocationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.locations[id]; !ok {
		return repositories.ErrLocationNotFound
	}
	delete(f.locations, id)
	return nil
}

// --- Каталог и события ---

type fakeSideGameRepo struct {
	games []models.SideGame
	lists int
}

func (f *fakeSideGameRepo) List(_ context.Context) ([]models.SideGame, error) {
	f.lists++
	out := append([]models.SideGame(nil), f.games...)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (f *fakeSideGameRepo) GetByKey(_ context.Context, key string) (*models.SideGame, error) {
	for _, g := range f.games {
		if g.Key == key {
			cp := g
			return &cp, nil
		}
	}
	return nil, repositories.ErrSideGameNotFound
}

func (f *fakeSideGameRepo) Upsert(_ context.Context, game *models.SideGame) error {
	for i, g := range f.games {
		if g.Key == game.Key {
			f.games[i] = *game
			return nil
		}
	}
	f.games = append(f.games, *game)
	return nil
}

func testCatalog() []models.SideGame {
	return []models.SideGame{
		{ID: 1, Key: "01_Low_Net", Name: "Low Net", Value: 1000},
		{ID: 2, Key: "02_Net_Medal", Name: "Net Medal", Value: 1000},
		{ID: 3, Key: "03_Super_Skins", Name: "Super Skins", Value: 2000},
		{ID: 4, Key: "04_D1_Skins", Name: "D1 Skins", Value: 1000},
		{ID: 5, Key: "05_D2_Skins", Name: "D2 Skins", Value: 1000},
		{ID: 9, Key: "09_Closest_To_Pin", Name: "Closest To Pin", Value: 500},
	}
}

type fakeEventRepo struct {
	events map[int64]*models.Event
	nextID int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[int64]*models.Event{}}
}

func (f *fakeEventRepo) Create(_ context.Context, _ repositories.SQLExecutor, e *models.Event) error {
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id int64) (*models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) List(_ context.Context, filter repositories.EventFilter) ([]models.Event, error) {
	ids := map[int64]bool{}
	for _, id := range filter.IDs {
		ids[id] = true
	}
	out := []models.Event{}
	for _, e := range f.events {
		switch {
		case len(filter.IDs) > 0 && !ids[e.ID],
			filter.TourID != nil && e.TourID != *filter.TourID,
			filter.LocationID != nil && e.LocationID != *filter.LocationID,
			filter.Year != nil && e.Year != *filter.Year,
			filter.From != nil && e.EventDate.Before(*filter.From),
			filter.To != nil && e.EventDate.After(*filter.To),
			filter.CreatedBy != nil && (e.CreatedBy == nil || *e.CreatedBy != *filter.CreatedBy):
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) Update(_ context.Context, _ repositories.SQLExecutor, e *models.Event) error {
	if _, ok := f.events[e.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

type fakeSettingsRepo struct {
	games map[int64]models.SideGameSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{games: map[int64]models.SideGameSettings{}}
}

func (f *fakeSettingsRepo) Get(_ context.Context, eventID int64) (*models.EventSideGames, error) {
	g, ok := f.games[eventID]
	if !ok {
		return nil, repositories.ErrEventSideGamesNotFound
	}
	return &models.EventSideGames{EventID: eventID, Games: g}, nil
}

func (f *fakeSettingsRepo) ListByEvents(_ context.Context, ids []int64) (map[int64]models.SideGameSettings, error) {
	out := map[int64]models.SideGameSettings{}
	for _, id := range ids {
		if g, ok := f.games[id]; ok {
			out[id] = g
		}
	}
	return out, nil
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, g *models.EventSideGames) error {
	f.games[g.EventID] = g.Games
	return nil
}

// --- Покупки и корзина ---

type fakePurchaseRepo struct {
	purchases []models.Purchase
	nextID    int64
	createErr error
}

func (f *fakePurchaseRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Purchase) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	p.ID = f.nextID
	f.purchases = append(f.purchases, *p)
	return nil
}

func (f *fakePurchaseRepo) GetByID(_ context.Context, id int64) (*models.Purchase, error) {
	for _, p := range f.purchases {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPurchaseNotFound
}

// List отдаёт покупки новыми первыми, как репозиторий.
func (f *fakePurchaseRepo) List(_ context.Context, _ repositories.SQLExecutor, filter repositories.PurchaseFilter) ([]models.Purchase, error) {
	events := map[int64]bool{}
	for _, id := range filter.EventIDs {
		events[id] = true
	}
	out := []models.Purchase{}
	for i := len(f.purchases) - 1; i >= 0; i-- {
		p := f.purchases[i]
		if p.UserID != filter.UserID {
			continue
		}
		if len(filter.EventIDs) > 0 && !events[p.EventID] {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePurchaseRepo) CountByEvent(_ context.Context, eventID int64) (int, error) {
	n := 0
	for _, p := range f.purchases {
		if p.EventID == eventID {
			n++
		}
	}
	return n, nil
}

type fakeCartRepo struct {
	carts map[uuid.UUID]models.CartItems
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[uuid.UUID]models.CartItems{}}
}

func (f *fakeCartRepo) Get(_ context.Context, userID uuid.UUID) (*models.Cart, error) {
	items, ok := f.carts[userID]
	if !ok {
		return nil, repositories.ErrCartNotFound
	}
	return &models.Cart{ID: userID, Items: append(models.CartItems{}, items...)}, nil
}

// GetForUpdate не создаёт строку: откатов у фейка нет, пустая корзина и так пустая.
func (f *fakeCartRepo) GetForUpdate(_ context.Context, _ repositories.SQLExecutor, userID uuid.UUID) (*models.Cart, error) {
	items := f.carts[userID]
	return &models.Cart{ID: userID, Items: append(models.CartItems{}, items...)}, nil
}

func (f *fakeCartRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, c *models.Cart) error {
	f.carts[c.ID] = append(models.CartItems{}, c.Items...)
	return nil
}

func (f *fakeCartRepo) Clear(_ context.Context, _ repositories.SQLExecutor, userID uuid.UUID) error {
	if _, ok := f.carts[userID]; !ok {
		return repositories.ErrCartNotFound
	}
	delete(f.carts, userID)
	return nil
}

// --- Внешние зависимости ---

type notification struct {
	userID  uuid.UUID
	msgType string
	payload interface{}
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (f *fakeNotifier) NotifyUser(userID uuid.UUID, msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, notification{userID: userID, msgType: msgType, payload: payload})
}

func (f *fakeNotifier) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, n := range f.sent {
		out = append(out, n.msgType)
	}
	return out
}

type fakeMailer struct {
	verifications map[string]string
	resets        map[string]string
	contacts      []mailer.ContactMessage
	err           error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{verifications: map[string]string{}, resets: map[string]string{}}
}

func (f *fakeMailer) SendVerificationEmail(_ context.Context, to, token string) error {
	f.verifications[to] = token
	return f.err
}

func (f *fakeMailer) SendPasswordResetEmail(_ context.Context, to, token string) error {
	f.resets[to] = token
	return f.err
}

func (f *fakeMailer) SendContactMessage(_ context.Context, msg mailer.ContactMessage) error {
	f.contacts = append(f.contacts, msg)
	return f.err
}

type fakeRevocations struct {
	revoked map[string]time.Duration
	err     error
}

func (f *fakeRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = map[string]time.Duration{}
	}
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := f.revoked[jti]
	return ok, f.err
}

type fakeUploader struct {
	objects map[string][]byte
	deleted []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string][]byte{}}
}

func (f *fakeUploader) Upload(_ context.Context, key, _ string, r io.Reader) (*storage.UploadResult, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.objects[key] = b
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	if _, ok := f.objects[key]; !ok {
		return errors.New("no such key")
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
