package usecases

import (
	"context"
	goerrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"agencydesk/internal/domain/billing"
	"agencydesk/internal/domain/user"
	"agencydesk/internal/shared/db"
	apperrors "agencydesk/internal/shared/errors"
	"agencydesk/internal/shared/logger"
)

type stubUsers struct {
	byID    map[uint]*user.User
	byEmail map[string]*user.User
}

func (s *stubUsers) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

type checkoutCall struct {
	UserID            uint
	CustomerID        string
	SubscriptionID    string
	CheckoutSessionID string
}

type stubSubscriptions struct {
	mu            sync.Mutex
	byUserID      map[uint]*billing.UserSubscription
	byCustomer    map[string]*billing.UserSubscription
	bySubID       map[string]*billing.UserSubscription
	checkoutCalls []checkoutCall
	applied       []*billing.LifecycleUpdate
	appliedAudits []*billing.WebhookEvent
	applyErr      error
	statusUpdates map[string]string
	resets        []*billing.FreePlanReset
	resetMatched  bool
	resetErr      error
}

func (s *stubSubscriptions) GetByUserID(ctx context.Context, userID uint) (*billing.UserSubscription, error) {
	if sub, ok := s.byUserID[userID]; ok {
		return sub, nil
	}
	return nil, apperrors.NewNotFoundError("subscription not found")
}

func (s *stubSubscriptions) GetByStripeCustomerID(ctx context.Context, customerID string) (*billing.UserSubscription, error) {
	if sub, ok := s.byCustomer[customerID]; ok {
		return sub, nil
	}
	return nil, apperrors.NewNotFoundError("subscription not found")
}

func (s *stubSubscriptions) GetByStripeSubscriptionID(ctx context.Context, subscriptionID string) (*billing.UserSubscription, error) {
	if sub, ok := s.bySubID[subscriptionID]; ok {
		return sub, nil
	}
	return nil, apperrors.NewNotFoundError("subscription not found")
}

func (s *stubSubscriptions) SaveCheckoutInfo(ctx context.Context, userID uint, customerID, subscriptionID, checkoutSessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkoutCalls = append(s.checkoutCalls, checkoutCall{userID, customerID, subscriptionID, checkoutSessionID})
	return nil
}

func (s *stubSubscriptions) ApplyLifecycleEvent(ctx context.Context, update *billing.LifecycleUpdate, audit *billing.WebhookEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applyErr != nil {
		return s.applyErr
	}
	s.applied = append(s.applied, update)
	s.appliedAudits = append(s.appliedAudits, audit)
	return nil
}

func (s *stubSubscriptions) UpdateStatusByStripeSubscriptionID(ctx context.Context, subscriptionID string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statusUpdates == nil {
		s.statusUpdates = make(map[string]string)
	}
	s.statusUpdates[subscriptionID] = status
	return nil
}

func (s *stubSubscriptions) ResetToFreePlan(ctx context.Context, reset *billing.FreePlanReset) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resetErr != nil {
		return false, s.resetErr
	}
	s.resets = append(s.resets, reset)
	return s.resetMatched, nil
}

type stubEvents struct {
	mu          sync.Mutex
	seen        map[string]bool
	deletedSubs map[string]bool
	inserted    []*billing.WebhookEvent
}

func (s *stubEvents) ExistsByStripeEventID(ctx context.Context, eventID string) (bool, error) {
	return s.seen[eventID], nil
}

func (s *stubEvents) HasDeletedEventForSubscription(ctx context.Context, subscriptionID string) (bool, error) {
	return s.deletedSubs[subscriptionID], nil
}

func (s *stubEvents) Insert(ctx context.Context, event *billing.WebhookEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserted = append(s.inserted, event)
	return nil
}

func (s *stubEvents) auditRows() []*billing.WebhookEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*billing.WebhookEvent(nil), s.inserted...)
}

type addonCancel struct {
	UserID uint
	Slug   string
}

type stubAddons struct {
	mu           sync.Mutex
	byUserAddon  map[string]*billing.AddonSubscription
	listBySub    map[string][]*billing.AddonSubscription
	upserts      []*billing.AddonSubscription
	drifts       []*billing.ParentDrift
	cancels      []addonCancel
	cancelsBySub []string
}

func addonKey(userID uint, slug string) string {
	return fmt.Sprintf("%d:%s", userID, slug)
}

func (s *stubAddons) GetByUserAndAddon(ctx context.Context, userID uint, addonSlug string) (*billing.AddonSubscription, error) {
	if addon, ok := s.byUserAddon[addonKey(userID, addonSlug)]; ok {
		return addon, nil
	}
	return nil, apperrors.NewNotFoundError("addon subscription not found")
}

func (s *stubAddons) ListByStripeSubscriptionID(ctx context.Context, subscriptionID string) ([]*billing.AddonSubscription, error) {
	return s.listBySub[subscriptionID], nil
}

func (s *stubAddons) Upsert(ctx context.Context, sub *billing.AddonSubscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts = append(s.upserts, sub)
	return nil
}

func (s *stubAddons) SyncParentDrift(ctx context.Context, subscriptionID string, drift *billing.ParentDrift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drifts = append(s.drifts, drift)
	return nil
}

func (s *stubAddons) Cancel(ctx context.Context, userID uint, addonSlug string, cancelledAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels = append(s.cancels, addonCancel{userID, addonSlug})
	return nil
}

func (s *stubAddons) CancelByStripeSubscriptionID(ctx context.Context, subscriptionID string, cancelledAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelsBySub = append(s.cancelsBySub, subscriptionID)
	return nil
}

type stubSeatPacks struct {
	mu           sync.Mutex
	listBySub    map[string][]*billing.SeatPack
	cancels      []string
	cancelsBySub []string
}

func (s *stubSeatPacks) ListByStripeSubscriptionID(ctx context.Context, subscriptionID string) ([]*billing.SeatPack, error) {
	return s.listBySub[subscriptionID], nil
}

func (s *stubSeatPacks) Upsert(ctx context.Context, pack *billing.SeatPack) error {
	return nil
}

func (s *stubSeatPacks) Cancel(ctx context.Context, stripeItemID string, cancelledAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels = append(s.cancels, stripeItemID)
	return nil
}

func (s *stubSeatPacks) CancelByStripeSubscriptionID(ctx context.Context, subscriptionID string, cancelledAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelsBySub = append(s.cancelsBySub, subscriptionID)
	return nil
}

type agentStatusUpdate struct {
	UserID uint
	Status string
}

type stubAgents struct {
	mu            sync.Mutex
	byUser        map[uint]*billing.ProvisionedAgent
	saved         []*billing.ProvisionedAgent
	statusUpdates []agentStatusUpdate
	tierUpdates   map[uint]string
}

func (s *stubAgents) GetByUserID(ctx context.Context, userID uint) (*billing.ProvisionedAgent, error) {
	if agent, ok := s.byUser[userID]; ok {
		return agent, nil
	}
	return nil, apperrors.NewNotFoundError("agent not found")
}

func (s *stubAgents) Save(ctx context.Context, agent *billing.ProvisionedAgent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, agent)
	return nil
}

func (s *stubAgents) UpdateStatus(ctx context.Context, userID uint, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusUpdates = append(s.statusUpdates, agentStatusUpdate{userID, status})
	return nil
}

func (s *stubAgents) UpdateTier(ctx context.Context, userID uint, tierID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tierUpdates == nil {
		s.tierUpdates = make(map[uint]string)
	}
	s.tierUpdates[userID] = tierID
	return nil
}

type stubPayments struct {
	mu        sync.Mutex
	inserted  []*billing.Payment
	insertErr error
}

func (s *stubPayments) Insert(ctx context.Context, payment *billing.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, payment)
	return nil
}

func (s *stubPayments) ListByUserID(ctx context.Context, userID uint) ([]*billing.Payment, error) {
	return nil, nil
}

type stubPlans struct {
	byID    map[uint]*billing.Plan
	bySlug  map[string]*billing.Plan
	byPrice map[string]*billing.Plan
	free    *billing.Plan
}

func (s *stubPlans) GetByID(ctx context.Context, id uint) (*billing.Plan, error) {
	if plan, ok := s.byID[id]; ok {
		return plan, nil
	}
	return nil, apperrors.NewNotFoundError("plan not found")
}

func (s *stubPlans) GetBySlug(ctx context.Context, slug string) (*billing.Plan, error) {
	if plan, ok := s.bySlug[slug]; ok {
		return plan, nil
	}
	return nil, apperrors.NewNotFoundError("plan not found")
}

func (s *stubPlans) GetByStripePriceID(ctx context.Context, priceID string) (*billing.Plan, error) {
	if plan, ok := s.byPrice[priceID]; ok {
		return plan, nil
	}
	return nil, apperrors.NewNotFoundError("plan not found")
}

func (s *stubPlans) GetFreePlan(ctx context.Context) (*billing.Plan, error) {
	if s.free != nil {
		return s.free, nil
	}
	return nil, apperrors.NewNotFoundError("free plan not found")
}

type stubTiers struct {
	byTier map[string]*billing.AddonTier
}

func (s *stubTiers) GetByTierID(ctx context.Context, tierID string) (*billing.AddonTier, error) {
	if tier, ok := s.byTier[tierID]; ok {
		return tier, nil
	}
	return nil, apperrors.NewNotFoundError("addon tier not found")
}

type stubGateway struct {
	emails   map[string]string
	subs     map[string]*billing.ProviderSubscription
	products map[string]string
}

func (s *stubGateway) GetCustomerEmail(ctx context.Context, customerID string) (string, error) {
	if email, ok := s.emails[customerID]; ok {
		return email, nil
	}
	return "", goerrors.New("customer not found")
}

func (s *stubGateway) GetSubscription(ctx context.Context, subscriptionID string) (*billing.ProviderSubscription, error) {
	if sub, ok := s.subs[subscriptionID]; ok {
		return sub, nil
	}
	return nil, goerrors.New("subscription not found")
}

func (s *stubGateway) GetProductName(ctx context.Context, productID string) (string, error) {
	if name, ok := s.products[productID]; ok {
		return name, nil
	}
	return "", goerrors.New("product not found")
}

type notification struct {
	Template string
	ToEmail  string
	Vars     map[string]string
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (s *stubNotifier) Send(ctx context.Context, template, toEmail, toName string, vars map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, notification{template, toEmail, vars})
	return nil
}

func (s *stubNotifier) notifications() []notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification(nil), s.sent...)
}

type adminNotice struct {
	Subject string
	Body    string
}

type stubAdmin struct {
	mu      sync.Mutex
	notices []adminNotice
}

func (s *stubAdmin) Notify(ctx context.Context, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, adminNotice{subject, body})
	return nil
}

func (s *stubAdmin) list() []adminNotice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]adminNotice(nil), s.notices...)
}

type createAgentCall struct {
	Name      string
	LeadLimit int
}

type stubProvisioner struct {
	mu        sync.Mutex
	enabled   bool
	createdID string
	createErr error
	deleteErr error
	updateErr error
	creates   []createAgentCall
	deletes   []string
	updates   map[string]int
}

func (s *stubProvisioner) Enabled() bool {
	return s.enabled
}

func (s *stubProvisioner) CreateAgent(ctx context.Context, name string, leadLimit int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, createAgentCall{name, leadLimit})
	if s.createErr != nil {
		return "", s.createErr
	}
	return s.createdID, nil
}

func (s *stubProvisioner) DeleteAgent(ctx context.Context, externalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, externalID)
	return s.deleteErr
}

func (s *stubProvisioner) UpdateAgentLeadLimit(ctx context.Context, externalID string, leadLimit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updates == nil {
		s.updates = make(map[string]int)
	}
	s.updates[externalID] = leadLimit
	return s.updateErr
}

type fixture struct {
	subs     *stubSubscriptions
	addons   *stubAddons
	seats    *stubSeatPacks
	agents   *stubAgents
	payments *stubPayments
	plans    *stubPlans
	tiers    *stubTiers
	events   *stubEvents
	users    *stubUsers
	gateway  *stubGateway
	notifier *stubNotifier
	admin    *stubAdmin
	prov     *stubProvisioner
	uc       *ProcessWebhookEventUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	f := &fixture{
		subs:     &stubSubscriptions{byUserID: map[uint]*billing.UserSubscription{}, byCustomer: map[string]*billing.UserSubscription{}, bySubID: map[string]*billing.UserSubscription{}, resetMatched: true},
		addons:   &stubAddons{byUserAddon: map[string]*billing.AddonSubscription{}, listBySub: map[string][]*billing.AddonSubscription{}},
		seats:    &stubSeatPacks{listBySub: map[string][]*billing.SeatPack{}},
		agents:   &stubAgents{byUser: map[uint]*billing.ProvisionedAgent{}},
		payments: &stubPayments{},
		plans:    &stubPlans{byID: map[uint]*billing.Plan{}, bySlug: map[string]*billing.Plan{}, byPrice: map[string]*billing.Plan{}},
		tiers:    &stubTiers{byTier: map[string]*billing.AddonTier{}},
		events:   &stubEvents{seen: map[string]bool{}, deletedSubs: map[string]bool{}},
		users:    &stubUsers{byID: map[uint]*user.User{}, byEmail: map[string]*user.User{}},
		gateway:  &stubGateway{emails: map[string]string{}, subs: map[string]*billing.ProviderSubscription{}, products: map[string]string{}},
		notifier: &stubNotifier{},
		admin:    &stubAdmin{},
		prov:     &stubProvisioner{},
	}

	f.uc = NewProcessWebhookEventUseCase(ProcessWebhookEventDeps{
		Subscriptions: f.subs,
		Addons:        f.addons,
		SeatPacks:     f.seats,
		Agents:        f.agents,
		Payments:      f.payments,
		Plans:         f.plans,
		Tiers:         f.tiers,
		Events:        f.events,
		Users:         f.users,
		TxManager:     db.NewTransactionManager(database),
		Gateway:       f.gateway,
		Notifier:      f.notifier,
		AdminNotifier: f.admin,
		Provisioner:   f.prov,
		Logger:        logger.NewLogger(),
	})
	return f
}

func (f *fixture) addUser(id uint, name, email string) *user.User {
	u := &user.User{ID: id, Name: name, Email: email}
	f.users.byID[id] = u
	f.users.byEmail[email] = u
	return u
}
