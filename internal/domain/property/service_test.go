package property

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"homehub/internal/database"
	"homehub/internal/domain/auth"
	"homehub/internal/domain/notification"
	"homehub/internal/pkg/apperr"
	"homehub/internal/testutil"
)

type stubLeaseGuard struct {
	active  map[int64]bool
	pending map[int64][]int64
}

func (s *stubLeaseGuard) HasActiveLease(_ context.Context, propertyID int64) (bool, error) {
	return s.active[propertyID], nil
}

func (s *stubLeaseGuard) ActiveLeaseProperties(_ context.Context, ids []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, id := range ids {
		if s.active[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (s *stubLeaseGuard) RejectPending(_ context.Context, propertyID int64) ([]int64, error) {
	tenants := s.pending[propertyID]
	delete(s.pending, propertyID)
	return tenants, nil
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	users    *auth.Repository
	notifier *notification.Service
	leases   *stubLeaseGuard
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, auth.Migrate, notification.Migrate, Migrate)
	users := auth.NewRepository(db)
	notifier := notification.NewService(notification.NewRepository(db))
	leases := &stubLeaseGuard{active: map[int64]bool{}, pending: map[int64][]int64{}}
	svc := NewService(NewRepository(db), users, leases, database.NewTransactor(db), notifier)
	return &fixture{db: db, svc: svc, users: users, notifier: notifier, leases: leases}
}

func (f *fixture) user(t *testing.T, email string, role auth.Role, status auth.VerificationStatus) auth.Actor {
	t.Helper()
	u := &auth.User{
		FullName:           "User " + email,
		Email:              email,
		PasswordHash:       "x",
		Role:               role,
		VerificationStatus: status,
		IsActive:           true,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return auth.Actor{ID: u.ID, Role: role}
}

func (f *fixture) notifications(t *testing.T, userID int64) []notification.Notification {
	t.Helper()
	items, err := f.notifier.List(context.Background(), userID, 100, 0)
	require.NoError(t, err)
	return items
}

func sampleRequest(title string) CreateRequest {
	return CreateRequest{
		Title:        title,
		Address:      "1 Riverside Drive",
		City:         "Nairobi",
		Price:        45000,
		Bedrooms:     2,
		Bathrooms:    1,
		PropertyType: "Apartment",
		Amenities:    StringList{"wifi", "parking"},
	}
}

func TestCreate_Gatekeeping(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tenant := f.user(t, "tenant@example.com", auth.RoleTenant, auth.VerificationActive)
	pending := f.user(t, "pending@example.com", auth.RoleLandlord, auth.VerificationPending)
	verified := f.user(t, "verified@example.com", auth.RoleLandlord, auth.VerificationActive)

	_, err := f.svc.Create(ctx, tenant, sampleRequest("Flat"))
	assert.ErrorIs(t, err, ErrLandlordOnly)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = f.svc.Create(ctx, pending, sampleRequest("Flat"))
	assert.ErrorIs(t, err, ErrVerificationRequired)
	assert.Equal(t, apperr.KindVerificationRequired, apperr.KindOf(err))

	req := sampleRequest("")
	req.Name = "Garden Flat"
	p, err := f.svc.Create(ctx, verified, req)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, "Garden Flat", p.Title)
	assert.Equal(t, "Garden Flat", p.Name)
	assert.Equal(t, "apartment", p.PropertyType)
	assert.Equal(t, "User verified@example.com", p.OwnerName)

	stored, err := f.svc.repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"wifi", "parking"}, []string(stored.Amenities))
	assert.InDelta(t, 45000, stored.Price, 0.001)

	bad := sampleRequest("No price")
	bad.Price = 0
	_, err = f.svc.Create(ctx, verified, bad)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestPublicVisibility(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	admin := f.user(t, "admin@example.com", auth.RoleAdmin, auth.VerificationActive)
	owner := f.user(t, "owner@example.com", auth.RoleLandlord, auth.VerificationActive)
	stranger := f.user(t, "tenant@example.com", auth.RoleTenant, auth.VerificationActive)

	approved, err := f.svc.Create(ctx, owner, sampleRequest("Approved"))
	require.NoError(t, err)
	pending, err := f.svc.Create(ctx, owner, sampleRequest("Pending"))
	require.NoError(t, err)
	rejected, err := f.svc.Create(ctx, owner, sampleRequest("Rejected"))
	require.NoError(t, err)

	_, err = f.svc.SetApproval(ctx, admin, approved.ID, StatusApproved, "")
	require.NoError(t, err)
	_, err = f.svc.SetApproval(ctx, admin, rejected.ID, StatusRejected, "blurry photos")
	require.NoError(t, err)

	public, err := f.svc.ListPublic(ctx, Filters{})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, approved.ID, public[0].ID)
	for _, p := range public {
		assert.Equal(t, StatusApproved, p.Status)
	}

	all, err := f.svc.List(ctx, admin, Filters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyRejected, err := f.svc.List(ctx, admin, Filters{Status: StatusRejected})
	require.NoError(t, err)
	require.Len(t, onlyRejected, 1)
	assert.Equal(t, "blurry photos", onlyRejected[0].ReviewComment)

	// A tenant asking for a status still only gets the public catalog.
	asTenant, err := f.svc.List(ctx, stranger, Filters{Status: StatusPending})
	require.NoError(t, err)
	assert.Len(t, asTenant, 1)

	_, err = f.svc.Get(ctx, auth.Anonymous, pending.ID)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
	_, err = f.svc.Get(ctx, stranger, rejected.ID)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
	_, err = f.svc.Get(ctx, owner, pending.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, admin, pending.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, auth.Anonymous, approved.ID)
	assert.NoError(t, err)

	mine, err := f.svc.ListByOwner(ctx, owner, owner.ID, Filters{})
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	theirs, err := f.svc.ListByOwner(ctx, stranger, owner.ID, Filters{})
	require.NoError(t, err)
	assert.Len(t, theirs, 1)

	// Approved listings disappear when the landlord loses verification.
	require.NoError(t, f.users.UpdateFields(ctx, owner.ID, map[string]any{"verification_status": auth.VerificationRejected}))
	public, err = f.svc.ListPublic(ctx, Filters{})
	require.NoError(t, err)
	assert.Empty(t, public)
	_, err = f.svc.Get(ctx, auth.Anonymous, approved.ID)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestSetApproval(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	admin := f.user(t, "admin@example.com", auth.RoleAdmin, auth.VerificationActive)
	owner := f.user(t, "owner@example.com", auth.RoleLandlord, auth.VerificationActive)

	p, err := f.svc.Create(ctx, owner, sampleRequest("Loft"))
	require.NoError(t, err)

	_, err = f.svc.SetApproval(ctx, owner, p.ID, StatusApproved, "")
	assert.ErrorIs(t, err, ErrAdminOnly)

	first, err := f.svc.SetApproval(ctx, admin, p.ID, StatusApproved, "looks good")
	require.NoError(t, err)
	second, err := f.svc.SetApproval(ctx, admin, p.ID, StatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, first.Status)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.ReviewComment, second.ReviewComment)

	notes := f.notifications(t, owner.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, notification.TypePropertyApproved, notes[0].Type)
	assert.Contains(t, notes[0].Message, "looks good")

	_, err = f.svc.SetApproval(ctx, admin, p.ID, StatusRejected, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = f.svc.SetApproval(ctx, admin, 9999, StatusApproved, "")
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestResubmit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	admin := f.user(t, "admin@example.com", auth.RoleAdmin, auth.VerificationActive)
	owner := f.user(t, "owner@example.com", auth.RoleLandlord, auth.VerificationActive)
	other := f.user(t, "other@example.com", auth.RoleLandlord, auth.VerificationActive)

	p, err := f.svc.Create(ctx, owner, sampleRequest("Bungalow"))
	require.NoError(t, err)

	_, err = f.svc.Resubmit(ctx, owner, p.ID)
	assert.ErrorIs(t, err, ErrNotRejected)

	_, err = f.svc.SetApproval(ctx, admin, p.ID, StatusRejected, "missing photos")
	require.NoError(t, err)

	_, err = f.svc.Resubmit(ctx, other, p.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	out, err := f.svc.Resubmit(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, out.Status)
	assert.Empty(t, out.ReviewComment)

	_, err = f.svc.SetApproval(ctx, admin, p.ID, StatusApproved, "")
	assert.NoError(t, err)
}

func TestUpdate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	owner := f.user(t, "owner@example.com", auth.RoleLandlord, auth.VerificationActive)
	other := f.user(t, "other@example.com", auth.RoleLandlord, auth.VerificationActive)

	p, err := f.svc.Create(ctx, owner, sampleRequest("Studio"))
	require.NoError(t, err)

	price := 52000.0
	title := "Renovated Studio"
	amenities := StringList{"gym"}
	out, err := f.svc.Update(ctx, owner, p.ID, UpdateRequest{Price: &price, Title: &title, Amenities: &amenities})
	require.NoError(t, err)
	assert.InDelta(t, 52000, out.Price, 0.001)
	assert.Equal(t, "Renovated Studio", out.Title)
	assert.Equal(t, []string{"gym"}, []string(out.Amenities))
	assert.Equal(t, StatusPending, out.Status)

	_, err = f.svc.Update(ctx, other, p.ID, UpdateRequest{Price: &price})
	assert.ErrorIs(t, err, ErrNotOwner)

	negative := -1.0
	_, err = f.svc.Update(ctx, owner, p.ID, UpdateRequest{Price: &negative})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	admin := f.user(t, "admin@example.com", auth.RoleAdmin, auth.VerificationActive)
	owner := f.user(t, "owner@example.com", auth.RoleLandlord, auth.VerificationActive)
	tenant := f.user(t, "tenant@example.com", auth.RoleTenant, auth.VerificationActive)

	leased, err := f.svc.Create(ctx, owner, sampleRequest("Leased"))
	require.NoError(t, err)
	free, err := f.svc.Create(ctx, owner, sampleRequest("Free"))
	require.NoError(t, err)

	f.leases.active[leased.ID] = true
	f.leases.pending[free.ID] = []int64{tenant.ID}

	err = f.svc.Delete(ctx, owner, leased.ID)
	assert.ErrorIs(t, err, ErrActiveLease)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	err = f.svc.Delete(ctx, tenant, free.ID)
	assert.ErrorIs(t, err, ErrLandlordOnly)

	require.NoError(t, f.svc.Delete(ctx, owner, free.ID))
	_, err = f.svc.Get(ctx, admin, free.ID)
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	notes := f.notifications(t, tenant.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, notification.TypeLeaseRejected, notes[0].Type)

	// Admins may remove any unleased listing.
	delete(f.leases.active, leased.ID)
	assert.NoError(t, f.svc.Delete(ctx, admin, leased.ID))
}

func TestListFilters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	admin := f.user(t, "admin@example.com", auth.RoleAdmin, auth.VerificationActive)
	owner := f.user(t, "owner@example.com", auth.RoleLandlord, auth.VerificationActive)

	mk := func(title, city, kind string, price float64, bedrooms int) {
		req := sampleRequest(title)
		req.City = city
		req.PropertyType = kind
		req.Price = price
		req.Bedrooms = bedrooms
		p, err := f.svc.Create(ctx, owner, req)
		require.NoError(t, err)
		_, err = f.svc.SetApproval(ctx, admin, p.ID, StatusApproved, "")
		require.NoError(t, err)
	}
	mk("A", "Nairobi", "apartment", 30000, 1)
	mk("B", "Nairobi West", "house", 80000, 4)
	mk("C", "Mombasa", "apartment", 50000, 2)

	byCity, err := f.svc.ListPublic(ctx, Filters{City: "nairobi"})
	require.NoError(t, err)
	assert.Len(t, byCity, 2)

	byPrice, err := f.svc.ListPublic(ctx, Filters{MinPrice: 40000, MaxPrice: 60000})
	require.NoError(t, err)
	require.Len(t, byPrice, 1)
	assert.Equal(t, "C", byPrice[0].Title)

	byType, err := f.svc.ListPublic(ctx, Filters{PropertyType: "Apartment", Bedrooms: 2})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "C", byType[0].Title)

	newestFirst, err := f.svc.ListPublic(ctx, Filters{})
	require.NoError(t, err)
	require.Len(t, newestFirst, 3)
	assert.Equal(t, "C", newestFirst[0].Title)

	_, err = f.svc.ListPublic(ctx, Filters{MinPrice: 10, MaxPrice: 5})
	assert.ErrorIs(t, err, ErrPriceRange)
}

func TestParseAction(t *testing.T) {
	for in, want := range map[string]Status{"approve": StatusApproved, "Approved": StatusApproved, "reject": StatusRejected, " rejected ": StatusRejected} {
		got, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseAction("archive")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestStringList_UnmarshalJSON(t *testing.T) {
	var req CreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amenities":"wifi, parking ,, pool"}`), &req))
	assert.Equal(t, StringList{"wifi", "parking", "pool"}, req.Amenities)

	require.NoError(t, json.Unmarshal([]byte(`{"amenities":["gym"," "]}`), &req))
	assert.Equal(t, StringList{"gym"}, req.Amenities)

	assert.Error(t, json.Unmarshal([]byte(`{"amenities":42}`), &req))
}
