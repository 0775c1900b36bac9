package maintenance

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homehub/internal/database"
	"homehub/internal/domain/auth"
	"homehub/internal/domain/lease"
	"homehub/internal/domain/notification"
	"homehub/internal/domain/property"
	"homehub/internal/pkg/apperr"
	"homehub/internal/testutil"
)

type fixture struct {
	svc        *Service
	users      *auth.Repository
	properties *property.Repository
	leases     *lease.Repository
	notifier   *notification.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, auth.Migrate, notification.Migrate, property.Migrate, lease.Migrate, Migrate)
	users := auth.NewRepository(db)
	properties := property.NewRepository(db)
	leases := lease.NewRepository(db)
	notifier := notification.NewService(notification.NewRepository(db))
	svc := NewService(NewRepository(db), leases, properties, users, database.NewTransactor(db), notifier)
	return &fixture{svc: svc, users: users, properties: properties, leases: leases, notifier: notifier}
}

func (f *fixture) user(t *testing.T, email string, role auth.Role) auth.Actor {
	t.Helper()
	u := &auth.User{
		FullName:           "User " + email,
		Email:              email,
		PasswordHash:       "x",
		Role:               role,
		Phone:              "0711111111",
		VerificationStatus: auth.VerificationActive,
		IsActive:           true,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return auth.Actor{ID: u.ID, Role: role}
}

func (f *fixture) property(t *testing.T, owner auth.Actor, title string) *property.Property {
	t.Helper()
	p := &property.Property{OwnerID: owner.ID, Title: title, Address: "A", City: "Nairobi", Price: 1000, UnitNumber: "B4", Status: property.StatusApproved}
	require.NoError(t, f.properties.Create(context.Background(), p))
	return p
}

func (f *fixture) lease(t *testing.T, tenant auth.Actor, p *property.Property, status lease.Status) *lease.Lease {
	t.Helper()
	l := &lease.Lease{PropertyID: p.ID, TenantID: tenant.ID, Status: status, RentAmount: p.Price}
	require.NoError(t, f.leases.Create(context.Background(), l))
	return l
}

func (f *fixture) notifications(t *testing.T, userID int64) []notification.Notification {
	t.Helper()
	items, err := f.notifier.List(context.Background(), userID, 100, 0)
	require.NoError(t, err)
	return items
}

func TestFile_RequiresActiveLease(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	landlord := f.user(t, "landlord@example.com", auth.RoleLandlord)
	tenant := f.user(t, "tenant@example.com", auth.RoleTenant)
	intruder := f.user(t, "intruder@example.com", auth.RoleTenant)
	p := f.property(t, landlord, "Block A")
	pendingLease := f.lease(t, tenant, p, lease.StatusPending)

	_, err := f.svc.File(ctx, landlord, FileRequest{Title: "Leak"})
	assert.ErrorIs(t, err, ErrTenantOnly)

	// Without any active lease nothing may be filed.
	_, err = f.svc.File(ctx, tenant, FileRequest{Title: "Leak"})
	assert.ErrorIs(t, err, ErrNoActiveLease)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = f.svc.File(ctx, tenant, FileRequest{Title: "Leak", LeaseID: FlexibleID(pendingLease.ID)})
	assert.ErrorIs(t, err, ErrNoActiveLease)

	p2 := f.property(t, landlord, "Block B")
	active := f.lease(t, tenant, p2, lease.StatusActive)

	_, err = f.svc.File(ctx, intruder, FileRequest{Title: "Leak", LeaseID: FlexibleID(active.ID)})
	assert.ErrorIs(t, err, ErrNoActiveLease)

	_, err = f.svc.File(ctx, tenant, FileRequest{Title: "Leak", UnitID: FlexibleID(p.ID)})
	assert.ErrorIs(t, err, ErrNoActiveLease)

	_, err = f.svc.File(ctx, tenant, FileRequest{Title: "Leak", LeaseID: FlexibleID(active.ID), UnitID: FlexibleID(p.ID)})
	assert.ErrorIs(t, err, ErrNoActiveLease)

	_, err = f.svc.File(ctx, tenant, FileRequest{Title: "Leak", Priority: "whenever"})
	assert.ErrorIs(t, err, ErrInvalidPriority)

	_, err = f.svc.File(ctx, tenant, FileRequest{Title: "  "})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestFile_ResolvesLease(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	landlord := f.user(t, "landlord@example.com", auth.RoleLandlord)
	tenant := f.user(t, "tenant@example.com", auth.RoleTenant)
	p1 := f.property(t, landlord, "Unit 1")
	l1 := f.lease(t, tenant, p1, lease.StatusActive)

	v, err := f.svc.File(ctx, tenant, FileRequest{Title: "Broken tap", Description: "Kitchen", Priority: "HIGH"})
	require.NoError(t, err)
	assert.Equal(t, l1.ID, v.LeaseID)
	assert.Equal(t, p1.ID, v.PropertyID)
	assert.Equal(t, PriorityHigh, v.Priority)
	assert.Equal(t, StatusPending, v.Status)
	assert.Equal(t, "User tenant@example.com", v.TenantName)
	assert.Equal(t, "Unit 1", v.PropertyName)
	assert.Equal(t, "B4", v.UnitNumber)
	assert.NotEmpty(t, v.Date)

	notes := f.notifications(t, landlord.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, notification.TypeMaintenanceFiled, notes[0].Type)

	// With two active leases the unit has to be named.
	p2 := f.property(t, landlord, "Unit 2")
	l2 := f.lease(t, tenant, p2, lease.StatusActive)

	_, err = f.svc.File(ctx, tenant, FileRequest{Title: "Door"})
	assert.ErrorIs(t, err, ErrAmbiguousLease)

	v, err = f.svc.File(ctx, tenant, FileRequest{Title: "Door", UnitID: FlexibleID(p2.ID)})
	require.NoError(t, err)
	assert.Equal(t, l2.ID, v.LeaseID)
	assert.Equal(t, PriorityMedium, v.Priority)

	v, err = f.svc.File(ctx, tenant, FileRequest{Title: "Window", LeaseID: FlexibleID(l1.ID)})
	require.NoError(t, err)
	assert.Equal(t, l1.ID, v.LeaseID)
}

// endsLeaseOnLock ends a lease right before the property lock is granted, the
// way a termination committed by another transaction would look.
type endsLeaseOnLock struct {
	*property.Repository
	leases  *lease.Repository
	leaseID int64
}

func (e *endsLeaseOnLock) GetByIDForUpdate(ctx context.Context, id int64) (*property.Property, error) {
	if _, err := e.leases.Transition(ctx, e.leaseID, lease.StatusActive, lease.StatusEnded, nil); err != nil {
		return nil, err
	}
	return e.Repository.GetByIDForUpdate(ctx, id)
}

func TestFile_RechecksLeaseUnderPropertyLock(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	landlord := f.user(t, "landlord@example.com", auth.RoleLandlord)
	tenant := f.user(t, "tenant@example.com", auth.RoleTenant)
	p := f.property(t, landlord, "Block A")
	l := f.lease(t, tenant, p, lease.StatusActive)

	svc := NewService(f.svc.requests, f.leases, &endsLeaseOnLock{Repository: f.properties, leases: f.leases, leaseID: l.ID}, f.users, f.svc.tx, f.notifier)

	_, err := svc.File(ctx, tenant, FileRequest{LeaseID: FlexibleID(l.ID), Title: "Leak"})
	assert.ErrorIs(t, err, ErrNoActiveLease)

	items, err := f.svc.List(ctx, tenant, "")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, f.notifications(t, landlord.ID))
}

func TestUpdateStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	landlord := f.user(t, "landlord@example.com", auth.RoleLandlord)
	stranger := f.user(t, "stranger@example.com", auth.RoleLandlord)
	tenant := f.user(t, "tenant@example.com", auth.RoleTenant)
	p := f.property(t, landlord, "Tower")
	f.lease(t, tenant, p, lease.StatusActive)

	r, err := f.svc.File(ctx, tenant, FileRequest{Title: "Lift"})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, tenant, r.ID, "completed")
	assert.ErrorIs(t, err, ErrLandlordOnly)
	_, err = f.svc.UpdateStatus(ctx, stranger, r.ID, "completed")
	assert.ErrorIs(t, err, ErrNotPropertyOwner)
	_, err = f.svc.UpdateStatus(ctx, landlord, r.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.svc.UpdateStatus(ctx, landlord, r.ID, "pending")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.svc.UpdateStatus(ctx, landlord, 999, "completed")
	assert.ErrorIs(t, err, ErrRequestNotFound)

	v, err := f.svc.UpdateStatus(ctx, landlord, r.ID, "in-progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, v.Status)

	_, err = f.svc.UpdateStatus(ctx, landlord, r.ID, "in_progress")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	v, err = f.svc.UpdateStatus(ctx, landlord, r.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, v.Status)
	assert.NotNil(t, v.CompletedAt)

	_, err = f.svc.UpdateStatus(ctx, landlord, r.ID, "in_progress")
	assert.ErrorIs(t, err, ErrRequestClosed)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	assert.Len(t, f.notifications(t, tenant.ID), 2)

	// Pending straight to completed is allowed.
	r2, err := f.svc.File(ctx, tenant, FileRequest{Title: "Bulb"})
	require.NoError(t, err)
	v, err = f.svc.UpdateStatus(ctx, landlord, r2.ID, "resolved")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, v.Status)
}

func TestList_RoleFiltered(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	admin := f.user(t, "admin@example.com", auth.RoleAdmin)
	landlord := f.user(t, "landlord@example.com", auth.RoleLandlord)
	other := f.user(t, "other@example.com", auth.RoleLandlord)
	t1 := f.user(t, "t1@example.com", auth.RoleTenant)
	t2 := f.user(t, "t2@example.com", auth.RoleTenant)
	p1 := f.property(t, landlord, "Mine")
	p2 := f.property(t, other, "Theirs")
	f.lease(t, t1, p1, lease.StatusActive)
	f.lease(t, t2, p2, lease.StatusActive)

	mine, err := f.svc.File(ctx, t1, FileRequest{Title: "One"})
	require.NoError(t, err)
	_, err = f.svc.File(ctx, t2, FileRequest{Title: "Two"})
	require.NoError(t, err)

	for _, tc := range []struct {
		actor auth.Actor
		want  int
	}{
		{admin, 2},
		{landlord, 1},
		{other, 1},
		{t1, 1},
		{t2, 1},
		{f.user(t, "nobody@example.com", auth.RoleLandlord), 0},
	} {
		items, err := f.svc.List(ctx, tc.actor, "")
		require.NoError(t, err)
		assert.Len(t, items, tc.want)
	}

	pending, err := f.svc.List(ctx, admin, "pending")
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = f.svc.Get(ctx, t2, mine.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound)
	_, err = f.svc.Get(ctx, landlord, mine.ID)
	assert.NoError(t, err)
}

func TestFlexibleID(t *testing.T) {
	var req FileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"unit_id":"12","lease_id":7,"title":"x"}`), &req))
	assert.Equal(t, FlexibleID(12), req.UnitID)
	assert.Equal(t, FlexibleID(7), req.LeaseID)

	require.NoError(t, json.Unmarshal([]byte(`{"unit_id":"","lease_id":null}`), &req))
	assert.Zero(t, req.UnitID)
	assert.Zero(t, req.LeaseID)

	assert.Error(t, json.Unmarshal([]byte(`{"unit_id":"abc"}`), &req))
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"pending": StatusPending, "In Progress": StatusInProgress, "in-progress": StatusInProgress,
		"completed": StatusCompleted, "Resolved": StatusCompleted,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
