package financesvc

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"petcare/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type financeRepoFake struct {
	ledger  []model.TransactionLog
	payouts map[string]*model.Payout

	updateCalls int
	loseRace    bool
}

func newFinanceRepoFake() *financeRepoFake {
	return &financeRepoFake{payouts: map[string]*model.Payout{}}
}

func (f *financeRepoFake) Append(_ context.Context, e *model.TransactionLog) error {
	f.ledger = append(f.ledger, *e)
	return nil
}

func (f *financeRepoFake) ListByUser(_ context.Context, userID string) ([]model.TransactionLog, error) {
	var out []model.TransactionLog
	for _, e := range f.ledger {
		if e.UserID != nil && *e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *financeRepoFake) TotalCredits(_ context.Context, userID string) (decimal.Decimal, error) {
	return f.sumSince(userID, time.Time{}), nil
}

func (f *financeRepoFake) CreditsSince(_ context.Context, userID string, since time.Time) (decimal.Decimal, error) {
	return f.sumSince(userID, since), nil
}

func (f *financeRepoFake) sumSince(userID string, since time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range f.ledger {
		if e.UserID != nil && *e.UserID == userID && e.Direction == model.DirectionCredit && !e.CreatedAt.Before(since) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func (f *financeRepoFake) CreatePayout(_ context.Context, p *model.Payout) error {
	cp := *p
	cp.CreatedAt = time.Now()
	f.payouts[p.ID] = &cp
	p.CreatedAt = cp.CreatedAt
	return nil
}

func (f *financeRepoFake) PayoutByID(_ context.Context, id string) (*model.Payout, error) {
	p, ok := f.payouts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *financeRepoFake) UpdatePayoutStatusIfCurrent(_ context.Context, id string, from, to model.PayoutStatus, paidAt *time.Time) (bool, error) {
	f.updateCalls++
	if f.loseRace {
		return false, nil
	}
	p, ok := f.payouts[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	if paidAt != nil {
		p.PaidAt = paidAt
	}
	return true, nil
}

func (f *financeRepoFake) ListPayoutsByCaregiver(_ context.Context, caregiverID string) ([]model.Payout, error) {
	var out []model.Payout
	for _, p := range f.payouts {
		if p.CaregiverID == caregiverID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *financeRepoFake) SumPayouts(_ context.Context, caregiverID string, statuses []model.PayoutStatus) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range f.payouts {
		if p.CaregiverID != caregiverID {
			continue
		}
		for _, s := range statuses {
			if p.Status == s {
				total = total.Add(p.Amount)
			}
		}
	}
	return total, nil
}

type caregiversMock struct{}

func (caregiversMock) CaregiverByUserID(_ context.Context, userID string) (*model.CaregiverProfile, error) {
	if userID == "care-user" {
		return &model.CaregiverProfile{ID: "c1", UserID: "care-user"}, nil
	}
	return nil, sql.ErrNoRows
}

func credit(userID, amount string, at time.Time) model.TransactionLog {
	uid := userID
	return model.TransactionLog{
		ID:        "t-" + amount,
		UserID:    &uid,
		Direction: model.DirectionCredit,
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: at,
	}
}

func TestSummaryAggregatesLedgerAndPayouts(t *testing.T) {
	repo := newFinanceRepoFake()
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	repo.ledger = []model.TransactionLog{
		credit("care-user", "25.50", now.AddDate(0, 0, -3)),
		credit("care-user", "40.00", now.AddDate(0, 0, -10)),
		credit("care-user", "100.00", now.AddDate(0, 0, -90)),
		credit("someone-else", "500.00", now),
	}
	repo.payouts["p1"] = &model.Payout{ID: "p1", CaregiverID: "c1", Amount: decimal.RequireFromString("20.00"), Status: model.PayoutPending}
	repo.payouts["p2"] = &model.Payout{ID: "p2", CaregiverID: "c1", Amount: decimal.RequireFromString("15.00"), Status: model.PayoutProcessing}
	repo.payouts["p3"] = &model.Payout{ID: "p3", CaregiverID: "c1", Amount: decimal.RequireFromString("99.00"), Status: model.PayoutPaid}

	svc := &service{r: repo, caregivers: caregiversMock{}, now: func() time.Time { return now }}

	sum, err := svc.Summary(context.Background(), "care-user", 30)
	require.NoError(t, err)
	require.Equal(t, "165.50", sum.TotalEarnings.StringFixed(2))
	require.Equal(t, "35.00", sum.UpcomingPayouts.StringFixed(2))
	require.Equal(t, "65.50", sum.Last30Days.StringFixed(2))
}

func TestSummaryForOwnerHasNoPayouts(t *testing.T) {
	repo := newFinanceRepoFake()
	now := time.Now()
	repo.ledger = []model.TransactionLog{credit("owner-user", "10.00", now)}

	svc := New(repo, caregiversMock{})
	sum, err := svc.Summary(context.Background(), "owner-user", 0)
	require.NoError(t, err)
	require.Equal(t, "10.00", sum.TotalEarnings.StringFixed(2))
	require.Equal(t, "0.00", sum.UpcomingPayouts.StringFixed(2))
}

func TestRequestPayout(t *testing.T) {
	repo := newFinanceRepoFake()
	svc := New(repo, caregiversMock{})

	p, err := svc.RequestPayout(context.Background(), "care-user", model.RequestPayoutReq{Amount: "30.00"})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, "c1", p.CaregiverID)
	require.Equal(t, model.PayoutPending, p.Status)
	require.Equal(t, "USD", p.Currency)
	require.Equal(t, "30.00", p.Amount.StringFixed(2))
}

func TestRequestPayoutRejectsNonCaregiverAndBadAmount(t *testing.T) {
	svc := New(newFinanceRepoFake(), caregiversMock{})

	_, err := svc.RequestPayout(context.Background(), "owner-user", model.RequestPayoutReq{Amount: "30.00"})
	require.Equal(t, ErrNotCaregiver, Code(err))

	for _, amount := range []string{"", "abc", "0", "-5.00"} {
		_, err := svc.RequestPayout(context.Background(), "care-user", model.RequestPayoutReq{Amount: amount})
		require.Equal(t, ErrBadAmount, Code(err), "amount %q", amount)
	}
}

func TestAdvancePayoutLifecycle(t *testing.T) {
	repo := newFinanceRepoFake()
	svc := New(repo, caregiversMock{})

	p, err := svc.RequestPayout(context.Background(), "care-user", model.RequestPayoutReq{Amount: "30.00"})
	require.NoError(t, err)

	p, err = svc.AdvancePayout(context.Background(), RoleAdmin, p.ID, model.PayoutProcessing)
	require.NoError(t, err)
	require.Equal(t, model.PayoutProcessing, p.Status)
	require.Nil(t, p.PaidAt)

	p, err = svc.AdvancePayout(context.Background(), RoleAdmin, p.ID, model.PayoutPaid)
	require.NoError(t, err)
	require.Equal(t, model.PayoutPaid, p.Status)
	require.NotNil(t, p.PaidAt)
}

func TestAdvancePayoutRejectsIllegalMoves(t *testing.T) {
	repo := newFinanceRepoFake()
	svc := New(repo, caregiversMock{})

	p, err := svc.RequestPayout(context.Background(), "care-user", model.RequestPayoutReq{Amount: "30.00"})
	require.NoError(t, err)

	// pending cannot jump straight to paid or failed
	for _, to := range []model.PayoutStatus{model.PayoutPaid, model.PayoutFailed} {
		_, err := svc.AdvancePayout(context.Background(), RoleAdmin, p.ID, to)
		require.Equal(t, ErrInvalidTransition, Code(err))
	}

	_, err = svc.AdvancePayout(context.Background(), RoleAdmin, p.ID, model.PayoutProcessing)
	require.NoError(t, err)
	_, err = svc.AdvancePayout(context.Background(), RoleAdmin, p.ID, model.PayoutPaid)
	require.NoError(t, err)

	// paid is terminal
	for _, to := range []model.PayoutStatus{model.PayoutPending, model.PayoutProcessing, model.PayoutFailed} {
		_, err := svc.AdvancePayout(context.Background(), RoleAdmin, p.ID, to)
		require.Equal(t, ErrInvalidTransition, Code(err))
	}

	_, err = svc.AdvancePayout(context.Background(), RoleAdmin, "missing", model.PayoutProcessing)
	require.Equal(t, ErrPayoutNotFound, Code(err))
}

func TestAdvancePayoutRequiresAdminRole(t *testing.T) {
	repo := newFinanceRepoFake()
	svc := New(repo, caregiversMock{})

	p, err := svc.RequestPayout(context.Background(), "care-user", model.RequestPayoutReq{Amount: "30.00"})
	require.NoError(t, err)

	for _, role := range []string{"owner", "caregiver", ""} {
		_, err := svc.AdvancePayout(context.Background(), role, p.ID, model.PayoutProcessing)
		require.Equal(t, ErrForbidden, Code(err), "role %q", role)
	}

	// the payout is untouched
	stored, err := svc.MyPayouts(context.Background(), "care-user")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, model.PayoutPending, stored[0].Status)
}

func TestAdvancePayoutLostRace(t *testing.T) {
	repo := newFinanceRepoFake()
	svc := New(repo, caregiversMock{})

	p, err := svc.RequestPayout(context.Background(), "care-user", model.RequestPayoutReq{Amount: "30.00"})
	require.NoError(t, err)

	repo.loseRace = true
	_, err = svc.AdvancePayout(context.Background(), RoleAdmin, p.ID, model.PayoutProcessing)
	require.Equal(t, ErrConflict, Code(err))
}
