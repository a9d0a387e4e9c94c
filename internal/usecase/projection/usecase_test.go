package projection

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"agrocredit-backend/internal/adapter/repository/gormrepo"
	"agrocredit-backend/internal/domain/advisory"
	"agrocredit-backend/internal/domain/farmer"
	"agrocredit-backend/internal/domain/loan"
	"agrocredit-backend/internal/domain/payment"
	"agrocredit-backend/internal/domain/uow"
	"agrocredit-backend/internal/testutil/dbtest"
	"agrocredit-backend/internal/testutil/farmermock"
	"agrocredit-backend/internal/testutil/loanmock"
	"agrocredit-backend/internal/testutil/paymentmock"
	"agrocredit-backend/internal/testutil/uowmock"
	"agrocredit-backend/pkg/id"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	uc     *Usecase
	farmer *farmer.Farmer
	farm   *farmer.Farm
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	f, farm := dbtest.SeedFarm(t, gdb, "demo@farmer.com")
	uc := NewUsecase(gormrepo.NewGormUoW(gdb))
	return &fixture{db: gdb, uc: uc, farmer: f, farm: farm}
}

func (fx *fixture) addLoan(t *testing.T, farmID uint64, amount float64, term int, status loan.Status, activated *time.Time, paid ...float64) *loan.LoanRequest {
	t.Helper()
	ctx := context.Background()
	l, err := loan.NewRequest(farmID, id.NewReference(), amount, term, "Seeds")
	require.NoError(t, err)
	l.Status = status
	l.ActivatedAt = activated
	require.NoError(t, gormrepo.NewLoanRepository(fx.db).Create(ctx, l))
	pays := gormrepo.NewPaymentRepository(fx.db)
	for _, p := range paid {
		require.NoError(t, pays.Create(ctx, &payment.Payment{LoanID: l.ID, Amount: p, PaymentDate: time.Now().UTC()}))
	}
	return l
}

func TestNewLoanView(t *testing.T) {
	activated := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("pending uses the unsigned branch", func(t *testing.T) {
		l := &loan.LoanRequest{ID: 1, Amount: 50000, TermMonths: 12, Status: loan.StatusPending}
		v, err := NewLoanView(l, 0)
		require.NoError(t, err)
		assert.Equal(t, 56000.0, v.Remaining)
		assert.Equal(t, 0.0, v.Paid)
		assert.Equal(t, 0, v.Progress)
		assert.Equal(t, 4666.67, v.NextPayment)
		assert.Equal(t, 12.0, v.Rate)
		assert.Equal(t, NoDueDate, v.DueDate)
	})

	t.Run("waiting signature has no due date", func(t *testing.T) {
		l := &loan.LoanRequest{ID: 2, Amount: 50000, TermMonths: 12, Status: loan.StatusWaitingSignature}
		v, err := NewLoanView(l, 0)
		require.NoError(t, err)
		assert.Equal(t, NoDueDate, v.DueDate)
		assert.Equal(t, 56000.0, v.Remaining)
	})

	t.Run("active after three installments", func(t *testing.T) {
		l := &loan.LoanRequest{ID: 3, Amount: 50000, TermMonths: 12, Status: loan.StatusActive, ActivatedAt: &activated}
		v, err := NewLoanView(l, 14000.01)
		require.NoError(t, err)
		assert.Equal(t, 41999.99, v.Remaining)
		assert.Equal(t, 25, v.Progress)
		assert.Equal(t, "10.05.2025", v.DueDate)
	})

	t.Run("invalid term", func(t *testing.T) {
		l := &loan.LoanRequest{ID: 4, Amount: 50000, TermMonths: 0, Status: loan.StatusActive}
		_, err := NewLoanView(l, 0)
		assert.ErrorIs(t, err, loan.ErrInvalidTerm)
	})
}

func TestDashboardStats(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	fx.addLoan(t, fx.farm.ID, 50000, 12, loan.StatusActive, &now)
	fx.addLoan(t, fx.farm.ID, 10000, 6, loan.StatusActive, &now)
	fx.addLoan(t, fx.farm.ID, 3000, 6, loan.StatusPending, nil)
	fx.addLoan(t, fx.farm.ID, 9000, 6, loan.StatusRejected, nil)

	got, err := fx.uc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{
		TotalPortfolio:      60000,
		ActiveLoans:         2,
		PendingApplications: 1,
		RiskLevel:           "Low",
	}, got)

	again, err := fx.uc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, again, "repeated reads must be identical")
}

func TestFarmerSummary(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	fx.addLoan(t, fx.farm.ID, 50000, 12, loan.StatusActive, &now, 4200, 4200, 4200)
	fx.addLoan(t, fx.farm.ID, 10000, 6, loan.StatusActive, &now, 0.1, 0.2)
	fx.addLoan(t, fx.farm.ID, 7000, 6, loan.StatusWaitingSignature, nil)

	// another farmer's loan must not leak in
	_, otherFarm := dbtest.SeedFarm(t, fx.db, "other@farmer.com")
	fx.addLoan(t, otherFarm.ID, 99999, 12, loan.StatusActive, &now, 1000)

	got, err := fx.uc.FarmerSummary(ctx, fx.farmer.ID)
	require.NoError(t, err)
	assert.Equal(t, 60000.0, got.TotalDebt)
	assert.Equal(t, 2, got.ActiveCredits)
	assert.Equal(t, 700, got.CreditScore)
	assert.Equal(t, 12600.3, got.TotalPaid)

	_, err = fx.uc.FarmerSummary(ctx, 999)
	assert.ErrorIs(t, err, farmer.ErrNotFound)
}

func TestListFarmerLoans(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	activated := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	active := fx.addLoan(t, fx.farm.ID, 50000, 12, loan.StatusActive, &activated, 4666.67)
	pending := fx.addLoan(t, fx.farm.ID, 10000, 6, loan.StatusPending, nil)
	fx.addLoan(t, fx.farm.ID, 5000, 6, loan.StatusRejected, nil)

	got, err := fx.uc.ListFarmerLoans(ctx, fx.farmer.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, active.ID, got[0].ID)
	assert.Equal(t, active.Reference, got[0].Reference)
	assert.Equal(t, 4666.67, got[0].Paid)
	assert.Equal(t, 51333.33, got[0].Remaining)
	assert.Equal(t, 8, got[0].Progress)
	assert.Equal(t, "10.03.2025", got[0].DueDate)

	assert.Equal(t, pending.ID, got[1].ID)
	assert.Equal(t, "pending", got[1].Status)
	assert.Equal(t, 10600.0, got[1].Remaining)
	assert.Equal(t, 1766.67, got[1].NextPayment)
	assert.Equal(t, NoDueDate, got[1].DueDate)

	again, err := fx.uc.ListFarmerLoans(ctx, fx.farmer.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again, "repeated reads must be identical")

	none, err := fx.uc.ListFarmerLoans(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNotifications(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	empty, err := fx.uc.Notifications(ctx, fx.farmer.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	a1 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	a2 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	fx.addLoan(t, fx.farm.ID, 50000, 12, loan.StatusActive, &a1, 4666.67, 4666.67)
	fx.addLoan(t, fx.farm.ID, 12000, 12, loan.StatusActive, &a2)
	w1 := fx.addLoan(t, fx.farm.ID, 50000, 12, loan.StatusWaitingSignature, nil)
	w2 := fx.addLoan(t, fx.farm.ID, 1500, 6, loan.StatusWaitingSignature, nil)

	got, err := fx.uc.Notifications(ctx, fx.farmer.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, Notification{
		ID:      "sign_" + itoa(w1.ID),
		Title:   "Action Required",
		Message: "Loan application for $50,000 approved! Please sign the contract.",
		Type:    NotificationAlert,
		Link:    "/farmer/loans",
	}, got[0])
	assert.Equal(t, "sign_"+itoa(w2.ID), got[1].ID)
	assert.Equal(t, "Loan application for $1,500 approved! Please sign the contract.", got[1].Message)

	last := got[2]
	assert.Equal(t, "active_summary", last.ID)
	assert.Equal(t, NotificationInfo, last.Type)
	// loan 1 is due 10.04, loan 2 is due 01.03; the nearest wins
	assert.Equal(t, "You have 2 active credits. Next payment due on 01.03.2025.", last.Message)
}

func TestProfile(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	p, err := fx.uc.Profile(ctx, fx.farmer.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.farmer.Email, p.Email)
	assert.Equal(t, fx.farm.Name, p.FarmName)
	assert.Equal(t, 10.0, p.FarmSize)
	assert.Equal(t, fx.farmer.CreatedAt.UTC().Format(DateLayout), p.JoinedDate)

	_, err = fx.uc.Profile(ctx, 999)
	assert.ErrorIs(t, err, farmer.ErrNotFound)
}

func TestProfile_NoFarm(t *testing.T) {
	created := time.Date(2023, 1, 15, 8, 0, 0, 0, time.UTC)
	farmers := &farmermock.Repo{
		GetByIDFn: func(context.Context, uint64) (*farmer.Farmer, error) {
			return &farmer.Farmer{ID: 1, Email: "a@b.c", FullName: "A", CreditScore: 600, CreatedAt: created}, nil
		},
		GetPrimaryFarmFn: func(context.Context, uint64) (*farmer.Farm, error) {
			return nil, farmer.ErrFarmNotFound
		},
	}
	uc := NewUsecase(uowmock.Passthrough(uow.Repos{Farmers: farmers, Loans: &loanmock.Repo{}, Payments: &paymentmock.Repo{}}))

	p, err := uc.Profile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "No Farm", p.FarmName)
	assert.Zero(t, p.FarmSize)
	assert.Equal(t, "15.01.2023", p.JoinedDate)
}

func TestProfile_StorageError(t *testing.T) {
	boom := errors.New("boom")
	farmers := &farmermock.Repo{
		GetByIDFn: func(context.Context, uint64) (*farmer.Farmer, error) { return &farmer.Farmer{ID: 1}, nil },
		GetPrimaryFarmFn: func(context.Context, uint64) (*farmer.Farm, error) {
			return nil, boom
		},
	}
	uc := NewUsecase(uowmock.Passthrough(uow.Repos{Farmers: farmers, Loans: &loanmock.Repo{}, Payments: &paymentmock.Repo{}}))
	_, err := uc.Profile(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestUtilities(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	adv := gormrepo.NewAdvisoryRepository(fx.db)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, r := range []advisory.UtilityReading{
		{UtilityType: advisory.UtilityElectricity, ReadingValue: 12000, Unit: "kWh"},
		{UtilityType: advisory.UtilityWater, ReadingValue: 3500, Unit: "m3"},
		{UtilityType: advisory.UtilityElectricity, ReadingValue: 12450.5, Unit: "kWh"},
	} {
		r.FarmID = fx.farm.ID
		r.ReadingDate = base.AddDate(0, i, 0)
		require.NoError(t, adv.CreateReading(ctx, &r))
	}

	got, err := fx.uc.Utilities(ctx, fx.farmer.ID)
	require.NoError(t, err)
	assert.Equal(t, []UtilityView{
		{Type: "electricity", Value: 12000, Unit: "kWh", Diff: 0},
		{Type: "water", Value: 3500, Unit: "m3", Diff: 0},
		{Type: "electricity", Value: 12450.5, Unit: "kWh", Diff: 450.5},
	}, got)
}

func TestLatestRecommendation(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	got, err := fx.uc.LatestRecommendation(ctx, fx.farmer.ID)
	require.NoError(t, err)
	assert.Equal(t, &RecommendationView{Title: "No Recommendations", Message: "Everything looks great!", Type: "general"}, got)

	adv := gormrepo.NewAdvisoryRepository(fx.db)
	require.NoError(t, adv.CreateRecommendation(ctx, &advisory.Recommendation{
		FarmID: fx.farm.ID, Title: "Irrigation Recommendation", Message: "Water in 2 days.", Type: "irrigation",
	}))

	got, err = fx.uc.LatestRecommendation(ctx, fx.farmer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Irrigation Recommendation", got.Title)
	assert.Equal(t, "irrigation", got.Type)
}

func itoa(n uint64) string { return strconv.FormatUint(n, 10) }

// snapshotRepos fails the test when a read happens outside the view's
// single transaction.
func snapshotRepos(t *testing.T, inTx *bool) uow.Repos {
	activated := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	mustInTx := func(what string) {
		if !*inTx {
			t.Fatalf("%s read outside the view transaction", what)
		}
	}
	return uow.Repos{
		Farmers: &farmermock.Repo{
			GetByIDFn: func(context.Context, uint64) (*farmer.Farmer, error) {
				mustInTx("farmer")
				return &farmer.Farmer{ID: 1, CreditScore: 700}, nil
			},
		},
		Loans: &loanmock.Repo{
			ListByFarmerFn: func(context.Context, uint64, ...loan.Status) ([]loan.LoanRequest, error) {
				mustInTx("loans")
				return []loan.LoanRequest{{ID: 7, Amount: 50000, TermMonths: 12, Status: loan.StatusActive, ActivatedAt: &activated}}, nil
			},
		},
		Payments: &paymentmock.Repo{
			SumByLoanIDsFn: func(context.Context, []uint64) (map[uint64]float64, error) {
				mustInTx("payments")
				return map[uint64]float64{7: 4666.67}, nil
			},
		},
	}
}

func TestViews_ReadInOneTransaction(t *testing.T) {
	ctx := context.Background()
	views := map[string]func(uc *Usecase) error{
		"ListFarmerLoans": func(uc *Usecase) error { _, err := uc.ListFarmerLoans(ctx, 1); return err },
		"FarmerSummary":   func(uc *Usecase) error { _, err := uc.FarmerSummary(ctx, 1); return err },
		"Notifications":   func(uc *Usecase) error { _, err := uc.Notifications(ctx, 1); return err },
	}
	for name, call := range views {
		t.Run(name, func(t *testing.T) {
			var inTx bool
			txCount := 0
			repos := snapshotRepos(t, &inTx)
			tx := uowmock.New().WithWithinTx(func(_ context.Context, fn func(uow.Repos) error) error {
				txCount++
				inTx = true
				defer func() { inTx = false }()
				return fn(repos)
			})
			require.NoError(t, call(NewUsecase(tx)))
			assert.Equal(t, 1, txCount)
		})
	}
}

func TestViews_TransactionErrorSurfaces(t *testing.T) {
	boom := errors.New("begin failed")
	uc := NewUsecase(uowmock.New().WithWithinTx(func(context.Context, func(uow.Repos) error) error { return boom }))

	list, err := uc.ListFarmerLoans(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, list)
}
