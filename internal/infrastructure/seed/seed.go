package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"agrocredit-backend/internal/domain/advisory"
	"agrocredit-backend/internal/domain/farmer"
	"agrocredit-backend/internal/domain/loan"
	"agrocredit-backend/internal/domain/payment"
	"agrocredit-backend/internal/domain/uow"
	"agrocredit-backend/pkg/id"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoFixture []byte

type Fixture struct {
	Farmers []FarmerFixture `yaml:"farmers"`
}

type FarmerFixture struct {
	Email       string        `yaml:"email"`
	FullName    string        `yaml:"full_name"`
	CreditScore int           `yaml:"credit_score"`
	Farms       []FarmFixture `yaml:"farms"`
}

type FarmFixture struct {
	Name            string                  `yaml:"name"`
	SizeAcres       float64                 `yaml:"size_acres"`
	Loans           []LoanFixture           `yaml:"loans"`
	Readings        []ReadingFixture        `yaml:"readings"`
	Recommendations []RecommendationFixture `yaml:"recommendations"`
}

type LoanFixture struct {
	Amount         float64          `yaml:"amount"`
	TermMonths     int              `yaml:"term_months"`
	Purpose        string           `yaml:"purpose"`
	Status         loan.Status      `yaml:"status"`
	CreatedDaysAgo int              `yaml:"created_days_ago"`
	Payments       []PaymentFixture `yaml:"payments"`
}

type PaymentFixture struct {
	Amount  float64 `yaml:"amount"`
	DaysAgo int     `yaml:"days_ago"`
}

type ReadingFixture struct {
	Type  advisory.UtilityType `yaml:"type"`
	Value float64              `yaml:"value"`
	Unit  string               `yaml:"unit"`
}

type RecommendationFixture struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
	Type    string `yaml:"type"`
}

// Load reads a fixture from path, or the embedded demo fixture when path is empty.
func Load(path string) (*Fixture, error) {
	raw := demoFixture
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode seed fixture: %w", err)
	}
	return &f, nil
}

type Seeder struct {
	uow uow.UnitOfWork
	log *zap.Logger
	now func() time.Time
}

func New(u uow.UnitOfWork, log *zap.Logger) *Seeder {
	return &Seeder{uow: u, log: log, now: time.Now}
}

// Run writes the fixture in one transaction, only when no farmer exists yet.
// It reports whether anything was written.
func (s *Seeder) Run(ctx context.Context, f *Fixture) (bool, error) {
	seeded := false
	err := s.uow.WithinTx(ctx, func(r uow.Repos) error {
		n, err := r.Farmers.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		now := s.now().UTC()
		for _, ff := range f.Farmers {
			if err := s.farmer(ctx, r, ff, now); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if seeded {
		s.log.Info("seed: demo data loaded", zap.Int("farmers", len(f.Farmers)))
	} else {
		s.log.Debug("seed: skipped, farmers table not empty")
	}
	return seeded, nil
}

func (s *Seeder) farmer(ctx context.Context, r uow.Repos, ff FarmerFixture, now time.Time) error {
	fm := &farmer.Farmer{Email: ff.Email, FullName: ff.FullName, CreditScore: ff.CreditScore}
	if err := r.Farmers.Create(ctx, fm); err != nil {
		return fmt.Errorf("create farmer %s: %w", ff.Email, err)
	}
	for _, fa := range ff.Farms {
		farm := &farmer.Farm{FarmerID: fm.ID, Name: fa.Name, SizeAcres: fa.SizeAcres}
		if err := r.Farmers.CreateFarm(ctx, farm); err != nil {
			return fmt.Errorf("create farm %s: %w", fa.Name, err)
		}
		for _, lf := range fa.Loans {
			if err := s.loan(ctx, r, farm.ID, lf, now); err != nil {
				return err
			}
		}
		for _, rf := range fa.Readings {
			u := &advisory.UtilityReading{
				FarmID:       farm.ID,
				UtilityType:  rf.Type,
				ReadingValue: rf.Value,
				Unit:         rf.Unit,
				ReadingDate:  now,
			}
			if err := r.Advisory.CreateReading(ctx, u); err != nil {
				return fmt.Errorf("create reading: %w", err)
			}
		}
		for _, rf := range fa.Recommendations {
			rec := &advisory.Recommendation{
				FarmID:    farm.ID,
				Title:     rf.Title,
				Message:   rf.Message,
				Type:      rf.Type,
				CreatedAt: now,
			}
			if err := r.Advisory.CreateRecommendation(ctx, rec); err != nil {
				return fmt.Errorf("create recommendation: %w", err)
			}
		}
	}
	return nil
}

func (s *Seeder) loan(ctx context.Context, r uow.Repos, farmID uint64, lf LoanFixture, now time.Time) error {
	l, err := loan.NewRequest(farmID, id.NewReference(), lf.Amount, lf.TermMonths, lf.Purpose)
	if err != nil {
		return fmt.Errorf("seed loan %q: %w", lf.Purpose, err)
	}
	created := now.AddDate(0, 0, -lf.CreatedDaysAgo)
	l.CreatedAt = created
	if lf.Status != "" {
		if !lf.Status.Valid() {
			return fmt.Errorf("seed loan %q: %w: %q", lf.Purpose, loan.ErrUnknownStatus, lf.Status)
		}
		l.Status = lf.Status
	}
	if l.Status == loan.StatusActive {
		l.ActivatedAt = &created
	}
	if err := r.Loans.Create(ctx, l); err != nil {
		return fmt.Errorf("create loan: %w", err)
	}
	for _, pf := range lf.Payments {
		p := &payment.Payment{
			LoanID:      l.ID,
			Amount:      pf.Amount,
			PaymentDate: now.AddDate(0, 0, -pf.DaysAgo),
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
	}
	return nil
}
