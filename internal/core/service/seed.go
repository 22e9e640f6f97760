package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
)

const demoPassword = "pharmacy123"

type demoPharmacy struct {
	username, email, name, license, address, phone string
}

var demoPharmacies = []demoPharmacy{
	{"rajesh_medicals", "rajesh@rajeshmedicals.com", "Rajesh Medical Store", "DL-MH-001-2023", "Shop No. 15, Andheri West, Mumbai, Maharashtra 400058", "+91-9876543210"},
	{"apollo_pharmacy_delhi", "manager@apollodelhi.com", "Apollo Pharmacy", "DL-DL-002-2023", "Connaught Place, New Delhi, Delhi 110001", "+91-9876543211"},
	{"medplus_bangalore", "admin@medplusbangalore.com", "MedPlus Health Services", "DL-KA-003-2023", "Koramangala, Bangalore, Karnataka 560034", "+91-9876543212"},
	{"wellness_pharmacy", "contact@wellnesspharmacy.com", "Wellness Pharmacy", "DL-TN-004-2023", "T. Nagar, Chennai, Tamil Nadu 600017", "+91-9876543213"},
	{"care_medicals", "info@caremedicals.com", "Care Medical Store", "DL-GJ-005-2023", "Satellite, Ahmedabad, Gujarat 380015", "+91-9876543214"},
	{"health_first_kolkata", "manager@healthfirstkolkata.com", "Health First Pharmacy", "DL-WB-006-2023", "Park Street, Kolkata, West Bengal 700016", "+91-9876543215"},
	{"sunrise_medicals", "contact@sunrisemedicals.com", "Sunrise Medical Store", "DL-RJ-007-2023", "Malviya Nagar, Jaipur, Rajasthan 302017", "+91-9876543216"},
	{"city_pharmacy_pune", "admin@citypharmacypune.com", "City Pharmacy", "DL-MH-008-2023", "Shivaji Nagar, Pune, Maharashtra 411005", "+91-9876543217"},
}

var demoCatalogue = []struct {
	name  string
	price string
}{
	{"Paracetamol 500mg", "25.50"}, {"Crocin Advance", "45.00"}, {"Dolo 650", "35.75"},
	{"Azithromycin 500mg", "125.00"}, {"Amoxicillin 250mg", "85.50"}, {"Cetirizine 10mg", "15.25"},
	{"Pantoprazole 40mg", "95.00"}, {"Metformin 500mg", "65.75"}, {"Amlodipine 5mg", "55.25"},
	{"Atorvastatin 10mg", "145.00"}, {"Omeprazole 20mg", "75.50"}, {"Losartan 50mg", "105.25"},
	{"Aspirin 75mg", "12.50"}, {"Ibuprofen 400mg", "28.75"}, {"Diclofenac 50mg", "22.25"},
	{"Ranitidine 150mg", "35.00"}, {"Montelukast 10mg", "185.50"}, {"Levothyroxine 50mcg", "95.75"},
	{"Glimepiride 2mg", "125.25"}, {"Telmisartan 40mg", "165.00"},
}

// Seeder bootstraps the accounts a fresh deployment needs. Identities created
// here bypass the approval workflow.
type Seeder struct {
	identities ports.IdentityRepository
	stocks     ports.StockRepository
	logger     zerolog.Logger
	rng        *rand.Rand
	now        func() time.Time
}

func NewSeeder(identities ports.IdentityRepository, stocks ports.StockRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{
		identities: identities,
		stocks:     stocks,
		logger:     logger,
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		now:        time.Now,
	}
}

// EnsureAdmin creates the bootstrap admin unless the username is taken.
func (s *Seeder) EnsureAdmin(ctx context.Context, username, email, password string) error {
	created, err := s.ensure(ctx, username, email, password, domain.RoleAdmin, demoPharmacy{})
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if created {
		s.logger.Info().Str("username", username).Msg("bootstrap admin created")
	}
	return nil
}

// SeedDemo inserts approved demo pharmacies with random stock and a
// government account. It does nothing once any pharmacy exists.
func (s *Seeder) SeedDemo(ctx context.Context) error {
	approved, err := s.identities.CountPharmacies(ctx, true)
	if err != nil {
		return fmt.Errorf("seed demo: %w", err)
	}
	pending, err := s.identities.CountPharmacies(ctx, false)
	if err != nil {
		return fmt.Errorf("seed demo: %w", err)
	}
	if approved+pending > 0 {
		return nil
	}

	today := domain.CalendarDate(s.now())
	rows := 0
	for _, p := range demoPharmacies {
		if _, err := s.ensure(ctx, p.username, p.email, demoPassword, domain.RolePharmacy, p); err != nil {
			return fmt.Errorf("seed pharmacy %s: %w", p.username, err)
		}
		identity, err := s.identities.FindByUsername(ctx, p.username)
		if err != nil {
			return fmt.Errorf("seed pharmacy %s: %w", p.username, err)
		}

		picks := s.rng.Perm(len(demoCatalogue))[:8+s.rng.IntN(8)]
		for _, i := range picks {
			entry := &domain.StockEntry{
				ID:           uuid.NewString(),
				PharmacyID:   identity.ID,
				MedicineName: demoCatalogue[i].name,
				Quantity:     int64(10 + s.rng.IntN(491)),
				Price:        decimal.RequireFromString(demoCatalogue[i].price),
				ExpiryDate:   today.AddDate(0, 0, 30+s.rng.IntN(701)),
				BatchNumber:  fmt.Sprintf("BATCH%d", 1000+s.rng.IntN(9000)),
				CreatedAt:    s.now().UTC(),
			}
			if err := s.stocks.Add(ctx, entry); err != nil {
				return fmt.Errorf("seed stock: %w", err)
			}
			rows++
		}
	}

	if _, err := s.ensure(ctx, "govt_admin", "admin@mohfw.gov.in", "govt123", domain.RoleGovernment, demoPharmacy{}); err != nil {
		return fmt.Errorf("seed government user: %w", err)
	}

	s.logger.Info().Int("pharmacies", len(demoPharmacies)).Int("stock_rows", rows).Msg("demo data seeded")
	return nil
}

func (s *Seeder) ensure(ctx context.Context, username, email, password string, role domain.Role, p demoPharmacy) (bool, error) {
	exists, err := s.identities.UsernameExists(ctx, username)
	if err != nil || exists {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	err = s.identities.Create(ctx, &domain.Identity{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          role,
		IsApproved:    true,
		PharmacyName:  p.name,
		LicenseNumber: p.license,
		Address:       p.address,
		Phone:         p.phone,
		CreatedAt:     s.now().UTC(),
	})
	if errors.Is(err, domain.ErrDuplicateIdentity) {
		return false, nil
	}
	return err == nil, err
}
