package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fairgrounds/registration-service/internal/domain"
	"github.com/fairgrounds/registration-service/internal/events"
	"github.com/fairgrounds/registration-service/internal/persistence"
	"github.com/fairgrounds/registration-service/internal/repository"
)

// DashboardStats is the admin dashboard reduction over all registrations.
// TotalRevenue here is potential revenue: the fee sum across every
// registration regardless of status.
type DashboardStats struct {
	TotalRegistrations    int     `json:"totalRegistrations"`
	PendingRegistrations  int     `json:"pendingRegistrations"`
	ApprovedRegistrations int     `json:"approvedRegistrations"`
	RejectedRegistrations int     `json:"rejectedRegistrations"`
	PaidRegistrations     int     `json:"paidRegistrations"`
	TotalRevenue          float64 `json:"totalRevenue"`
	AverageStandSize      float64 `json:"averageStandSize"`

	RegistrationsByCategory CategoryCounts  `json:"registrationsByCategory"`
	RegistrationsByType     ApplicantCounts `json:"registrationsByType"`
}

// CategoryCounts breaks registrations down by product category.
type CategoryCounts struct {
	FleaMarket int `json:"fleaMarket"`
	Artisanal  int `json:"artisanal"`
}

// ApplicantCounts breaks registrations down by applicant type.
type ApplicantCounts struct {
	Company     int `json:"company"`
	Association int `json:"association"`
	Private     int `json:"private"`
}

// TreasuryStats is the treasury reduction. Unlike the dashboard,
// TotalRevenue counts collected money only (paid registrations), and
// OutstandingAmount is what approved vendors still owe.
type TreasuryStats struct {
	TotalRegistrations int     `json:"totalRegistrations"`
	PaidRegistrations  int     `json:"paidRegistrations"`
	PendingPayments    int     `json:"pendingPayments"`
	TotalRevenue       float64 `json:"totalRevenue"`
	ExpectedRevenue    float64 `json:"expectedRevenue"`
	OutstandingAmount  float64 `json:"outstandingAmount"`
}

// AggregateDashboard reduces the full registration set into dashboard
// metrics. It is pure; an empty set yields all zeroes.
func AggregateDashboard(regs []domain.Registration) DashboardStats {
	stats := DashboardStats{TotalRegistrations: len(regs)}

	var areaSum float64
	for _, reg := range regs {
		switch reg.Status {
		case domain.StatusPending:
			stats.PendingRegistrations++
		case domain.StatusApproved:
			stats.ApprovedRegistrations++
		case domain.StatusRejected:
			stats.RejectedRegistrations++
		case domain.StatusPaid:
			stats.PaidRegistrations++
		}

		stats.TotalRevenue += reg.TotalFee
		areaSum += reg.StandArea()

		switch reg.ProductCategory {
		case domain.CategoryFleaMarket:
			stats.RegistrationsByCategory.FleaMarket++
		case domain.CategoryArtisanal:
			stats.RegistrationsByCategory.Artisanal++
		}

		switch reg.ApplicantType {
		case domain.ApplicantCompany:
			stats.RegistrationsByType.Company++
		case domain.ApplicantAssociation:
			stats.RegistrationsByType.Association++
		case domain.ApplicantPrivate:
			stats.RegistrationsByType.Private++
		}
	}

	if len(regs) > 0 {
		stats.AverageStandSize = areaSum / float64(len(regs))
	}
	return stats
}

// AggregateTreasury reduces the full registration set into treasury
// metrics. It is pure; an empty set yields all zeroes.
func AggregateTreasury(regs []domain.Registration) TreasuryStats {
	stats := TreasuryStats{TotalRegistrations: len(regs)}

	for _, reg := range regs {
		switch reg.Status {
		case domain.StatusPaid:
			stats.PaidRegistrations++
			stats.TotalRevenue += reg.TotalFee
			stats.ExpectedRevenue += reg.TotalFee
		case domain.StatusApproved:
			stats.PendingPayments++
			stats.ExpectedRevenue += reg.TotalFee
			stats.OutstandingAmount += reg.TotalFee
		}
	}
	return stats
}

const (
	dashboardCacheKey = "stats:dashboard"
	treasuryCacheKey  = "stats:treasury"
)

// StatsService serves dashboard and treasury statistics, with a
// best-effort Redis cache bounding recomputation. Cache failures are
// invisible to callers: the reduction simply runs fresh.
type StatsService struct {
	regs   repository.RegistrationRepository
	cache  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsService constructs the service. A nil cache or zero TTL
// disables caching entirely.
func NewStatsService(regs repository.RegistrationRepository, cache *persistence.Redis, ttl time.Duration, logger *zap.Logger) *StatsService {
	return &StatsService{regs: regs, cache: cache, ttl: ttl, logger: logger}
}

// Dashboard returns dashboard statistics.
func (s *StatsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	var cached DashboardStats
	if s.cacheGet(ctx, dashboardCacheKey, &cached) {
		return cached, nil
	}

	regs, err := s.regs.ListAll(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	stats := AggregateDashboard(regs)
	s.cacheSet(ctx, dashboardCacheKey, stats)
	return stats, nil
}

// Treasury returns treasury statistics.
func (s *StatsService) Treasury(ctx context.Context) (TreasuryStats, error) {
	var cached TreasuryStats
	if s.cacheGet(ctx, treasuryCacheKey, &cached) {
		return cached, nil
	}

	regs, err := s.regs.ListAll(ctx)
	if err != nil {
		return TreasuryStats{}, err
	}
	stats := AggregateTreasury(regs)
	s.cacheSet(ctx, treasuryCacheKey, stats)
	return stats, nil
}

// RegisterInvalidation drops cached statistics whenever registrations
// change, keeping cache staleness bounded by writes as well as the TTL.
func (s *StatsService) RegisterInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	handler := func(ctx context.Context, _ events.Event) error {
		s.Invalidate(ctx)
		return nil
	}
	dispatcher.Subscribe(events.EventRegistrationCreated, handler)
	dispatcher.Subscribe(events.EventRegistrationUpdated, handler)
	dispatcher.Subscribe(events.EventRegistrationStatusChanged, handler)
	dispatcher.Subscribe(events.EventRegistrationPaid, handler)
	dispatcher.Subscribe(events.EventRegistrationDeleted, handler)
}

// Invalidate drops cached statistics after a registration write.
func (s *StatsService) Invalidate(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.Client.Del(ctx, dashboardCacheKey, treasuryCacheKey).Err(); err != nil {
		s.logger.Debug("stats cache invalidation failed", zap.Error(err))
	}
}

func (s *StatsService) cacheEnabled() bool {
	return s.cache != nil && s.cache.Client != nil && s.ttl > 0
}

func (s *StatsService) cacheGet(ctx context.Context, key string, out any) bool {
	if !s.cacheEnabled() {
		return false
	}
	raw, err := s.cache.Client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Debug("stats cache entry unreadable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *StatsService) cacheSet(ctx context.Context, key string, stats any) {
	if !s.cacheEnabled() {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.Debug("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}
