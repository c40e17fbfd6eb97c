package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
)

// DashboardStats is the landing-page aggregate.
type DashboardStats struct {
	TotalClients    int64            `json:"total_clients"`
	TotalPolicies   int64            `json:"total_policies"`
	ActivePolicies  int64            `json:"active_policies"`
	RenewedPolicies int64            `json:"renewed_policies"`
	LostPolicies    int64            `json:"lost_policies"`
	DueSoon         int64            `json:"due_soon"`
	Overdue         int64            `json:"overdue"`
	MonthlyPremiums []MonthlyPremium `json:"monthly_premiums"`
}

// MonthlyPremium totals active-policy premiums per due-date month.
type MonthlyPremium struct {
	Month   string          `json:"month"` // "2026-03"
	Premium decimal.Decimal `json:"premium"`
}

// UpcomingBirthday is a client plus the next calendar occurrence of their
// birthday. Matching is year-agnostic.
type UpcomingBirthday struct {
	Client client.Client
	Next   time.Time
}

type DashboardService struct {
	clients       client.Repository
	policies      policy.Repository
	snapshotLimit int
}

func NewDashboardService(clients client.Repository, policies policy.Repository, snapshotLimit int) *DashboardService {
	return &DashboardService{
		clients:       clients,
		policies:      policies,
		snapshotLimit: snapshotLimit,
	}
}

// Stats computes the dashboard counters. dueSoonDays bounds the "due soon"
// window from today forward.
func (s *DashboardService) Stats(ctx context.Context, now time.Time, dueSoonDays int) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalClients, err = s.clients.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalPolicies, err = s.policies.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActivePolicies, err = s.policies.CountByStatus(ctx, policy.StatusActive); err != nil {
		return nil, err
	}
	if stats.RenewedPolicies, err = s.policies.CountByStatus(ctx, policy.StatusRenewed); err != nil {
		return nil, err
	}
	if stats.LostPolicies, err = s.policies.CountByStatus(ctx, policy.StatusLost); err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	horizon := today.AddDate(0, 0, dueSoonDays)

	_, stats.DueSoon, err = s.policies.GetPaginated(ctx, &policy.FindParams{
		Status:  policy.StatusActive,
		DueFrom: &today,
		DueTo:   &horizon,
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}

	dayBefore := today.AddDate(0, 0, -1)
	_, stats.Overdue, err = s.policies.GetPaginated(ctx, &policy.FindParams{
		Status: policy.StatusActive,
		DueTo:  &dayBefore,
		Limit:  1,
	})
	if err != nil {
		return nil, err
	}

	snapshot, err := s.policies.GetAllWithClient(ctx, s.snapshotLimit)
	if err != nil {
		return nil, err
	}
	stats.MonthlyPremiums = monthlyPremiums(snapshot)

	return stats, nil
}

// monthlyPremiums sums active-policy premiums by due-date month, ordered
// chronologically.
func monthlyPremiums(policies []policy.WithClient) []MonthlyPremium {
	totals := make(map[string]decimal.Decimal)
	for _, p := range policies {
		if p.Status() != policy.StatusActive || p.Premium() == nil {
			continue
		}
		key := p.DueDate().Format("2006-01")
		totals[key] = totals[key].Add(*p.Premium())
	}

	months := make([]string, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthlyPremium, 0, len(months))
	for _, m := range months {
		out = append(out, MonthlyPremium{Month: m, Premium: totals[m]})
	}
	return out
}

// UpcomingBirthdays lists clients whose birthday falls within the next days,
// year-agnostic, ordered by next occurrence.
func (s *DashboardService) UpcomingBirthdays(ctx context.Context, now time.Time, days int) ([]UpcomingBirthday, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	horizon := today.AddDate(0, 0, days)

	seen := make(map[time.Month]bool)
	var out []UpcomingBirthday
	for cursor := today; !cursor.After(horizon); cursor = cursor.AddDate(0, 0, 1) {
		if seen[cursor.Month()] {
			continue
		}
		seen[cursor.Month()] = true

		clients, err := s.clients.GetByBirthdayMonth(ctx, cursor.Month())
		if err != nil {
			return nil, err
		}
		for _, c := range clients {
			next, ok := nextBirthday(c, today)
			if !ok || next.After(horizon) {
				continue
			}
			out = append(out, UpcomingBirthday{Client: c, Next: next})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Next.Before(out[j].Next) })
	return out, nil
}

// BirthdaysInMonth backs the birthday calendar endpoint.
func (s *DashboardService) BirthdaysInMonth(ctx context.Context, month time.Month) ([]client.Client, error) {
	return s.clients.GetByBirthdayMonth(ctx, month)
}

// nextBirthday projects a stored birthday onto its next occurrence on or
// after today. Feb 29 birthdays land on Mar 1 in common years.
func nextBirthday(c client.Client, today time.Time) (time.Time, bool) {
	b := c.Birthday()
	if b == nil {
		return time.Time{}, false
	}
	next := time.Date(today.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(today.Year()+1, b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	}
	return next, true
}
