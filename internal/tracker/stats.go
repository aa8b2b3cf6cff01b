package tracker

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"jobtrack/internal/model"
)

// The statistics engine: pure functions over an application list. Nothing
// here writes to the store; Service exposes thin wrappers that load the
// list and delegate.

// DateRange filters applications by DateApplied. End is inclusive of its
// whole calendar day.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RangeFromDays builds a range covering the trailing n days through the end
// of today, local time.
func RangeFromDays(days int, now time.Time) DateRange {
	end := endOfDay(now)
	return DateRange{Start: end.AddDate(0, 0, -days), End: end}
}

// FilterByRange returns the applications whose DateApplied falls inside r.
func FilterByRange(apps []model.Application, r DateRange) []model.Application {
	end := endOfDay(r.End)
	out := make([]model.Application, 0, len(apps))
	for _, a := range apps {
		if a.DateApplied.Before(r.Start) || a.DateApplied.After(end) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// StatusCounts tallies applications by status; records missing one count as
// "applied".
func StatusCounts(apps []model.Application) map[string]int {
	out := make(map[string]int)
	for _, a := range apps {
		out[a.CurrentStatus()]++
	}
	return out
}

// PlatformCounts tallies applications by source platform; records missing
// one count as "other".
func PlatformCounts(apps []model.Application) map[string]int {
	out := make(map[string]int)
	for _, a := range apps {
		p := a.Platform
		if p == "" {
			p = "other"
		}
		out[p]++
	}
	return out
}

// ApplicationStats is the summary block the dashboard shows.
type ApplicationStats struct {
	Total         int            `json:"total"`
	ThisWeek      int            `json:"thisWeek"`
	ThisMonth     int            `json:"thisMonth"`
	WeeklyTrend   [8]int         `json:"weeklyTrend"`
	ByStatus      map[string]int `json:"byStatus"`
	ByPlatform    map[string]int `json:"byPlatform"`
	InterviewRate int            `json:"interviewRate"`
	OfferRate     int            `json:"offerRate"`
}

// GetApplicationStats computes the dashboard summary. ThisWeek covers the
// trailing 7 days, ThisMonth the trailing 30. WeeklyTrend holds 8 fixed
// 7-day buckets ending today, oldest first; applications outside the window
// are dropped from the trend silently.
func GetApplicationStats(apps []model.Application, now time.Time) ApplicationStats {
	stats := ApplicationStats{
		Total:      len(apps),
		ByStatus:   StatusCounts(apps),
		ByPlatform: PlatformCounts(apps),
	}

	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	for _, a := range apps {
		if a.DateApplied.After(weekAgo) {
			stats.ThisWeek++
		}
		if a.DateApplied.After(monthAgo) {
			stats.ThisMonth++
		}
		// Bucket by whole-week offset from today: offset 0 is the current
		// 7-day bucket, offset 7 the oldest kept.
		offset := daysBetween(a.DateApplied, now) / 7
		if offset >= 0 && offset < 8 {
			stats.WeeklyTrend[7-offset]++
		}
	}

	stats.InterviewRate = percent(stats.ByStatus[model.StatusInterview], stats.Total)
	stats.OfferRate = percent(stats.ByStatus[model.StatusOffer], stats.Total)
	return stats
}

// AvgDaysToInterview averages, over applications whose history has both an
// "applied" and an "interview" entry, the whole days between them. Negative
// deltas are a data-entry artifact: logged and excluded. Returns nil when no
// application qualifies.
func AvgDaysToInterview(apps []model.Application, logger Logger) *int {
	var samples []int
	for _, a := range apps {
		applied, okA := firstHistoryDate(a, model.StatusApplied)
		interview, okI := firstHistoryDate(a, model.StatusInterview)
		if !okA || !okI {
			continue
		}
		delta := daysBetween(applied, interview)
		if delta < 0 {
			logger.Warn("applied-after-interview history, sample excluded",
				"applicationId", a.ID, "days", delta)
			continue
		}
		samples = append(samples, delta)
	}
	if len(samples) == 0 {
		return nil
	}
	avg := roundedAverage(samples)
	return &avg
}

// FunnelResult holds cumulative per-stage counts and stage-to-stage
// conversion percentages. Counts[i] is the number of applications that ever
// reached at least stage i, so the counts are monotonically non-increasing.
type FunnelResult struct {
	Stages     []string `json:"stages"`
	Counts     []int    `json:"counts"`
	Conversion []int    `json:"conversion"`
}

// Funnel computes the cumulative pipeline funnel. Each application's highest
// stage is taken from its status history when present, else from its current
// status; every stage up to that maximum is incremented. Conversion[i] is
// Counts[i+1]/Counts[i] as a rounded percent, zero when Counts[i] is zero.
func Funnel(apps []model.Application) FunnelResult {
	stageIndex := make(map[string]int, len(model.FunnelStages))
	for i, s := range model.FunnelStages {
		stageIndex[s] = i
	}

	counts := make([]int, len(model.FunnelStages))
	for _, a := range apps {
		highest := -1
		if len(a.StatusHistory) > 0 {
			for _, h := range a.StatusHistory {
				if idx, ok := stageIndex[h.Status]; ok && idx > highest {
					highest = idx
				}
			}
		} else if idx, ok := stageIndex[a.CurrentStatus()]; ok {
			highest = idx
		}
		for i := 0; i <= highest; i++ {
			counts[i]++
		}
	}

	conv := make([]int, len(counts)-1)
	for i := range conv {
		conv[i] = percent(counts[i+1], counts[i])
	}

	return FunnelResult{
		Stages:     append([]string(nil), model.FunnelStages...),
		Counts:     counts,
		Conversion: conv,
	}
}

// TimeInStatus averages, per status, the whole days applications spent in it
// before moving on. History is sorted chronologically; each delta is
// attributed to the earlier status. A negative delta (clock skew, manual
// edit) is logged and recorded as zero so the sample still counts. Statuses
// with no samples are absent from the result.
func TimeInStatus(apps []model.Application, logger Logger) map[string]int {
	samples := make(map[string][]int)
	for _, a := range apps {
		if len(a.StatusHistory) < 2 {
			continue
		}
		history := append([]model.StatusChange(nil), a.StatusHistory...)
		sort.SliceStable(history, func(i, j int) bool {
			return history[i].Date.Before(history[j].Date)
		})
		for i := 0; i < len(history)-1; i++ {
			delta := daysBetween(history[i].Date, history[i+1].Date)
			if delta < 0 {
				logger.Warn("backward status transition, clamped to zero days",
					"applicationId", a.ID, "status", history[i].Status)
				delta = 0
			}
			samples[history[i].Status] = append(samples[history[i].Status], delta)
		}
	}

	out := make(map[string]int, len(samples))
	for status, deltas := range samples {
		out[status] = roundedAverage(deltas)
	}
	return out
}

// DailyHeatmap buckets applications into local-calendar YYYY-MM-DD keys
// within r. Bucketing uses the local calendar day, not UTC, so a date stored
// at UTC midnight still lands on the day the user applied.
func DailyHeatmap(apps []model.Application, r DateRange) map[string]int {
	out := make(map[string]int)
	end := endOfDay(r.End)
	for _, a := range apps {
		if a.DateApplied.Before(r.Start) || a.DateApplied.After(end) {
			continue
		}
		out[a.DateApplied.Local().Format("2006-01-02")]++
	}
	return out
}

// DefaultHeatmapRange is the trailing 365 days through the end of local
// today.
func DefaultHeatmapRange(now time.Time) DateRange {
	return RangeFromDays(365, now)
}

// GoalProgress reports progress against one application-count target.
type GoalProgress struct {
	Target    int  `json:"target"`
	Current   int  `json:"current"`
	Percent   int  `json:"percent"`
	Completed bool `json:"completed"`
}

// GoalReport pairs the weekly and monthly goal progress.
type GoalReport struct {
	Weekly  GoalProgress `json:"weekly"`
	Monthly GoalProgress `json:"monthly"`
}

// Goals computes goal progress. The weekly window runs from the most recent
// local Sunday midnight to now; the monthly window from the first of the
// current month. Percent is capped at 100; Completed requires a positive
// target.
func Goals(apps []model.Application, goals model.GoalSettings, now time.Time) GoalReport {
	local := now.Local()
	weekStart := startOfDay(local.AddDate(0, 0, -int(local.Weekday())))
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, local.Location())

	return GoalReport{
		Weekly:  goalProgress(apps, goals.WeeklyTarget, weekStart, now),
		Monthly: goalProgress(apps, goals.MonthlyTarget, monthStart, now),
	}
}

func goalProgress(apps []model.Application, target int, start, now time.Time) GoalProgress {
	current := 0
	for _, a := range apps {
		if !a.DateApplied.Before(start) && !a.DateApplied.After(now) {
			current++
		}
	}
	p := GoalProgress{Target: target, Current: current}
	if target > 0 {
		p.Percent = percent(current, target)
		if p.Percent > 100 {
			p.Percent = 100
		}
		p.Completed = current >= target
	}
	return p
}

// RejectionReasons tallies rejected applications by reason; an empty reason
// counts as "unspecified".
func RejectionReasons(apps []model.Application) map[string]int {
	out := make(map[string]int)
	for _, a := range apps {
		if a.CurrentStatus() != model.StatusRejected {
			continue
		}
		reason := a.RejectionReason
		if reason == "" {
			reason = "unspecified"
		}
		out[reason]++
	}
	return out
}

// NeedingFollowUp returns active applications not contacted within the last
// n days. Terminal statuses (rejected, withdrawn, offer) are excluded. The
// reference time is lastContacted, falling back to the record's last update.
func NeedingFollowUp(apps []model.Application, days int, now time.Time) []model.Application {
	cutoff := now.AddDate(0, 0, -days)
	var out []model.Application
	for _, a := range apps {
		switch a.CurrentStatus() {
		case model.StatusRejected, model.StatusWithdrawn, model.StatusOffer:
			continue
		}
		ref := a.Meta.UpdatedAt
		if a.LastContacted != nil {
			ref = *a.LastContacted
		}
		if ref.Before(cutoff) {
			out = append(out, a)
		}
	}
	return out
}

// ByPriority groups applications by priority; records missing one land in
// "medium".
func ByPriority(apps []model.Application) map[string][]model.Application {
	out := make(map[string][]model.Application)
	for _, a := range apps {
		p := a.Priority
		if p == "" {
			p = model.PriorityMedium
		}
		out[p] = append(out[p], a)
	}
	return out
}

// Service wrappers: load the application list once, delegate to the pure
// functions above.

func (s *Service) Stats(ctx context.Context) (ApplicationStats, error) {
	apps, err := s.ListApplications(ctx)
	if err != nil {
		return ApplicationStats{}, err
	}
	return GetApplicationStats(apps, s.clock.Now()), nil
}

func (s *Service) FunnelReport(ctx context.Context) (FunnelResult, error) {
	apps, err := s.ListApplications(ctx)
	if err != nil {
		return FunnelResult{}, err
	}
	return Funnel(apps), nil
}

func (s *Service) TimelineReport(ctx context.Context) (map[string]int, *int, error) {
	apps, err := s.ListApplications(ctx)
	if err != nil {
		return nil, nil, err
	}
	return TimeInStatus(apps, s.logger), AvgDaysToInterview(apps, s.logger), nil
}

func (s *Service) HeatmapReport(ctx context.Context, days int) (map[string]int, error) {
	apps, err := s.ListApplications(ctx)
	if err != nil {
		return nil, err
	}
	r := DefaultHeatmapRange(s.clock.Now())
	if days > 0 {
		r = RangeFromDays(days, s.clock.Now())
	}
	return DailyHeatmap(apps, r), nil
}

func (s *Service) GoalReportNow(ctx context.Context) (GoalReport, error) {
	apps, err := s.ListApplications(ctx)
	if err != nil {
		return GoalReport{}, err
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return GoalReport{}, fmt.Errorf("loading goal targets: %w", err)
	}
	return Goals(apps, settings.Goals, s.clock.Now()), nil
}

func (s *Service) FollowUpReport(ctx context.Context) ([]model.Application, error) {
	apps, err := s.ListApplications(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading follow-up threshold: %w", err)
	}
	return NeedingFollowUp(apps, settings.Data.FollowUpAfterDays, s.clock.Now()), nil
}

// Helpers.

// daysBetween returns whole days from a to b, floored, negative when b
// precedes a.
func daysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

func endOfDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, local.Location())
}

func startOfDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// percent is n/total as a rounded integer percentage, zero-guarded.
func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

func roundedAverage(samples []int) int {
	sum := 0
	for _, s := range samples {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(samples))))
}

// firstHistoryDate returns the date of the first history entry with the
// given status.
func firstHistoryDate(a model.Application, status string) (time.Time, bool) {
	for _, h := range a.StatusHistory {
		if h.Status == status {
			return h.Date, true
		}
	}
	return time.Time{}, false
}
