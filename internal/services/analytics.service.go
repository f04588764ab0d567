package services

import (
	"context"
	"fmt"
	"hosteldesk/internal/constants"
	"hosteldesk/internal/database"
	"hosteldesk/internal/repositories"
	"math"
	"sort"

	logger "github.com/Bparsons0904/goLogger"
)

// SLAThresholdHours is how long a complaint may stay unresolved before it
// counts as a service-level breach in the resolution report.
const SLAThresholdHours = 48.0

type CategoryBreakdownEntry struct {
	Category string  `json:"category"`
	Count    int64   `json:"count"`
	Percent  float64 `json:"percent"`
}

type RoomComplaintSummary struct {
	RoomID     string `json:"roomId"`
	RoomNumber string `json:"roomNumber"`
	HostelName string `json:"hostelName"`
	Total      int64  `json:"total"`
	Active     int64  `json:"active"`
}

type HostelComplaintSummary struct {
	HostelID       string  `json:"hostelId"`
	Name           string  `json:"name"`
	Total          int64   `json:"total"`
	Resolved       int64   `json:"resolved"`
	ResolutionRate float64 `json:"resolutionRate"`
}

type ResolutionStats struct {
	ResolvedCount int64   `json:"resolvedCount"`
	AverageHours  float64 `json:"averageHours"`
	MedianHours   float64 `json:"medianHours"`
	P90Hours      float64 `json:"p90Hours"`
	SLABreaches   int64   `json:"slaBreaches"`
}

type MonthlyTrendEntry struct {
	Month    string `json:"month"`
	Created  int64  `json:"created"`
	Resolved int64  `json:"resolved"`
}

type RoomAvailabilityEntry struct {
	RoomID           string  `json:"roomId"`
	RoomNumber       string  `json:"roomNumber"`
	HostelName       string  `json:"hostelName"`
	Capacity         int     `json:"capacity"`
	CurrentOccupancy int     `json:"currentOccupancy"`
	FreeSlots        int     `json:"freeSlots"`
	OccupancyPercent float64 `json:"occupancyPercent"`
	IsAvailable      bool    `json:"isAvailable"`
}

// AnalyticsService shapes the repository's raw aggregate rows into report
// payloads. All arithmetic lives here as pure helpers, and results are cached
// briefly in valkey since reports tolerate slightly stale reads.
type AnalyticsService struct {
	tx    TransactionExecutor
	repo  repositories.AnalyticsRepository
	cache database.CacheClient
	log   logger.Logger
}

func NewAnalyticsService(
	tx TransactionExecutor,
	repos repositories.Repository,
	cache database.CacheClient,
) *AnalyticsService {
	return &AnalyticsService{
		tx:    tx,
		repo:  repos.Analytics,
		cache: cache,
		log:   logger.New("AnalyticsService"),
	}
}

func (s *AnalyticsService) CategoryBreakdown(
	ctx context.Context,
	filter repositories.AnalyticsFilter,
) ([]CategoryBreakdownEntry, error) {
	cacheKey := s.cacheKey("categories", filter)

	var cached []CategoryBreakdownEntry
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	rows, err := s.repo.CategoryCounts(ctx, s.tx.DB(ctx), filter)
	if err != nil {
		return nil, InternalError("failed to load category counts", err)
	}

	var total int64
	for _, row := range rows {
		total += row.Count
	}

	entries := make([]CategoryBreakdownEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, CategoryBreakdownEntry{
			Category: string(row.Category),
			Count:    row.Count,
			Percent:  percent(row.Count, total),
		})
	}

	s.cacheSet(ctx, cacheKey, entries)
	return entries, nil
}

func (s *AnalyticsService) RoomSummaries(
	ctx context.Context,
	filter repositories.AnalyticsFilter,
) ([]RoomComplaintSummary, error) {
	cacheKey := s.cacheKey("rooms", filter)

	var cached []RoomComplaintSummary
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	rows, err := s.repo.RoomComplaintCounts(ctx, s.tx.DB(ctx), filter)
	if err != nil {
		return nil, InternalError("failed to load room complaint counts", err)
	}

	summaries := make([]RoomComplaintSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, RoomComplaintSummary{
			RoomID:     row.RoomID.String(),
			RoomNumber: row.RoomNumber,
			HostelName: row.HostelName,
			Total:      row.Total,
			Active:     row.Active,
		})
	}

	s.cacheSet(ctx, cacheKey, summaries)
	return summaries, nil
}

func (s *AnalyticsService) HostelSummaries(
	ctx context.Context,
	filter repositories.AnalyticsFilter,
) ([]HostelComplaintSummary, error) {
	cacheKey := s.cacheKey("hostels", filter)

	var cached []HostelComplaintSummary
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	rows, err := s.repo.HostelComplaintCounts(ctx, s.tx.DB(ctx), filter)
	if err != nil {
		return nil, InternalError("failed to load hostel complaint counts", err)
	}

	summaries := make([]HostelComplaintSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, HostelComplaintSummary{
			HostelID:       row.HostelID.String(),
			Name:           row.Name,
			Total:          row.Total,
			Resolved:       row.Resolved,
			ResolutionRate: percent(row.Resolved, row.Total),
		})
	}

	s.cacheSet(ctx, cacheKey, summaries)
	return summaries, nil
}

func (s *AnalyticsService) ResolutionReport(
	ctx context.Context,
	filter repositories.AnalyticsFilter,
) (*ResolutionStats, error) {
	cacheKey := s.cacheKey("resolution", filter)

	var cached ResolutionStats
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	hours, err := s.repo.ResolutionHours(ctx, s.tx.DB(ctx), filter)
	if err != nil {
		return nil, InternalError("failed to load resolution durations", err)
	}

	stats := computeResolutionStats(hours)
	s.cacheSet(ctx, cacheKey, stats)
	return &stats, nil
}

// MonthlyTrend merges created-per-month and resolved-per-month buckets into
// one chronologically ordered series. A month that appears in only one of
// the two gets a zero for the other.
func (s *AnalyticsService) MonthlyTrend(
	ctx context.Context,
	filter repositories.AnalyticsFilter,
) ([]MonthlyTrendEntry, error) {
	cacheKey := s.cacheKey("trend", filter)

	var cached []MonthlyTrendEntry
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	created, err := s.repo.MonthlyCreatedCounts(ctx, s.tx.DB(ctx), filter)
	if err != nil {
		return nil, InternalError("failed to load monthly created counts", err)
	}
	resolved, err := s.repo.MonthlyResolvedCounts(ctx, s.tx.DB(ctx), filter)
	if err != nil {
		return nil, InternalError("failed to load monthly resolved counts", err)
	}

	trend := mergeMonthlyCounts(created, resolved)
	s.cacheSet(ctx, cacheKey, trend)
	return trend, nil
}

func (s *AnalyticsService) RoomAvailability(
	ctx context.Context,
	filter repositories.AnalyticsFilter,
) ([]RoomAvailabilityEntry, error) {
	cacheKey := s.cacheKey("availability", filter)

	var cached []RoomAvailabilityEntry
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	rooms, err := s.repo.Rooms(ctx, s.tx.DB(ctx), filter)
	if err != nil {
		return nil, InternalError("failed to load rooms", err)
	}

	entries := make([]RoomAvailabilityEntry, 0, len(rooms))
	for _, room := range rooms {
		hostelName := ""
		if room.Hostel != nil {
			hostelName = room.Hostel.Name
		}
		entries = append(entries, RoomAvailabilityEntry{
			RoomID:           room.ID.String(),
			RoomNumber:       room.RoomNumber,
			HostelName:       hostelName,
			Capacity:         room.Capacity,
			CurrentOccupancy: room.CurrentOccupancy,
			FreeSlots:        room.FreeSlots(),
			OccupancyPercent: percent(int64(room.CurrentOccupancy), int64(room.Capacity)),
			IsAvailable:      room.IsAvailable,
		})
	}

	s.cacheSet(ctx, cacheKey, entries)
	return entries, nil
}

// Invalidate drops every cached report. The analytics cache lives in its own
// valkey database, so a FLUSHDB touches nothing else. Called whenever an
// allocation or complaint write lands.
func (s *AnalyticsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Do(ctx, s.cache.B().Flushdb().Build()).Error(); err != nil {
		s.log.Warn("analytics cache invalidation failed", "error", err)
	}
}

// percent returns part/whole as a percentage rounded to two decimals. A zero
// whole yields 0, never NaN.
func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}

// percentile returns the p-th percentile of values using nearest-rank on a
// sorted copy. Empty input yields 0.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

func computeResolutionStats(hours []float64) ResolutionStats {
	stats := ResolutionStats{ResolvedCount: int64(len(hours))}
	if len(hours) == 0 {
		return stats
	}

	var sum float64
	for _, h := range hours {
		sum += h
		if h > SLAThresholdHours {
			stats.SLABreaches++
		}
	}

	stats.AverageHours = math.Round(sum/float64(len(hours))*100) / 100
	stats.MedianHours = math.Round(percentile(hours, 50)*100) / 100
	stats.P90Hours = math.Round(percentile(hours, 90)*100) / 100
	return stats
}

func mergeMonthlyCounts(
	created, resolved []repositories.MonthlyCountRow,
) []MonthlyTrendEntry {
	byMonth := make(map[string]*MonthlyTrendEntry)
	for _, row := range created {
		byMonth[row.Month] = &MonthlyTrendEntry{Month: row.Month, Created: row.Count}
	}
	for _, row := range resolved {
		if entry, ok := byMonth[row.Month]; ok {
			entry.Resolved = row.Count
			continue
		}
		byMonth[row.Month] = &MonthlyTrendEntry{Month: row.Month, Resolved: row.Count}
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	trend := make([]MonthlyTrendEntry, 0, len(months))
	for _, month := range months {
		trend = append(trend, *byMonth[month])
	}
	return trend
}

func (s *AnalyticsService) cacheKey(report string, filter repositories.AnalyticsFilter) string {
	hostel := "all"
	if filter.HostelID != nil {
		hostel = filter.HostelID.String()
	}
	from, to := "", ""
	if filter.From != nil {
		from = filter.From.Format("2006-01-02")
	}
	if filter.To != nil {
		to = filter.To.Format("2006-01-02")
	}
	return fmt.Sprintf("%s:%s:%s:%s", report, hostel, from, to)
}

func (s *AnalyticsService) cacheGet(ctx context.Context, key string, result any) bool {
	if s.cache == nil {
		return false
	}

	found, err := database.NewCacheBuilder(s.cache, key).
		WithHash(constants.AnalyticsCachePrefix).
		WithContext(ctx).
		Get(result)
	if err != nil {
		s.log.Warn("analytics cache read failed", "key", key, "error", err)
		return false
	}
	return found
}

func (s *AnalyticsService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	err := database.NewCacheBuilder(s.cache, key).
		WithHash(constants.AnalyticsCachePrefix).
		WithContext(ctx).
		WithStruct(value).
		WithTTL(constants.AnalyticsCacheExpiry).
		Set()
	if err != nil {
		s.log.Warn("analytics cache write failed", "key", key, "error", err)
	}
}
