package repositories

import (
	"context"
	. "hosteldesk/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsFilter narrows aggregate queries to one hostel and/or a creation
// date window. Nil fields mean no filtering.
type AnalyticsFilter struct {
	HostelID *uuid.UUID
	From     *time.Time
	To       *time.Time
}

type CategoryCountRow struct {
	Category ComplaintCategory `json:"category"`
	Count    int64             `json:"count"`
}

type RoomComplaintRow struct {
	RoomID     uuid.UUID `json:"roomId"`
	RoomNumber string    `json:"roomNumber"`
	HostelName string    `json:"hostelName"`
	Total      int64     `json:"total"`
	Active     int64     `json:"active"`
}

type HostelComplaintRow struct {
	HostelID uuid.UUID `json:"hostelId"`
	Name     string    `json:"name"`
	Total    int64     `json:"total"`
	Resolved int64     `json:"resolved"`
}

type MonthlyCountRow struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// AnalyticsRepository holds the raw aggregate queries behind the read-model.
// Every method is a pure read; shaping (percentages, percentiles, rates)
// happens in the analytics service so the arithmetic is testable without a
// database.
type AnalyticsRepository interface {
	CategoryCounts(ctx context.Context, tx *gorm.DB, filter AnalyticsFilter) ([]CategoryCountRow, error)
	RoomComplaintCounts(ctx context.Context, tx *gorm.DB, filter AnalyticsFilter) ([]RoomComplaintRow, error)
	HostelComplaintCounts(ctx context.Context, tx *gorm.DB, filter AnalyticsFilter) ([]HostelComplaintRow, error)
	ResolutionHours(ctx context.Context, tx *gorm.DB, filter AnalyticsFilter) ([]float64, error)
	MonthlyCreatedCounts(ctx context.Context, tx *gorm.DB, filter AnalyticsFilter) ([]MonthlyCountRow, error)
	MonthlyResolvedCounts(ctx context.Context, tx *gorm.DB, filter AnalyticsFilter) ([]MonthlyCountRow, error)
	Rooms(ctx context.Context, tx *gorm.DB, filter AnalyticsFilter) ([]*Room, error)
}

type analyticsRepository struct{}

func NewAnalyticsRepository() AnalyticsRepository {
	return &analyticsRepository{}
}

func (r *analyticsRepository) complaintQuery(
	ctx context.Context,
	tx *gorm.DB,
	filter AnalyticsFilter,
) *gorm.DB {
	query := tx.WithContext(ctx).Model(&Complaint{})
	if filter.HostelID != nil {
		query = query.
			Joins("JOIN rooms ON rooms.id = complaints.room_id").
			Where("rooms.hostel_id = ?", *filter.HostelID)
	}
	if filter.From != nil {
		query = query.Where("complaints.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("complaints.created_at < ?", *filter.To)
	}
	return query
}

func (r *analyticsRepository) CategoryCounts(
	ctx context.Context,
	tx *gorm.DB,
	filter AnalyticsFilter,
) ([]CategoryCountRow, error) {
	log := logger.New("analyticsRepository").Function("CategoryCounts")

	var rows []CategoryCountRow
	err := r.complaintQuery(ctx, tx, filter).
		Select("complaints.category AS category, COUNT(*) AS count").
		Group("complaints.category").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, log.Err("failed to count complaints by category", err)
	}

	return rows, nil
}

func (r *analyticsRepository) RoomComplaintCounts(
	ctx context.Context,
	tx *gorm.DB,
	filter AnalyticsFilter,
) ([]RoomComplaintRow, error) {
	log := logger.New("analyticsRepository").Function("RoomComplaintCounts")

	query := tx.WithContext(ctx).Model(&Complaint{}).
		Joins("JOIN rooms ON rooms.id = complaints.room_id").
		Joins("JOIN hostels ON hostels.id = rooms.hostel_id")
	if filter.HostelID != nil {
		query = query.Where("rooms.hostel_id = ?", *filter.HostelID)
	}
	if filter.From != nil {
		query = query.Where("complaints.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("complaints.created_at < ?", *filter.To)
	}

	var rows []RoomComplaintRow
	err := query.
		Select(`rooms.id AS room_id,
			rooms.room_number AS room_number,
			hostels.name AS hostel_name,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE complaints.status NOT IN ('resolved', 'closed')) AS active`).
		Group("rooms.id, rooms.room_number, hostels.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, log.Err("failed to count complaints by room", err)
	}

	return rows, nil
}

func (r *analyticsRepository) HostelComplaintCounts(
	ctx context.Context,
	tx *gorm.DB,
	filter AnalyticsFilter,
) ([]HostelComplaintRow, error) {
	log := logger.New("analyticsRepository").Function("HostelComplaintCounts")

	query := tx.WithContext(ctx).Model(&Complaint{}).
		Joins("JOIN rooms ON rooms.id = complaints.room_id").
		Joins("JOIN hostels ON hostels.id = rooms.hostel_id")
	if filter.HostelID != nil {
		query = query.Where("hostels.id = ?", *filter.HostelID)
	}
	if filter.From != nil {
		query = query.Where("complaints.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("complaints.created_at < ?", *filter.To)
	}

	var rows []HostelComplaintRow
	err := query.
		Select(`hostels.id AS hostel_id,
			hostels.name AS name,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE complaints.status IN ('resolved', 'closed')) AS resolved`).
		Group("hostels.id, hostels.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, log.Err("failed to count complaints by hostel", err)
	}

	return rows, nil
}

// ResolutionHours returns creation-to-resolution durations in hours for
// resolved complaints inside the filter window.
func (r *analyticsRepository) ResolutionHours(
	ctx context.Context,
	tx *gorm.DB,
	filter AnalyticsFilter,
) ([]float64, error) {
	log := logger.New("analyticsRepository").Function("ResolutionHours")

	var hours []float64
	err := r.complaintQuery(ctx, tx, filter).
		Where("complaints.resolved_at IS NOT NULL").
		Pluck("EXTRACT(EPOCH FROM (complaints.resolved_at - complaints.created_at)) / 3600.0", &hours).
		Error
	if err != nil {
		return nil, log.Err("failed to fetch resolution durations", err)
	}

	return hours, nil
}

func (r *analyticsRepository) MonthlyCreatedCounts(
	ctx context.Context,
	tx *gorm.DB,
	filter AnalyticsFilter,
) ([]MonthlyCountRow, error) {
	log := logger.New("analyticsRepository").Function("MonthlyCreatedCounts")

	var rows []MonthlyCountRow
	err := r.complaintQuery(ctx, tx, filter).
		Select("to_char(complaints.created_at, 'YYYY-MM') AS month, COUNT(*) AS count").
		Group("month").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, log.Err("failed to bucket complaints by month", err)
	}

	return rows, nil
}

func (r *analyticsRepository) MonthlyResolvedCounts(
	ctx context.Context,
	tx *gorm.DB,
	filter AnalyticsFilter,
) ([]MonthlyCountRow, error) {
	log := logger.New("analyticsRepository").Function("MonthlyResolvedCounts")

	query := tx.WithContext(ctx).Model(&Complaint{}).
		Where("complaints.resolved_at IS NOT NULL")
	if filter.HostelID != nil {
		query = query.
			Joins("JOIN rooms ON rooms.id = complaints.room_id").
			Where("rooms.hostel_id = ?", *filter.HostelID)
	}
	if filter.From != nil {
		query = query.Where("complaints.resolved_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("complaints.resolved_at < ?", *filter.To)
	}

	var rows []MonthlyCountRow
	err := query.
		Select("to_char(complaints.resolved_at, 'YYYY-MM') AS month, COUNT(*) AS count").
		Group("month").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, log.Err("failed to bucket resolutions by month", err)
	}

	return rows, nil
}

func (r *analyticsRepository) Rooms(
	ctx context.Context,
	tx *gorm.DB,
	filter AnalyticsFilter,
) ([]*Room, error) {
	log := logger.New("analyticsRepository").Function("Rooms")

	query := tx.WithContext(ctx).Preload("Hostel")
	if filter.HostelID != nil {
		query = query.Where("hostel_id = ?", *filter.HostelID)
	}

	var rooms []*Room
	if err := query.Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, log.Err("failed to list rooms", err)
	}

	return rooms, nil
}
