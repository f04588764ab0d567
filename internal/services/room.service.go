package services

import (
	"context"
	"errors"
	"fmt"
	"hosteldesk/internal/repositories"
	"strings"

	. "hosteldesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HostelCreateInput struct {
	Name          string       `json:"name"`
	GenderAllowed GenderPolicy `json:"genderAllowed"`
	WardenName    *string      `json:"wardenName"`
	Address       *string      `json:"address"`
}

type RoomCreateInput struct {
	HostelID   uuid.UUID `json:"hostelId"`
	RoomNumber string    `json:"roomNumber"`
	Capacity   int       `json:"capacity"`
	Floor      *int      `json:"floor"`
}

// RoomService owns hostel and room inventory. It never touches occupancy;
// that counter belongs to the allocation path.
type RoomService struct {
	tx      TransactionExecutor
	hostels repositories.HostelRepository
	rooms   repositories.RoomRepository
	log     logger.Logger
}

func NewRoomService(tx TransactionExecutor, repos repositories.Repository) *RoomService {
	return &RoomService{
		tx:      tx,
		hostels: repos.Hostel,
		rooms:   repos.Room,
		log:     logger.New("RoomService"),
	}
}

func (s *RoomService) CreateHostel(ctx context.Context, input HostelCreateInput) (*Hostel, error) {
	log := s.log.Function("CreateHostel")

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ValidationError("hostel name is required")
	}
	if input.GenderAllowed == "" {
		input.GenderAllowed = GenderPolicyAny
	}
	if !input.GenderAllowed.Valid() {
		return nil, ValidationError("gender policy must be male, female or other")
	}

	hostel := &Hostel{
		Name:          input.Name,
		GenderAllowed: input.GenderAllowed,
		WardenName:    input.WardenName,
		Address:       input.Address,
	}

	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.hostels.Create(ctx, tx, hostel); err != nil {
			return InternalError("failed to create hostel", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("hostel created", "hostelID", hostel.ID, "name", hostel.Name)
	return hostel, nil
}

func (s *RoomService) GetHostel(ctx context.Context, id uuid.UUID) (*Hostel, error) {
	hostel, err := s.hostels.GetByID(ctx, s.tx.DB(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHostelNotFound
		}
		return nil, InternalError("failed to load hostel", err)
	}
	return hostel, nil
}

func (s *RoomService) ListHostels(ctx context.Context) ([]*Hostel, error) {
	hostels, err := s.hostels.List(ctx, s.tx.DB(ctx))
	if err != nil {
		return nil, InternalError("failed to list hostels", err)
	}
	return hostels, nil
}

// CreateRoom inserts the room and bumps the hostel's total_rooms counter in
// one transaction.
func (s *RoomService) CreateRoom(ctx context.Context, input RoomCreateInput) (*Room, error) {
	log := s.log.Function("CreateRoom")

	input.RoomNumber = strings.TrimSpace(input.RoomNumber)
	if input.RoomNumber == "" {
		return nil, ValidationError("room number is required")
	}
	if input.Capacity < 1 || input.Capacity > MaxRoomCapacity {
		return nil, ValidationError(
			fmt.Sprintf("capacity must be between 1 and %d", MaxRoomCapacity))
	}

	room := &Room{
		HostelID:    input.HostelID,
		RoomNumber:  input.RoomNumber,
		Capacity:    input.Capacity,
		IsAvailable: true,
		Floor:       input.Floor,
	}

	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := s.hostels.GetByID(ctx, tx, input.HostelID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHostelNotFound
			}
			return InternalError("failed to load hostel", err)
		}

		if err := s.rooms.Create(ctx, tx, room); err != nil {
			return InternalError("failed to create room", err)
		}
		if err := s.hostels.AdjustTotalRooms(ctx, tx, input.HostelID, 1); err != nil {
			return InternalError("failed to adjust hostel room count", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("room created",
		"roomID", room.ID, "hostelID", room.HostelID, "roomNumber", room.RoomNumber)
	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	room, err := s.rooms.GetByID(ctx, s.tx.DB(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, InternalError("failed to load room", err)
	}
	return room, nil
}

func (s *RoomService) ListRooms(ctx context.Context, hostelID *uuid.UUID) ([]*Room, error) {
	rooms, err := s.rooms.List(ctx, s.tx.DB(ctx), hostelID)
	if err != nil {
		return nil, InternalError("failed to list rooms", err)
	}
	return rooms, nil
}

// SetRoomAvailability toggles whether new allocations may target the room.
// Existing occupants are unaffected; closing a room does not evict anyone.
func (s *RoomService) SetRoomAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	log := s.log.Function("SetRoomAvailability")

	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.rooms.SetAvailability(ctx, tx, id, available); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return InternalError("failed to update room availability", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("room availability changed", "roomID", id, "available", available)
	return nil
}
