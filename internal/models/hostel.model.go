package models

import (
	"gorm.io/gorm"
)

type GenderPolicy string

const (
	GenderPolicyMale   GenderPolicy = "male"
	GenderPolicyFemale GenderPolicy = "female"
	GenderPolicyAny    GenderPolicy = "other"
)

func (g GenderPolicy) Valid() bool {
	switch g {
	case GenderPolicyMale, GenderPolicyFemale, GenderPolicyAny:
		return true
	}
	return false
}

// Admits reports whether a student of the given gender may live in a hostel
// with this policy. A policy of "other" admits everyone; a strict policy
// admits only an exact match, so students with gender "other" are rejected
// by single-gender hostels.
func (g GenderPolicy) Admits(gender Gender) bool {
	if g == GenderPolicyAny {
		return true
	}
	return string(g) == string(gender)
}

type Hostel struct {
	BaseUUIDModel
	Name          string       `gorm:"type:text;not null;uniqueIndex:idx_hostels_name" json:"name"`
	GenderAllowed GenderPolicy `gorm:"type:text;not null;default:'other'"              json:"genderAllowed"`
	TotalRooms    int          `gorm:"type:integer;not null;default:0"                 json:"totalRooms"`
	WardenName    *string      `gorm:"type:text"                                       json:"wardenName,omitempty"`
	Address       *string      `gorm:"type:text"                                       json:"address,omitempty"`

	// Relationships
	Rooms []Room `gorm:"foreignKey:HostelID" json:"rooms,omitempty"`
}

func (h *Hostel) BeforeCreate(tx *gorm.DB) (err error) {
	if h.Name == "" {
		return gorm.ErrInvalidValue
	}
	if h.GenderAllowed == "" {
		h.GenderAllowed = GenderPolicyAny
	}
	if !h.GenderAllowed.Valid() {
		return gorm.ErrInvalidValue
	}
	if h.TotalRooms < 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}
