package models

import (
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type Student struct {
	BaseUUIDModel
	RegistrationNo string  `gorm:"type:text;not null;uniqueIndex:idx_students_registration_no" json:"registrationNo"`
	FullName       string  `gorm:"type:text;not null"                                          json:"fullName"`
	Email          string  `gorm:"type:text;not null;uniqueIndex:idx_students_email"           json:"email"`
	Phone          *string `gorm:"type:text"                                                   json:"phone,omitempty"`
	Gender         Gender  `gorm:"type:text;not null"                                          json:"gender"`
	IsActive       bool    `gorm:"type:bool;not null;default:true"                             json:"isActive"`
}

func (s *Student) validate() error {
	if s.RegistrationNo == "" {
		return gorm.ErrInvalidValue
	}
	if s.FullName == "" {
		return gorm.ErrInvalidValue
	}
	if s.Email == "" {
		return gorm.ErrInvalidValue
	}
	if !s.Gender.Valid() {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (s *Student) BeforeCreate(tx *gorm.DB) (err error) {
	return s.validate()
}

func (s *Student) BeforeUpdate(tx *gorm.DB) (err error) {
	return s.validate()
}
