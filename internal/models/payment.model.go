package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}

type FeePayment struct {
	BaseUUIDModel
	StudentID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_fee_payments_student" json:"studentId"`
	AllocationID *uuid.UUID      `gorm:"type:uuid;index:idx_fee_payments_allocation"       json:"allocationId,omitempty"`
	Amount       decimal.Decimal `gorm:"type:decimal(10,2);not null"                       json:"amount"`
	Method       PaymentMethod   `gorm:"type:text;not null;default:'cash'"                 json:"method"`
	PaidOn       datatypes.Date  `gorm:"type:date;not null"                                json:"paidOn"`
	Reference    *string         `gorm:"type:text"                                         json:"reference,omitempty"`

	// Relationships
	Student    *Student    `gorm:"foreignKey:StudentID"    json:"student,omitempty"`
	Allocation *Allocation `gorm:"foreignKey:AllocationID" json:"allocation,omitempty"`
}

func (fp *FeePayment) BeforeCreate(tx *gorm.DB) (err error) {
	if fp.StudentID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if !fp.Amount.IsPositive() {
		return gorm.ErrInvalidValue
	}
	if fp.Method == "" {
		fp.Method = PaymentMethodCash
	}
	if !fp.Method.Valid() {
		return gorm.ErrInvalidValue
	}
	return nil
}
