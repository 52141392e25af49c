package model

import "gorm.io/gorm"

type Message struct {
	gorm.Model
	SenderID    uint   `json:"sender_id" gorm:"index;not null"`
	RecipientID uint   `json:"recipient_id" gorm:"index;not null"`
	Subject     string `json:"subject"`
	Body        string `json:"body" gorm:"type:text"`
	ReadStatus  bool   `json:"read_status" gorm:"default:false"`

	Sender    User `json:"sender" gorm:"foreignKey:SenderID"`
	Recipient User `json:"-" gorm:"foreignKey:RecipientID"`
}
