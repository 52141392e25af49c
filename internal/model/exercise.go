package model

import "gorm.io/gorm"

type Exercise struct {
	gorm.Model
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`
	VideoURL    string `json:"video_url"`
}
