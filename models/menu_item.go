package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type MenuItem struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Name            string  `gorm:"type:varchar(255);not null" json:"name"`
	Description     string  `gorm:"type:text" json:"description"`
	Price           float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Category        string  `gorm:"type:varchar(100);not null;index" json:"category"`
	Image           string  `gorm:"type:varchar(255)" json:"image"`
	// No column defaults here: gorm skips zero-valued fields that carry a
	// default tag, which would turn an explicit available=false into true.
	Available       bool `gorm:"not null" json:"available"`
	PreparationTime int  `gorm:"not null" json:"preparationTime"`

	// Tags is the serialized column; TagList is the wire representation.
	Tags    string   `gorm:"type:text" json:"-"`
	TagList []string `gorm:"-" json:"tags"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (m *MenuItem) BeforeSave(tx *gorm.DB) error {
	if m.TagList == nil {
		m.TagList = []string{}
	}
	raw, err := json.Marshal(m.TagList)
	if err != nil {
		return err
	}
	m.Tags = string(raw)
	return nil
}

func (m *MenuItem) AfterFind(tx *gorm.DB) error {
	m.TagList = []string{}
	if m.Tags == "" {
		return nil
	}
	return json.Unmarshal([]byte(m.Tags), &m.TagList)
}
