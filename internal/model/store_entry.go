package model

import "time"

// StoreEntry is one key-value row of the SQL-backed session store.
type StoreEntry struct {
	Key       string    `json:"key" gorm:"column:entry_key;primaryKey;size:191"`
	Value     string    `json:"value" gorm:"type:longtext;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name used by the store.
func (StoreEntry) TableName() string {
	return "store_entries"
}
