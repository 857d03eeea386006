package credentials

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL dialect
	_ "github.com/jinzhu/gorm/dialects/sqlite"   // SQLite dialect
	_ "github.com/lib/pq"                        // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"              // SQLite driver
)

// Entry is one persisted credential
type Entry struct {
	Name  string `gorm:"primary_key;size:64"`
	Value string `gorm:"type:text"`
}

// TableName keeps the table name stable across gorm pluralisation rules
func (Entry) TableName() string {
	return "credential_entries"
}

// SQLStorage persists items through gorm
type SQLStorage struct {
	db *gorm.DB
}

// OpenSQL opens driver ("sqlite3" or "postgres") at dsn and migrates the table
func OpenSQL(driver, dsn string) (*SQLStorage, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s credential storage: %w", driver, err)
	}
	storage, err := NewSQLStorage(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return storage, nil
}

// NewSQLStorage uses an already opened database
func NewSQLStorage(db *gorm.DB) (*SQLStorage, error) {
	if err := db.AutoMigrate(&Entry{}).Error; err != nil {
		return nil, fmt.Errorf("migrate credential storage: %w", err)
	}
	return &SQLStorage{db: db}, nil
}

// GetItem reads the entry for key, returning ErrNotFound when there is none
func (s *SQLStorage) GetItem(key string) (string, error) {
	var entry Entry
	err := s.db.Where("name = ?", key).First(&entry).Error
	if gorm.IsRecordNotFoundError(err) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// SetItem upserts the entry for key
func (s *SQLStorage) SetItem(key, value string) error {
	return s.db.Save(&Entry{Name: key, Value: value}).Error
}

// RemoveItem deletes the entry for key if it exists
func (s *SQLStorage) RemoveItem(key string) error {
	return s.db.Where("name = ?", key).Delete(&Entry{}).Error
}

// Close closes the underlying database
func (s *SQLStorage) Close() error {
	return s.db.Close()
}
