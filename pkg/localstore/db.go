package localstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blob is the single-table row shape for the database-backed store.
type Blob struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value;not null"`
}

// TableName pins the storage table.
func (Blob) TableName() string { return "storage_blobs" }

// DB persists blobs in a relational table through GORM.
type DB struct {
	conn *gorm.DB
}

// NewDB migrates the blob table and returns the store.
func NewDB(conn *gorm.DB) (*DB, error) {
	if conn == nil {
		return nil, errors.New("db connection required")
	}
	if err := conn.AutoMigrate(&Blob{}); err != nil {
		return nil, err
	}
	return &DB{conn: conn}, nil
}

func (d *DB) Get(ctx context.Context, key string) (string, error) {
	var blob Blob
	err := d.conn.WithContext(ctx).First(&blob, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return blob.Value, nil
}

func (d *DB) Set(ctx context.Context, key, value string) error {
	blob := Blob{Key: key, Value: value}
	return d.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&blob).Error
}

func (d *DB) Delete(ctx context.Context, key string) error {
	return d.conn.WithContext(ctx).Delete(&Blob{}, "key = ?", key).Error
}
