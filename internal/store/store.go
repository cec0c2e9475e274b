// Package store is the relational repository for users, projects, tasks and
// memberships. It owns referential integrity: cascades and membership
// reconciliation always run inside a single transaction.
package store

import "gorm.io/gorm"

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}
