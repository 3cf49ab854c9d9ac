// Package model defines domain entities for the application.
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxRecordNameLength is the column width of records.name.
const MaxRecordNameLength = 256

// Record validation errors.
var (
	ErrNameRequired = errors.New("record name is required")
	ErrNameTooLong  = errors.New("record name exceeds maximum length")
)

// Record is one manageable item on the admin records screen.
type Record struct {
	ID          string    `json:"id"`
	Active      bool      `json:"active"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRecord returns a record with the column defaults applied.
func NewRecord(name string) *Record {
	return &Record{
		Active: true,
		Name:   name,
	}
}

// Normalize trims the name in place.
func (r *Record) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// Validate checks the record against the column constraints that can be
// verified without the database. Uniqueness is left to the database.
func (r *Record) Validate() error {
	if r.Name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(r.Name) > MaxRecordNameLength {
		return ErrNameTooLong
	}
	return nil
}

// DescriptionText returns the description or an empty string.
func (r *Record) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}
