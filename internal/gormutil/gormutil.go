package gormutil

import (
	"cmp"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ParseSchema parses the schema of the model carried by db, falling back to its destination.
func ParseSchema(db *gorm.DB) (*gorm.Statement, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	model := cmp.Or(db.Statement.Model, db.Statement.Dest)
	if model == nil {
		return nil, errors.New("model is nil")
	}
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, errors.Wrap(err, "parse schema with db")
	}
	return stmt, nil
}

// LookUpField resolves a field by db name or struct name, then by its snake case form,
// so that both "birthDate" and "birth_date" resolve to the same column.
func LookUpField(s *schema.Schema, name string) (*schema.Field, bool) {
	if s == nil || name == "" {
		return nil, false
	}
	if f := s.LookUpField(name); f != nil {
		return f, true
	}
	if f := s.LookUpField(lo.SnakeCase(name)); f != nil {
		return f, true
	}
	return nil, false
}
