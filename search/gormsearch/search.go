package gormsearch

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/vaudoise/backoffice/internal/gormutil"
	"github.com/vaudoise/backoffice/search"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

type options struct {
	fold bool
}

type Option func(*options)

// WithFold makes equality and pattern matching case insensitive.
func WithFold() Option {
	return func(o *options) {
		o.fold = true
	}
}

// never is the condition compiled for fields the model does not have.
var never = clause.Expr{SQL: "1 <> 1"}

func Scope(pred search.Predicate, opts ...Option) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db == nil {
			return nil
		}
		if pred == nil {
			return db
		}
		stmt, err := gormutil.ParseSchema(db)
		if err != nil {
			db.AddError(err)
			return db
		}
		expr, err := Compile(stmt, pred, opts...)
		if err != nil {
			db.AddError(err)
			return db
		}
		return db.Where(expr)
	}
}

// Compile translates pred into a clause expression over the schema parsed into stmt.
// Junctions stay binary so the left fold of the predicate is kept in the SQL.
func Compile(stmt *gorm.Statement, pred search.Predicate, opts ...Option) (clause.Expression, error) {
	if stmt == nil || stmt.Schema == nil {
		return nil, errors.New("statement schema is not parsed")
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return compile(stmt, pred, o)
}

func compile(stmt *gorm.Statement, pred search.Predicate, o *options) (clause.Expression, error) {
	switch p := pred.(type) {
	case search.Condition:
		return compileCriterion(stmt, p.Criterion, o)
	case search.Junction:
		left, err := compile(stmt, p.Left, o)
		if err != nil {
			return nil, err
		}
		right, err := compile(stmt, p.Right, o)
		if err != nil {
			return nil, err
		}
		if p.Combinator == search.Or {
			return clause.Or(left, right), nil
		}
		return clause.And(left, right), nil
	case nil:
		return nil, errors.New("nil predicate in junction")
	default:
		return nil, errors.Errorf("unknown predicate type %T", pred)
	}
}

func compileCriterion(stmt *gorm.Statement, c search.Criterion, o *options) (clause.Expression, error) {
	field, ok := gormutil.LookUpField(stmt.Schema, c.Field)
	if !ok || field.DBName == "" {
		return never, nil
	}

	quoted := stmt.Quote(clause.Column{Table: stmt.Table, Name: field.DBName})
	textual := field.DataType == schema.String || field.IndirectFieldType.Kind() == reflect.String
	asText := quoted
	if !textual {
		asText = fmt.Sprintf("CAST(%s AS TEXT)", quoted)
	}

	switch c.Operation {
	case search.Equality, search.Negation:
		var column any = clause.Column{Table: stmt.Table, Name: field.DBName}
		value := c.Value
		if o.fold && textual {
			column = clause.Expr{SQL: fmt.Sprintf("LOWER(%s)", quoted)}
			value = foldValue(value)
		}
		if c.Operation == search.Equality {
			return clause.Eq{Column: column, Value: value}, nil
		}
		return clause.Neq{Column: column, Value: value}, nil

	case search.GreaterThan:
		return clause.Gt{Column: clause.Expr{SQL: asText}, Value: cast.ToString(c.Value)}, nil

	case search.LessThan:
		return clause.Lt{Column: clause.Expr{SQL: asText}, Value: cast.ToString(c.Value)}, nil

	case search.Like, search.StartsWith, search.EndsWith, search.Contains:
		str := cast.ToString(c.Value)
		column := asText
		if o.fold {
			column = fmt.Sprintf("LOWER(%s)", asText)
			str = strings.ToLower(str)
		}
		pattern := str
		switch c.Operation {
		case search.StartsWith:
			pattern = str + "%"
		case search.EndsWith:
			pattern = "%" + str
		case search.Contains:
			pattern = "%" + str + "%"
		}
		return clause.Like{Column: clause.Expr{SQL: column}, Value: pattern}, nil

	default:
		return nil, errors.Errorf("unknown operation %s for field %q", c.Operation, c.Field)
	}
}

func foldValue(value any) any {
	if str, ok := value.(string); ok {
		return strings.ToLower(str)
	}
	return value
}
