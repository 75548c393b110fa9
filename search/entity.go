package search

import (
	"reflect"
	"slices"
	"sync"

	"github.com/samber/lo"
)

type Kind int

const (
	KindString Kind = iota
	KindUUID
	KindInt
	KindDecimal
	KindBool
	KindDate
	KindTime
	KindEnum
)

// Textual reports whether the fuzzy search may match the field.
func (k Kind) Textual() bool {
	return k == KindString || k == KindUUID
}

type Field struct {
	Name string
	Kind Kind
}

func String(name string) Field  { return Field{Name: name, Kind: KindString} }
func UUID(name string) Field    { return Field{Name: name, Kind: KindUUID} }
func Int(name string) Field     { return Field{Name: name, Kind: KindInt} }
func Decimal(name string) Field { return Field{Name: name, Kind: KindDecimal} }
func Bool(name string) Field    { return Field{Name: name, Kind: KindBool} }
func Date(name string) Field    { return Field{Name: name, Kind: KindDate} }
func Time(name string) Field    { return Field{Name: name, Kind: KindTime} }
func Enum(name string) Field    { return Field{Name: name, Kind: KindEnum} }

// AuditFields are never part of the fuzzy search.
var AuditFields = []string{"createdAt", "modifiedAt", "createdBy", "modifiedBy"}

func isAuditField(name string) bool {
	return lo.Contains(AuditFields, name)
}

// Entity describes the searchable fields of a persisted type, inherited ones included.
type Entity struct {
	name   string
	fields []Field
}

func NewEntity(name string, fields ...Field) *Entity {
	return &Entity{name: name, fields: slices.Clone(fields)}
}

// Extend describes a subtype: its own fields come first, followed by the fields of e.
func (e *Entity) Extend(name string, fields ...Field) *Entity {
	return &Entity{name: name, fields: slices.Concat(fields, e.fields)}
}

func (e *Entity) Name() string {
	return e.name
}

func (e *Entity) Fields() []Field {
	return slices.Clone(e.fields)
}

func (e *Entity) Field(name string) (Field, bool) {
	return lo.Find(e.fields, func(f Field) bool {
		return f.Name == name
	})
}

// SearchableFields returns the string and UUID fields, audit fields excluded, in declaration order.
func (e *Entity) SearchableFields() []string {
	if e == nil {
		return nil
	}
	return lo.FilterMap(e.fields, func(f Field, _ int) (string, bool) {
		return f.Name, f.Kind.Textual() && !isAuditField(f.Name)
	})
}

var registry = struct {
	sync.RWMutex
	entities map[reflect.Type]*Entity
}{entities: map[reflect.Type]*Entity{}}

func indirectType(rt reflect.Type) reflect.Type {
	for rt != nil && (rt.Kind() == reflect.Ptr || rt.Kind() == reflect.Slice) {
		rt = rt.Elem()
	}
	return rt
}

// Register associates the descriptor e with the model type T.
func Register[T any](e *Entity) {
	rt := indirectType(reflect.TypeOf((*T)(nil)).Elem())
	registry.Lock()
	defer registry.Unlock()
	registry.entities[rt] = e
}

// EntityFor returns the descriptor registered for T, a pointer to T or a slice of
// either. It returns nil when nothing is registered.
func EntityFor[T any]() *Entity {
	return lookupEntity(reflect.TypeOf((*T)(nil)).Elem())
}

func lookupEntity(rt reflect.Type) *Entity {
	rt = indirectType(rt)
	registry.RLock()
	defer registry.RUnlock()
	return registry.entities[rt]
}
