package schema

import (
	"costdb/pkg/primitives"
	"costdb/pkg/types"
)

// SchemaBuilder helps construct schemas with less boilerplate.
type SchemaBuilder struct {
	tableName string
	columns   []ColumnMetadata
}

// NewSchemaBuilder creates a new schema builder for tableName.
func NewSchemaBuilder(tableName string) *SchemaBuilder {
	return &SchemaBuilder{tableName: tableName}
}

// AddColumn adds a regular column
func (sb *SchemaBuilder) AddColumn(name string, fieldType types.Type) *SchemaBuilder {
	sb.columns = append(sb.columns, ColumnMetadata{Name: name, FieldType: fieldType})
	return sb
}

// AddPrimaryKey adds a primary key column
func (sb *SchemaBuilder) AddPrimaryKey(name string, fieldType types.Type) *SchemaBuilder {
	sb.columns = append(sb.columns, ColumnMetadata{Name: name, FieldType: fieldType, IsPrimary: true})
	return sb
}

// Build creates the schema. The table ID is derived from the table name.
func (sb *SchemaBuilder) Build() (*Schema, error) {
	return NewSchema(primitives.TableIDFromName(sb.tableName), sb.tableName, sb.columns)
}
