package schema

import (
	"costdb/pkg/primitives"
	"costdb/pkg/tuple"
	"costdb/pkg/types"
	"fmt"
)

// ColumnMetadata describes a single column of a table schema.
type ColumnMetadata struct {
	Name      string     // Column name
	FieldType types.Type // Column data type
	Position  int        // Column position in tuple (0-indexed)
	IsPrimary bool       // Whether this is the primary key column
}

// Schema represents a complete table schema with metadata and helper methods.
type Schema struct {
	TupleDesc *tuple.TupleDescription
	TableID   primitives.TableID
	TableName string

	// Primary key metadata
	PrimaryKey      string
	PrimaryKeyIndex int

	Columns []ColumnMetadata

	fieldNameToIndex map[string]int
}

// NewSchema creates a new Schema from column metadata. At most one column may
// be marked primary.
func NewSchema(tableID primitives.TableID, tableName string, columns []ColumnMetadata) (*Schema, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("schema must have at least one column")
	}

	fieldTypes := make([]types.Type, len(columns))
	fieldNames := make([]string, len(columns))
	fieldNameToIndex := make(map[string]int, len(columns))
	cols := make([]ColumnMetadata, len(columns))

	primaryKey := ""
	primaryKeyIndex := -1

	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d of table %q has no name", i, tableName)
		}
		if _, dup := fieldNameToIndex[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q in table %q", col.Name, tableName)
		}

		col.Position = i
		cols[i] = col
		fieldTypes[i] = col.FieldType
		fieldNames[i] = col.Name
		fieldNameToIndex[col.Name] = i

		if col.IsPrimary {
			if primaryKeyIndex >= 0 {
				return nil, fmt.Errorf("table %q declares more than one primary key", tableName)
			}
			primaryKey = col.Name
			primaryKeyIndex = i
		}
	}

	tupleDesc, err := tuple.NewTupleDesc(fieldTypes, fieldNames)
	if err != nil {
		return nil, fmt.Errorf("failed to create tuple description: %w", err)
	}

	return &Schema{
		TupleDesc:        tupleDesc,
		TableID:          tableID,
		TableName:        tableName,
		PrimaryKey:       primaryKey,
		PrimaryKeyIndex:  primaryKeyIndex,
		Columns:          cols,
		fieldNameToIndex: fieldNameToIndex,
	}, nil
}

// GetFieldIndex returns the field index for a given field name.
// Returns -1 if the field doesn't exist.
func (s *Schema) GetFieldIndex(fieldName string) int {
	if idx, ok := s.fieldNameToIndex[fieldName]; ok {
		return idx
	}
	return -1
}

// HasColumn returns true if the schema contains a column with the given name.
func (s *Schema) HasColumn(fieldName string) bool {
	_, ok := s.fieldNameToIndex[fieldName]
	return ok
}

// IsPrimaryKey reports whether fieldName is the table's primary key column.
func (s *Schema) IsPrimaryKey(fieldName string) bool {
	return s.PrimaryKey != "" && s.PrimaryKey == fieldName
}

func (s *Schema) NumFields() int {
	return len(s.Columns)
}

// FieldNames returns a slice of all field names in order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}
