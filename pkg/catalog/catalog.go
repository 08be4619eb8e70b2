package catalog

import (
	"costdb/pkg/catalog/schema"
	"costdb/pkg/dberror"
	"costdb/pkg/primitives"
	"costdb/pkg/storage"
	"costdb/pkg/tuple"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// TableInfo holds everything the catalog knows about one table.
type TableInfo struct {
	File   storage.DbFile
	Schema *schema.Schema
}

// Catalog maps table names and IDs to their schema and backing file.
// It is safe for concurrent use.
type Catalog struct {
	nameToTable map[string]*TableInfo
	idToTable   map[primitives.TableID]*TableInfo
	mutex       sync.RWMutex
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		nameToTable: make(map[string]*TableInfo),
		idToTable:   make(map[primitives.TableID]*TableInfo),
	}
}

// AddTable registers a table. If a table with the same name or ID already
// exists it is replaced.
func (c *Catalog) AddTable(f storage.DbFile, s *schema.Schema) error {
	if f == nil {
		return fmt.Errorf("file cannot be nil")
	}
	if s == nil {
		return fmt.Errorf("schema cannot be nil")
	}
	if s.TableName == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if f.ID() != s.TableID {
		return fmt.Errorf("file id %v does not match schema id %v for table %q", f.ID(), s.TableID, s.TableName)
	}
	if !f.TupleDesc().Equals(s.TupleDesc) {
		return fmt.Errorf("file schema %s does not match declared schema %s", f.TupleDesc(), s.TupleDesc)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if old, ok := c.nameToTable[s.TableName]; ok {
		delete(c.idToTable, old.Schema.TableID)
	}
	if old, ok := c.idToTable[s.TableID]; ok {
		delete(c.nameToTable, old.Schema.TableName)
	}

	info := &TableInfo{File: f, Schema: s}
	c.nameToTable[s.TableName] = info
	c.idToTable[s.TableID] = info
	return nil
}

// GetTableID returns the ID of the named table.
func (c *Catalog) GetTableID(tableName string) (primitives.TableID, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	info, ok := c.nameToTable[tableName]
	if !ok {
		return primitives.InvalidTableID, dberror.TableNotFound(tableName)
	}
	return info.Schema.TableID, nil
}

// GetTableInfo returns the entry for a table ID.
func (c *Catalog) GetTableInfo(tableID primitives.TableID) (*TableInfo, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	info, ok := c.idToTable[tableID]
	if !ok {
		return nil, dberror.TableNotFound(tableID.String())
	}
	return info, nil
}

func (c *Catalog) GetTableName(tableID primitives.TableID) (string, error) {
	info, err := c.GetTableInfo(tableID)
	if err != nil {
		return "", err
	}
	return info.Schema.TableName, nil
}

func (c *Catalog) GetTupleDesc(tableID primitives.TableID) (*tuple.TupleDescription, error) {
	info, err := c.GetTableInfo(tableID)
	if err != nil {
		return nil, err
	}
	return info.Schema.TupleDesc, nil
}

func (c *Catalog) GetDbFile(tableID primitives.TableID) (storage.DbFile, error) {
	info, err := c.GetTableInfo(tableID)
	if err != nil {
		return nil, err
	}
	return info.File, nil
}

// GetPrimaryKey returns the primary key column name of a table, or "" when
// the table has none.
func (c *Catalog) GetPrimaryKey(tableID primitives.TableID) (string, error) {
	info, err := c.GetTableInfo(tableID)
	if err != nil {
		return "", err
	}
	return info.Schema.PrimaryKey, nil
}

// TableNames returns all table names in ascending order.
func (c *Catalog) TableNames() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return slices.Sorted(maps.Keys(c.nameToTable))
}
