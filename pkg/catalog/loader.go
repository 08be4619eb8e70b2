package catalog

import (
	"costdb/pkg/catalog/schema"
	"costdb/pkg/logging"
	"costdb/pkg/storage/memory"
	"costdb/pkg/types"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Manifest is the on-disk description of a catalog:
//
//	[[table]]
//	name = "orders"
//	file = "orders.csv"
//	header = true
//	tuples-per-page = 64
//
//	  [[table.column]]
//	  name = "id"
//	  type = "int"
//	  primary-key = true
type Manifest struct {
	Tables []TableManifest `toml:"table"`
}

type TableManifest struct {
	Name          string           `toml:"name"`
	File          string           `toml:"file"`
	Header        bool             `toml:"header"`
	TuplesPerPage int              `toml:"tuples-per-page"`
	Columns       []ColumnManifest `toml:"column"`
}

type ColumnManifest struct {
	Name       string `toml:"name"`
	Type       string `toml:"type"`
	PrimaryKey bool   `toml:"primary-key"`
}

// LoadManifest reads a TOML manifest from fs and builds a catalog whose
// tables are backed by in-memory files filled from the referenced CSV files.
// Data file paths are resolved relative to the manifest's directory.
func LoadManifest(fs afero.Fs, path string) (*Catalog, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open catalog manifest %s", path)
	}
	defer f.Close()

	var m Manifest
	meta, err := toml.NewDecoder(f).Decode(&m)
	if err != nil {
		return nil, errors.Wrapf(err, "decode catalog manifest %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown keys in catalog manifest %s: %v", path, undecoded)
	}

	cat := NewCatalog()
	baseDir := filepath.Dir(path)
	for _, tm := range m.Tables {
		if err := loadTable(fs, baseDir, cat, tm); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func loadTable(fs afero.Fs, baseDir string, cat *Catalog, tm TableManifest) error {
	builder := schema.NewSchemaBuilder(tm.Name)
	for _, col := range tm.Columns {
		t, err := types.ParseType(col.Type)
		if err != nil {
			return errors.Wrapf(err, "table %s column %s", tm.Name, col.Name)
		}
		if col.PrimaryKey {
			builder.AddPrimaryKey(col.Name, t)
		} else {
			builder.AddColumn(col.Name, t)
		}
	}
	s, err := builder.Build()
	if err != nil {
		return errors.Wrapf(err, "table %s", tm.Name)
	}

	file := memory.NewFile(s.TableID, s.TupleDesc, tm.TuplesPerPage)
	if tm.File != "" {
		dataPath := tm.File
		if !filepath.IsAbs(dataPath) {
			dataPath = filepath.Join(baseDir, dataPath)
		}
		data, err := fs.Open(dataPath)
		if err != nil {
			return errors.Wrapf(err, "open data file for table %s", tm.Name)
		}
		n, err := memory.LoadCSV(data, file, tm.Header)
		data.Close()
		if err != nil {
			return errors.Wrapf(err, "load table %s from %s", tm.Name, dataPath)
		}
		logging.WithTable(tm.Name).Debug("table loaded",
			zap.Int("tuples", n), zap.Int("pages", file.NumPages()))
	}

	return cat.AddTable(file, s)
}
