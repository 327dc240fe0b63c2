package hod

import (
	"bytes"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	json "github.com/goccy/go-json"
)

// ColumnDef is a declarative column definition used with AddColumns.
type ColumnDef struct {
	Ordinal   int    `json:"ordinal" mapstructure:"ordinal"`
	Name      string `json:"name" mapstructure:"name"`
	Type      string `json:"type" mapstructure:"type"`
	Precision int    `json:"precision" mapstructure:"precision"`
	Scale     int    `json:"scale" mapstructure:"scale"`
	Format    string `json:"format" mapstructure:"format"`
}

// AddColumns registers a set of column definitions in one call. Input can
// be a json byte slice or string holding an array of definitions, a
// []ColumnDef, or any other Go value which can be decoded by
// [MapStructure/v2]. Registration stops at the first failing definition.
//
// [MapStructure/v2]: github.com/go-viper/mapstructure/v2
func (h *Hod) AddColumns(a any) error {
	defs, err := InputDefs(a)
	if err != nil {
		return err
	}
	for _, d := range defs {
		typ, err := TypeFromName(d.Type)
		if err != nil {
			return fmt.Errorf("ordinal %d : %w", d.Ordinal, err)
		}
		if err := h.addColumn(d.Ordinal, d.Name, typ, d.Precision, d.Scale, d.Format); err != nil {
			return err
		}
	}
	return nil
}

// InputDefs takes structured column definitions and attempts to decode
// them to []ColumnDef.
func InputDefs(a any) ([]ColumnDef, error) {
	var defs []ColumnDef
	switch input := a.(type) {
	case nil:
		return nil, ErrUndefinedInput
	case []ColumnDef:
		return input, nil
	case []byte:
		d := json.NewDecoder(bytes.NewReader(input))
		if err := d.Decode(&defs); err != nil {
			return nil, fmt.Errorf("%v : %v", ErrInvalidInput, err)
		}
	case string:
		d := json.NewDecoder(bytes.NewReader([]byte(input)))
		if err := d.Decode(&defs); err != nil {
			return nil, fmt.Errorf("%v : %v", ErrInvalidInput, err)
		}
	default:
		if err := mapstructure.Decode(a, &defs); err != nil {
			return nil, fmt.Errorf("%v : %v", ErrInvalidInput, err)
		}
	}
	return defs, nil
}
