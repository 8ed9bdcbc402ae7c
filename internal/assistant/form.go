package assistant

import (
	"context"
	"fmt"
	"sort"
)

// Form element types understood by the configuration frontend.
const (
	ElementExpansionPanel = "ExpansionPanel"
	ElementList           = "List"
)

// Base column names.
const (
	ColumnStatus = "Status"
)

// formRowCount is the number of visible rows per device list.
const formRowCount = 5

// FormSection is one collapsible section of the configuration form.
type FormSection struct {
	Type    string     `json:"type"`
	Caption string     `json:"caption"`
	Items   []FormList `json:"items"`
}

// FormList is the editable list of one device type's records.
type FormList struct {
	Type     string           `json:"type"`
	Name     string           `json:"name"`
	RowCount int              `json:"rowCount"`
	Add      bool             `json:"add"`
	Delete   bool             `json:"delete"`
	Sort     FormSort         `json:"sort"`
	Columns  []Column         `json:"columns"`
	Values   []map[string]any `json:"values"`
}

// FormSort is the initial sort order of a list.
type FormSort struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

// baseColumns returns the identifier, name and status columns.
func baseColumns() []Column {
	return []Column{
		{Label: KeyID, Name: KeyID, Width: "35px", Add: "", Save: true},
		{Label: KeyName, Name: KeyName, Width: "auto", Add: "", Edit: map[string]any{"type": "ValidationTextBox"}},
		{Label: ColumnStatus, Name: ColumnStatus, Width: "200px", Add: "-"},
	}
}

// columnsFor splices a handler's columns between Name and Status.
func columnsFor(dt DeviceType) []Column {
	base := baseColumns()
	extra := dt.Columns()
	out := make([]Column, 0, len(base)+len(extra))
	out = append(out, base[:2]...)
	out = append(out, extra...)
	out = append(out, base[2:]...)
	return out
}

// sortByPosition orders handlers by ascending position. Equal positions keep
// registration order.
func sortByPosition(types []DeviceType) []DeviceType {
	out := make([]DeviceType, len(types))
	copy(out, types)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position() < out[j].Position()
	})
	return out
}

// BuildForm returns one section per device type ordered by position.
//
// The form is built even when identifiers collide so the installer can
// correct the configuration through it.
func (r *Registry) BuildForm(ctx context.Context) ([]FormSection, error) {
	types := sortByPosition(r.snapshot())

	cat, err := loadCatalogue(ctx, r.store, r.owner, names(types))
	if err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}

	sections := make([]FormSection, 0, len(types))
	for i, dt := range types {
		values := make([]map[string]any, 0, len(cat[i].records))
		for _, rec := range cat[i].records {
			values = append(values, map[string]any{ColumnStatus: dt.Status(ctx, rec)})
		}

		sections = append(sections, FormSection{
			Type:    ElementExpansionPanel,
			Caption: dt.Caption(),
			Items: []FormList{{
				Type:     ElementList,
				Name:     PropertyKey(dt.Name()),
				RowCount: formRowCount,
				Add:      true,
				Delete:   true,
				Sort:     FormSort{Column: KeyName, Direction: "ascending"},
				Columns:  columnsFor(dt),
				Values:   values,
			}},
		})
	}
	return sections, nil
}
