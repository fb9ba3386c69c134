package ml

import (
	"errors"
	"fmt"
)

// Schema is the ordered column list a classifier was fitted on.
type Schema struct {
	Name    string
	Columns []Field
}

func Schema24h() Schema {
	return Schema{
		Name: "pain_24h",
		Columns: []Field{
			FieldOcclusalReduction,
			FieldPhotobiomodulation,
			FieldNSAIDUse,
			FieldSex,
			FieldAge,
		},
	}
}

// Schema72h has no NSAID column; the 72h model was fitted without it.
func Schema72h() Schema {
	return Schema{
		Name: "pain_72h",
		Columns: []Field{
			FieldOcclusalReduction,
			FieldPhotobiomodulation,
			FieldSex,
			FieldAge,
		},
	}
}

func (s Schema) Len() int {
	return len(s.Columns)
}

func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, field := range s.Columns {
		names[i] = field.ColumnName()
	}
	return names
}

// FeatureVector is a positional model input. Columns[i] names Values[i].
type FeatureVector struct {
	Columns []Field
	Values  []float64
}

func (v FeatureVector) Len() int {
	return len(v.Values)
}

// BuildFor assembles the observation into the column order of schema.
func BuildFor(schema Schema, obs ClinicalObservation) (FeatureVector, error) {
	if len(schema.Columns) == 0 {
		return FeatureVector{}, errors.New("schema has no columns")
	}
	seen := make(map[Field]struct{}, len(schema.Columns))
	vector := FeatureVector{
		Columns: make([]Field, 0, len(schema.Columns)),
		Values:  make([]float64, 0, len(schema.Columns)),
	}
	for _, field := range schema.Columns {
		if _, dup := seen[field]; dup {
			return FeatureVector{}, fmt.Errorf("schema %s lists column %s twice", schema.Name, field)
		}
		seen[field] = struct{}{}
		value, err := obs.value(field)
		if err != nil {
			return FeatureVector{}, err
		}
		vector.Columns = append(vector.Columns, field)
		vector.Values = append(vector.Values, value)
	}
	return vector, nil
}
