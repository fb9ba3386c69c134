package ml

import (
	"fmt"
)

// Field identifies one attribute of a clinical observation.
type Field string

const (
	FieldAge                Field = "age"
	FieldSex                Field = "sex"
	FieldOcclusalReduction  Field = "occlusal_reduction"
	FieldPhotobiomodulation Field = "photobiomodulation"
	FieldNSAIDUse           Field = "nsaid_use"
)

// columnNames are the column labels the artifacts were fitted with.
var columnNames = map[Field]string{
	FieldAge:                "Idade",
	FieldSex:                "Sexo",
	FieldOcclusalReduction:  "Redução oclusal",
	FieldPhotobiomodulation: "Fotobiomodulação",
	FieldNSAIDUse:           "AINES",
}

func (f Field) ColumnName() string {
	return columnNames[f]
}

func (f Field) Categorical() bool {
	switch f {
	case FieldSex, FieldOcclusalReduction, FieldPhotobiomodulation, FieldNSAIDUse:
		return true
	}
	return false
}

type Answer uint8

const (
	answerUnset Answer = iota
	AnswerNo
	AnswerYes
)

var answerLabels = map[string]Answer{
	"No":  AnswerNo,
	"Yes": AnswerYes,
	"Não": AnswerNo,
	"Sim": AnswerYes,
}

func (a Answer) Code() (float64, bool) {
	switch a {
	case AnswerNo:
		return 0, true
	case AnswerYes:
		return 1, true
	}
	return 0, false
}

func (a Answer) String() string {
	switch a {
	case AnswerNo:
		return "No"
	case AnswerYes:
		return "Yes"
	}
	return ""
}

type Sex uint8

const (
	sexUnset Sex = iota
	SexFemale
	SexMale
)

var sexLabels = map[string]Sex{
	"Female":    SexFemale,
	"Male":      SexMale,
	"Feminino":  SexFemale,
	"Masculino": SexMale,
}

func (s Sex) Code() (float64, bool) {
	switch s {
	case SexFemale:
		return 0, true
	case SexMale:
		return 1, true
	}
	return 0, false
}

func (s Sex) String() string {
	switch s {
	case SexFemale:
		return "Female"
	case SexMale:
		return "Male"
	}
	return ""
}

// InvalidValueError reports an input field holding a value outside its
// declared domain.
type InvalidValueError struct {
	Field  Field
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid value %q for field %s: %s", e.Value, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid value %q for field %s", e.Value, e.Field)
}

func ParseAnswer(field Field, raw string) (Answer, error) {
	switch field {
	case FieldOcclusalReduction, FieldPhotobiomodulation, FieldNSAIDUse:
	default:
		return answerUnset, &InvalidValueError{Field: field, Value: raw, Reason: "not a yes/no field"}
	}
	answer, ok := answerLabels[raw]
	if !ok {
		return answerUnset, &InvalidValueError{Field: field, Value: raw}
	}
	return answer, nil
}

func ParseSex(raw string) (Sex, error) {
	sex, ok := sexLabels[raw]
	if !ok {
		return sexUnset, &InvalidValueError{Field: FieldSex, Value: raw}
	}
	return sex, nil
}

// Encode maps a human-readable categorical answer to the numeric code the
// models were trained on.
func Encode(field Field, raw string) (float64, error) {
	switch field {
	case FieldSex:
		sex, err := ParseSex(raw)
		if err != nil {
			return 0, err
		}
		code, _ := sex.Code()
		return code, nil
	case FieldOcclusalReduction, FieldPhotobiomodulation, FieldNSAIDUse:
		answer, err := ParseAnswer(field, raw)
		if err != nil {
			return 0, err
		}
		code, _ := answer.Code()
		return code, nil
	case FieldAge:
		return 0, &InvalidValueError{Field: field, Value: raw, Reason: "numeric field is not encoded"}
	default:
		return 0, &InvalidValueError{Field: field, Value: raw, Reason: "unknown field"}
	}
}
