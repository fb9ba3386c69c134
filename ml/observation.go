package ml

import (
	"strconv"
)

const (
	MinAge = 18
	MaxAge = 100
)

// ClinicalObservation is the validated input of one prediction request.
type ClinicalObservation struct {
	Age                int
	Sex                Sex
	OcclusalReduction  Answer
	Photobiomodulation Answer
	NSAIDUse           Answer
}

// ObservationInput carries the raw form answers.
type ObservationInput struct {
	Age                int    `json:"age"`
	Sex                string `json:"sex"`
	OcclusalReduction  string `json:"occlusal_reduction"`
	Photobiomodulation string `json:"photobiomodulation"`
	NSAIDUse           string `json:"nsaid_use"`
}

func NewObservation(in ObservationInput) (ClinicalObservation, error) {
	if in.Age < MinAge || in.Age > MaxAge {
		return ClinicalObservation{}, &InvalidValueError{
			Field:  FieldAge,
			Value:  strconv.Itoa(in.Age),
			Reason: "age must be between 18 and 100",
		}
	}
	sex, err := ParseSex(in.Sex)
	if err != nil {
		return ClinicalObservation{}, err
	}
	occlusal, err := ParseAnswer(FieldOcclusalReduction, in.OcclusalReduction)
	if err != nil {
		return ClinicalObservation{}, err
	}
	photo, err := ParseAnswer(FieldPhotobiomodulation, in.Photobiomodulation)
	if err != nil {
		return ClinicalObservation{}, err
	}
	nsaid, err := ParseAnswer(FieldNSAIDUse, in.NSAIDUse)
	if err != nil {
		return ClinicalObservation{}, err
	}
	return ClinicalObservation{
		Age:                in.Age,
		Sex:                sex,
		OcclusalReduction:  occlusal,
		Photobiomodulation: photo,
		NSAIDUse:           nsaid,
	}, nil
}

// value returns the numeric model input for field.
func (o ClinicalObservation) value(field Field) (float64, error) {
	var (
		code float64
		ok   bool
	)
	switch field {
	case FieldAge:
		if o.Age < MinAge || o.Age > MaxAge {
			return 0, &InvalidValueError{Field: field, Value: strconv.Itoa(o.Age), Reason: "age must be between 18 and 100"}
		}
		return float64(o.Age), nil
	case FieldSex:
		code, ok = o.Sex.Code()
	case FieldOcclusalReduction:
		code, ok = o.OcclusalReduction.Code()
	case FieldPhotobiomodulation:
		code, ok = o.Photobiomodulation.Code()
	case FieldNSAIDUse:
		code, ok = o.NSAIDUse.Code()
	default:
		return 0, &InvalidValueError{Field: field, Reason: "unknown field"}
	}
	if !ok {
		return 0, &InvalidValueError{Field: field, Reason: "value not set"}
	}
	return code, nil
}
