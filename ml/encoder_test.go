package ml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDeclaredValues(t *testing.T) {
	cases := []struct {
		field Field
		raw   string
		want  float64
	}{
		{FieldOcclusalReduction, "No", 0},
		{FieldOcclusalReduction, "Yes", 1},
		{FieldPhotobiomodulation, "No", 0},
		{FieldPhotobiomodulation, "Yes", 1},
		{FieldNSAIDUse, "No", 0},
		{FieldNSAIDUse, "Yes", 1},
		{FieldNSAIDUse, "Não", 0},
		{FieldNSAIDUse, "Sim", 1},
		{FieldSex, "Female", 0},
		{FieldSex, "Male", 1},
		{FieldSex, "Feminino", 0},
		{FieldSex, "Masculino", 1},
	}
	for _, tc := range cases {
		for i := 0; i < 2; i++ {
			got, err := Encode(tc.field, tc.raw)
			require.NoError(t, err, "%s=%s", tc.field, tc.raw)
			assert.Equal(t, tc.want, got, "%s=%s", tc.field, tc.raw)
		}
	}
}

func TestEncodeRejectsUndeclaredValues(t *testing.T) {
	cases := []struct {
		field Field
		raw   string
	}{
		{FieldSex, "Other"},
		{FieldSex, "female"},
		{FieldSex, ""},
		{FieldOcclusalReduction, "maybe"},
		{FieldNSAIDUse, "1"},
		{FieldAge, "32"},
		{Field("height"), "Yes"},
	}
	for _, tc := range cases {
		_, err := Encode(tc.field, tc.raw)
		var invalid *InvalidValueError
		require.True(t, errors.As(err, &invalid), "%s=%q should be invalid", tc.field, tc.raw)
		assert.Equal(t, tc.field, invalid.Field)
		assert.Equal(t, tc.raw, invalid.Value)
	}
}

func TestParseAnswerRejectsSexField(t *testing.T) {
	_, err := ParseAnswer(FieldSex, "Yes")
	var invalid *InvalidValueError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, FieldSex, invalid.Field)
}

func TestNewObservationValidatesAge(t *testing.T) {
	in := ObservationInput{Sex: "Female", OcclusalReduction: "No", Photobiomodulation: "No", NSAIDUse: "No"}
	for _, age := range []int{17, 101, 0, -5} {
		in.Age = age
		_, err := NewObservation(in)
		var invalid *InvalidValueError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, FieldAge, invalid.Field)
	}
	for _, age := range []int{18, 100} {
		in.Age = age
		obs, err := NewObservation(in)
		require.NoError(t, err)
		assert.Equal(t, age, obs.Age)
	}
}

func TestNewObservationIdentifiesSexField(t *testing.T) {
	_, err := NewObservation(ObservationInput{
		Age:                32,
		Sex:                "Other",
		OcclusalReduction:  "Yes",
		Photobiomodulation: "Yes",
		NSAIDUse:           "No",
	})
	var invalid *InvalidValueError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, FieldSex, invalid.Field)
	assert.Equal(t, "Other", invalid.Value)
}
