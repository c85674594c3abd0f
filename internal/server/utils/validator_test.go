package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Code     string   `uri:"code" validate:"required,airport_code"`
	Operator string   `form:"operator" validate:"omitempty,operator_code"`
	Ident    string   `form:"ident" validate:"omitempty,flight_ident"`
	Lat      *float64 `form:"lat" validate:"omitempty,latitude"`
	Lon      *float64 `form:"lon" validate:"omitempty,longitude"`
}

func ptr(f float64) *float64 { return &f }

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name  string
		in    sample
		field string
		tag   string
	}{
		{"valid", sample{Code: "KTPA", Operator: "UAL", Ident: "UAL123-1718000000-airline-0001", Lat: ptr(27.9), Lon: ptr(-82.5)}, "", ""},
		{"lid with digits", sample{Code: "07FA"}, "", ""},
		{"missing code", sample{}, "code", "required"},
		{"long code", sample{Code: "KTPAX"}, "code", "airport_code"},
		{"bad operator", sample{Code: "TPA", Operator: "UNITED"}, "operator", "operator_code"},
		{"bad ident", sample{Code: "TPA", Ident: "UAL 123"}, "ident", "flight_ident"},
		{"latitude", sample{Code: "TPA", Lat: ptr(91)}, "lat", "latitude"},
		{"longitude", sample{Code: "TPA", Lon: ptr(-181)}, "lon", "longitude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(tt.in)
			if tt.field == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.tag, errs[0].Tag)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestFormatValidationErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FormatValidationErrors(assert.AnError))
}
