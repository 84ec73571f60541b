package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "9876543210", DigitsOnly("98 7654 3210"))
	assert.Equal(t, "919876543210", DigitsOnly("+91-98765-43210"))
	assert.Equal(t, "", DigitsOnly("call me"))
}

func TestData_Set(t *testing.T) {
	var d Data
	require.NoError(t, d.Set(FieldName, "Asha"))
	require.NoError(t, d.Set(FieldStreetAddress, "12 MG Road"))
	require.NoError(t, d.Set(FieldPropertySize, "2bhk"))
	assert.Equal(t, "Asha", d.Name)
	assert.Equal(t, "12 MG Road", d.Address)
	assert.Equal(t, "2bhk", d.PropertySize)

	assert.Error(t, d.Set("pestTypes", "ants"))
	assert.Error(t, d.Set("nickname", "x"))
}

func TestData_PestSet(t *testing.T) {
	var d Data
	d.AddPest("ants")
	d.AddPest("ants")
	d.AddPest(" ")
	d.TogglePest("termites")
	assert.Equal(t, []string{"ants", "termites"}, d.PestTypes)

	d.TogglePest("ants")
	assert.Equal(t, []string{"termites"}, d.PestTypes)
	assert.False(t, d.HasPest("ants"))
}

func TestData_CloneIsDeep(t *testing.T) {
	d := Data{PestTypes: []string{"ants"}}
	c := d.Clone()
	c.PestTypes[0] = "rodents"
	assert.Equal(t, "ants", d.PestTypes[0])
}

func TestMerge_OverrideWinsPerField(t *testing.T) {
	base := Data{Name: "Draft Name", Phone: "9876543210", PestTypes: []string{"ants"}}
	override := Data{Name: "Url Name", Address: "Pune"}

	got := Merge(base, override)
	assert.Equal(t, Data{
		Name:      "Url Name",
		Phone:     "9876543210",
		Address:   "Pune",
		PestTypes: []string{"ants"},
	}, got)

	got = Merge(base, Data{PestTypes: []string{"termites"}})
	assert.Equal(t, []string{"termites"}, got.PestTypes)
}

func TestKind_Valid(t *testing.T) {
	assert.True(t, KindHomeQuote.Valid())
	assert.False(t, Kind("quote-simple").Valid())
}
