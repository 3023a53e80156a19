package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Veraticus/radstage/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategories_AcceptEveryDomainMember(t *testing.T) {
	for _, v := range TValues() {
		got, err := ParseTCategory(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	for _, v := range NValues() {
		got, err := ParseNCategory(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	for _, v := range MValues() {
		got, err := ParseMCategory(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestParseCategories_RejectOutsideDomain(t *testing.T) {
	invalid := []string{"", "TX", "T1", "t1a", "N4", "M1", " M0", "unknown"}

	for _, s := range invalid {
		t.Run(fmt.Sprintf("%q", s), func(t *testing.T) {
			_, errT := ParseTCategory(s)
			_, errN := ParseNCategory(s)
			_, errM := ParseMCategory(s)

			for _, err := range []error{errT, errN, errM} {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrSchemaDecode)

				var decodeErr *DecodeError
				require.True(t, errors.As(err, &decodeErr))
				assert.Equal(t, s, decodeErr.Value)
			}
		})
	}
}

func TestValuesAreCopies(t *testing.T) {
	values := TValues()
	values[0] = "mutated"
	assert.Equal(t, T0, TValues()[0])
}

func TestLabelNames(t *testing.T) {
	names := LabelNames()

	assert.Equal(t, []string{"T0", "Tis", "T1mi", "T1a", "T1b", "T1c", "T2a", "T2b", "T3", "T4"}, names[FieldT])
	assert.Equal(t, []string{"N0", "N1", "N2", "N3"}, names[FieldN])
	assert.Equal(t, []string{"M0", "M1a", "M1b", "M1c"}, names[FieldM])
}
