package search_test

import (
	"testing"

	"github.com/herohde/quax/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestParamsDefaults(t *testing.T) {
	p := search.NewParams()

	for _, s := range search.Specs() {
		v, ok := p.Get(s.Name)
		assert.True(t, ok, s.Name)
		assert.Equal(t, s.Default, v, s.Name)
	}
}

func TestParamsSet(t *testing.T) {
	p := search.NewParams()

	assert.NoError(t, p.Set("tunable_rfp_margin", "80"))
	assert.Equal(t, 80, p.RFPMargin)

	// Case-insensitive, as setoption names arrive in either case.
	assert.NoError(t, p.Set("Tunable_LMR_Base", "1.0"))
	assert.Equal(t, 1.0, p.LMRBase)

	assert.Error(t, p.Set("tunable_rfp_margin", "999"), "out of range")
	assert.Error(t, p.Set("tunable_rfp_margin", "abc"))
	assert.Error(t, p.Set("no_such_param", "1"))
}
