package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerMetadataMerge(t *testing.T) {
	t.Parallel()
	company := "Acme"
	plan := "pro"
	newPlan := "enterprise"

	meta := CustomerMetadata{Company: &company, Plan: &plan}
	meta = meta.Merge(CustomerMetadata{Plan: &newPlan})

	require.NotNil(t, meta.Company)
	assert.Equal(t, "Acme", *meta.Company)
	require.NotNil(t, meta.Plan)
	assert.Equal(t, "enterprise", *meta.Plan)
	assert.Nil(t, meta.Location)
}
