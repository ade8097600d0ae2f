package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type clickRequest struct {
	FeatureID string `json:"featureId" validate:"required"`
}

func TestCustomValidator_ReportsJSONFieldName(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&clickRequest{FeatureID: "351"}))

	err := v.Validate(&clickRequest{})
	assert.EqualError(t, err, "featureId failed on the 'required' rule")
}
