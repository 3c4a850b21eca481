package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleAmountUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"income": "5000"}`, "5000"},
		{`{"income": 5000}`, "5000"},
		{`{"income": 3000.50}`, "3000.5"},
		{`{"income": "0.5"}`, "0.5"},
	}
	for _, tt := range tests {
		var req EvaluateRequest
		require.NoError(t, json.Unmarshal([]byte(tt.in), &req), tt.in)
		assert.Equal(t, tt.want, req.Income.String(), tt.in)
	}

	var req EvaluateRequest
	assert.Error(t, json.Unmarshal([]byte(`{"income": "abc"}`), &req))
}
