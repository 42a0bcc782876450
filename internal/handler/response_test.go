package handler

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessResponseOmitsMessage(t *testing.T) {
	body, err := json.Marshal(NewSuccessResponse(map[string]int{"count": 3}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","data":{"count":3}}`, string(body))
}

func TestErrorResponseOmitsData(t *testing.T) {
	body, err := json.Marshal(NewErrorResponse("invalid patient ID"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"invalid patient ID"}`, string(body))
}
