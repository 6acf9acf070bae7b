// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recommendQuery struct {
	N    int    `validate:"gte=1,lte=50"`
	Mode string `validate:"omitempty,oneof=user item"`
}

type ratingsBody struct {
	Ratings map[string]float64 `validate:"required,min=1"`
}

func TestValidateStructPass(t *testing.T) {
	assert.Nil(t, ValidateStruct(&recommendQuery{N: 10, Mode: "user"}))
	assert.Nil(t, ValidateStruct(&recommendQuery{N: 1}))
	assert.Nil(t, ValidateStruct(&ratingsBody{Ratings: map[string]float64{"42": 5}}))
}

func TestValidateStructSingleFailure(t *testing.T) {
	verr := ValidateStruct(&recommendQuery{N: 0, Mode: "user"})
	require.NotNil(t, verr)
	require.Len(t, verr.Errors(), 1)

	apiErr := verr.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Message, "N must be greater than or equal to 1")
	assert.Equal(t, "N", apiErr.Details["field"])
}

func TestValidateStructMultipleFailures(t *testing.T) {
	verr := ValidateStruct(&recommendQuery{N: 999, Mode: "hybrid"})
	require.NotNil(t, verr)
	require.Len(t, verr.Errors(), 2)

	apiErr := verr.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Message, "N must be less than or equal to 50")
	assert.Contains(t, apiErr.Message, "Mode must be one of: user item")

	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	require.True(t, ok)
	assert.Len(t, fields, 2)
}

func TestValidateStructEmptyRatings(t *testing.T) {
	verr := ValidateStruct(&ratingsBody{Ratings: map[string]float64{}})
	require.NotNil(t, verr)
	assert.Contains(t, verr.Error(), "Ratings")
}

func TestGetValidatorSingleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
