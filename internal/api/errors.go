// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package api

import (
	"errors"
	"net/http"

	"github.com/couchcritic/couchcritic/internal/catalog"
	"github.com/couchcritic/couchcritic/internal/recommend"
)

// mapServiceError translates recommend/catalog errors into an HTTP status
// and error code. Unrecognized errors become 500 with a generic message so
// internal details never leak to clients.
func mapServiceError(err error) (status int, code, message string) {
	var verr *recommend.ValidationError
	var cerr *recommend.ConfigError
	var ierr *recommend.InsufficientDataError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "VALIDATION_ERROR", verr.Error()
	case errors.As(err, &cerr):
		return http.StatusBadRequest, "INVALID_PARAMETER", cerr.Error()
	case errors.As(err, &ierr):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_DATA", ierr.Error()
	case errors.Is(err, catalog.ErrShowNotFound):
		return http.StatusNotFound, "NOT_FOUND", "show not found"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}
