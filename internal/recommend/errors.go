// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package recommend

import "fmt"

// ConfigError reports an invalid engine or generator parameter.
type ConfigError struct {
	Param   string
	Value   interface{}
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s=%v: %s", e.Param, e.Value, e.Message)
}

// ValidationError reports invalid input data, such as a rating value
// outside [1, 5] or an empty user ID.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Message)
}

// InsufficientDataError reports that the matrix cannot support the
// requested prediction: the target user has no ratings, no eligible
// neighbors exist, or a show has never been rated.
type InsufficientDataError struct {
	UserID string
	ShowID int
	Reason string
}

func (e *InsufficientDataError) Error() string {
	switch {
	case e.UserID != "":
		return fmt.Sprintf("insufficient data for user %q: %s", e.UserID, e.Reason)
	case e.ShowID != 0:
		return fmt.Sprintf("insufficient data for show %d: %s", e.ShowID, e.Reason)
	default:
		return fmt.Sprintf("insufficient data: %s", e.Reason)
	}
}
