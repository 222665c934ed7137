// Copyright 2025 The Strada Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"
)

var (
	// ErrParamMissing is returned when a required parameter is absent.
	ErrParamMissing = errors.New("parameter not found")

	// ErrParamInvalid is returned when a parameter cannot be parsed.
	ErrParamInvalid = errors.New("invalid parameter value")
)

// ParamInt parses a path parameter as an int.
//
// Example:
//
//	r.GET("/users/:id", func(c *router.Context) {
//	    id, err := c.ParamInt("id")
//	    if err != nil {
//	        c.String(http.StatusBadRequest, "id must be an integer")
//	        return
//	    }
//	    // use id
//	})
func (c *Context) ParamInt(name string) (int, error) {
	s := c.Param(name)
	if s == "" {
		return 0, fmt.Errorf("%w: %s", ErrParamMissing, name)
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
	}
	return val, nil
}

// ParamInt64 parses a path parameter as an int64.
func (c *Context) ParamInt64(name string) (int64, error) {
	s := c.Param(name)
	if s == "" {
		return 0, fmt.Errorf("%w: %s", ErrParamMissing, name)
	}
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
	}
	return val, nil
}

// ParamFloat64 parses a path parameter as a float64.
func (c *Context) ParamFloat64(name string) (float64, error) {
	s := c.Param(name)
	if s == "" {
		return 0, fmt.Errorf("%w: %s", ErrParamMissing, name)
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
	}
	return val, nil
}

// ParamEnum returns a path parameter constrained to an allow-list.
func (c *Context) ParamEnum(name string, allowed ...string) (string, error) {
	s := c.Param(name)
	if s == "" {
		return "", fmt.Errorf("%w: %s", ErrParamMissing, name)
	}
	if !slices.Contains(allowed, s) {
		return "", fmt.Errorf("%w: %s must be one of %v", ErrParamInvalid, name, allowed)
	}
	return s, nil
}

// QueryInt parses a query parameter as an int, returning def when the
// parameter is absent or malformed.
func (c *Context) QueryInt(name string, def int) int {
	s := c.Query(name)
	if s == "" {
		return def
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return val
}

// QueryBool parses a query parameter as a bool ("1", "t", "true", etc.),
// returning def when absent or malformed.
func (c *Context) QueryBool(name string, def bool) bool {
	s := c.Query(name)
	if s == "" {
		return def
	}
	val, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return val
}

// QueryDuration parses a query parameter with time.ParseDuration,
// returning def when absent or malformed.
func (c *Context) QueryDuration(name string, def time.Duration) time.Duration {
	s := c.Query(name)
	if s == "" {
		return def
	}
	val, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return val
}
