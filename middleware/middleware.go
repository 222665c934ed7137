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

// Package middleware holds types shared by the middleware sub-packages.
package middleware

// ContextKey is the type used for context keys set by middleware, so they
// cannot collide with string keys from other packages.
type ContextKey string

// Context keys defined centrally so middleware packages stay collision-free.
const (
	// RequestIDKey carries the request correlation ID set by the
	// requestid middleware.
	RequestIDKey ContextKey = "middleware.request_id"
)
