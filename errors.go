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

import "errors"

var (
	// ErrContextResponseNil indicates that the context response is nil.
	ErrContextResponseNil = errors.New("context response is nil")

	// ErrResponseWriterNotHijacker indicates that ResponseWriter does not implement the http.Hijacker interface.
	ErrResponseWriterNotHijacker = errors.New("responseWriter does not implement http.Hijacker")

	// ErrNilHandler indicates that a route was registered without a handler.
	ErrNilHandler = errors.New("route handler must not be nil")

	// ErrRouteNotFound indicates that no registered route matches a request.
	ErrRouteNotFound = errors.New("route not found")

	// ErrServerTimeoutInvalid indicates that a server timeout value must be positive.
	ErrServerTimeoutInvalid = errors.New("server timeout must be positive")
)
