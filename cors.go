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

import "net/http"

// corsAllowMethods and corsAllowHeaders are the fixed allow-lists
// advertised on every CORS response.
const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
)

// corsConfig holds cross-origin resource sharing settings. When enabled,
// every response carries the CORS headers and preflight OPTIONS requests
// are answered with 204 before routing.
type corsConfig struct {
	allowOrigin string
}

// applyHeaders sets the CORS response headers for both preflight and
// actual requests.
func (cc *corsConfig) applyHeaders(w http.ResponseWriter, _ *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", cc.allowOrigin)
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
}
