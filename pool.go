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

import "sync"

// contextPool recycles Context objects across requests. Contexts are fully
// reset before going back so no request-scoped state can leak between
// requests.
var contextPool = sync.Pool{
	New: func() any {
		return &Context{index: -1}
	},
}

// acquireContext fetches a reset Context from the pool.
func acquireContext() *Context {
	c := contextPool.Get().(*Context)
	return c
}

// releaseContext resets the context and returns it to the pool.
// The context must not be touched after release.
func releaseContext(c *Context) {
	c.reset()
	contextPool.Put(c)
}
