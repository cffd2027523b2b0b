/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package all links every bundled native module into the binary.
//
//	import _ "dirpx.dev/mload/modules/all"
package all

import (
	// Native modules register themselves from init.
	_ "dirpx.dev/mload/modules/env"
	_ "dirpx.dev/mload/modules/math"
	_ "dirpx.dev/mload/modules/runtime"
)
