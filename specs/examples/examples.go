// Package examples blank-imports every example specification package, so
// an instrumented program can activate all of them with a single import:
//
//	import _ "github.com/racemop/racemop/specs/examples"
package examples

import (
	_ "github.com/racemop/racemop/specs/examples/fileclose"
	_ "github.com/racemop/racemop/specs/examples/sockettimeout"
	_ "github.com/racemop/racemop/specs/examples/unsafeiterator"
)
