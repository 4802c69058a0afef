// Package clock provides the time source used to stamp exports.
package clock

import "time"

// NowFunc returns current time. Override in tests for stable export names.
var NowFunc = time.Now

// Now returns NowFunc().
func Now() time.Time { return NowFunc() }
