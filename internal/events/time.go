package events

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to pin "now" for elapsed-time and window math.
var timeNow = time.Now
