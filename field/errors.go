package field

import "errors"

// Errors reported by grid construction and coordinate access. Both indicate a
// caller bug rather than a transient condition; callers match them with
// errors.Is.
var (
	ErrInvalidConfiguration = errors.New("invalid grid configuration")
	ErrIndexOutOfBounds     = errors.New("coordinate out of bounds")
)
