package clock

import "time"

// Clock abstracts the wall clock so services can be tested against a frozen
// or stepped time source.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function to the Clock interface.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// Real returns a Clock backed by time.Now in UTC.
func Real() Clock {
	return Func(func() time.Time { return time.Now().UTC() })
}
