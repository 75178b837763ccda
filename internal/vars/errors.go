package vars

import "errors"

// ErrMemoryLimitExceeded is returned by Insert when the write would push
// the store's accounted size over MaxBytes.
var ErrMemoryLimitExceeded = errors.New("interpreter memory limit exceeded")

func errIdentifierMissing(name string) error {
	return errors.New("identifier " + name + " did not contain a value")
}
