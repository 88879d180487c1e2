package errdefs

import "github.com/pkg/errors"

var (
	// ErrFormat marks inventory values that cannot be interpreted, such as a memory
	// expression without digits or a resource value of an unexpected type.
	ErrFormat = errors.New("format error")

	// ErrConsistency marks inventories that violate assumptions about the scheduler,
	// such as a host resource naming another node.
	ErrConsistency = errors.New("consistency error")

	// ErrEmptySample is returned when statistics are requested over no values.
	ErrEmptySample = errors.New("empty sample")
)

// Formatf wraps ErrFormat with a formatted message.
func Formatf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrFormat, format, args...)
}

// Consistencyf wraps ErrConsistency with a formatted message.
func Consistencyf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConsistency, format, args...)
}

func IsFormat(err error) bool {
	return errors.Is(err, ErrFormat)
}

func IsConsistency(err error) bool {
	return errors.Is(err, ErrConsistency)
}

func IsEmptySample(err error) bool {
	return errors.Is(err, ErrEmptySample)
}
