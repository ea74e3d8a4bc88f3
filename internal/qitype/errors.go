package qitype

import "errors"

// Error taxonomy per the failure-mode table: OutOfRange and
// StorageShapeMismatch surface to the caller; UnknownType surfaces as a
// nil result plus a logged error (see signature.TypeFromSignature);
// HeterogeneousCollection and LateRegistration are log-only events with
// no error value; UnsupportedOperation is reported once via the
// FailureReporter and the operation returns its zero value.
var (
	ErrOutOfRange           = errors.New("qitype: index out of range")
	ErrStorageShapeMismatch = errors.New("qitype: seeded storage has the wrong arity")
	ErrUnknownType          = errors.New("qitype: signature not materializable")
	ErrUnsupportedOperation = errors.New("qitype: unsupported operation for this type")
)
