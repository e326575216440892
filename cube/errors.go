package cube

import "errors"

// ErrInvalidDimension reports a dimension name that is not declared on the
// cube. Raised for bad constraint keys and bad iteration axes alike; always a
// caller error.
var ErrInvalidDimension = errors.New("invalid dimension")

// ErrUnimplemented reports a contract hook that the collaborator did not
// provide, such as a dimension without a sample space or a cube without a
// source. It indicates a wiring defect, not a runtime condition.
var ErrUnimplemented = errors.New("not implemented")
