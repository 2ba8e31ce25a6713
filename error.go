package orderbook

import "errors"

var (
	ErrInvalidParam = errors.New("the param is invalid")
	ErrSequenceGap  = errors.New("book log sequence gap")
)
