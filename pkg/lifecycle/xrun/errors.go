package xrun

import (
	"errors"
	"fmt"
	"os"
)

// ErrSignal 因系统信号退出。使用 errors.Is(err, ErrSignal) 判断。
var ErrSignal = errors.New("received signal")

// ErrNilFunc 服务函数为 nil
var ErrNilFunc = errors.New("xrun: nil function")

// SignalError 携带触发退出的信号。
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "received signal <nil>"
	}
	return fmt.Sprintf("received signal %s", e.Signal)
}

func (e *SignalError) Is(target error) bool {
	return target == ErrSignal
}

func (e *SignalError) Unwrap() error {
	return ErrSignal
}
