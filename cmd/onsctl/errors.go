package main

import (
	"fmt"
	"strings"
)

// usageError 参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// cliUsagePrefixes urfave/cli 参数解析错误的消息前缀。
var cliUsagePrefixes = []string{
	"flag provided but not defined",
	"Required flag",
	"Required flags",
	"invalid value",
	"No help topic",
}

func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, p := range cliUsagePrefixes {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}
