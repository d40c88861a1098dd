package service

import (
	"fmt"
)

type ErrUnknownReportName struct {
	error
}

func NewErrUnknownReportName(name string) *ErrUnknownReportName {
	return &ErrUnknownReportName{fmt.Errorf("unknown report name %q", name)}
}

type ErrInvalidExportFormat struct {
	error
}

func NewErrInvalidExportFormat(format string) *ErrInvalidExportFormat {
	return &ErrInvalidExportFormat{fmt.Errorf("invalid export format %q", format)}
}
