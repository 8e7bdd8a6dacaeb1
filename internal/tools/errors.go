package tools

import "fmt"

// DuplicateToolError reports a second registration under an existing name.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Name)
}

// MissingArgError reports a call that omits a declared parameter.
type MissingArgError struct {
	Tool  string
	Param string
}

func (e *MissingArgError) Error() string {
	return fmt.Sprintf("missing argument %q", e.Param)
}

// UnexpectedArgError reports a call that supplies an undeclared key.
type UnexpectedArgError struct {
	Tool string
	Key  string
}

func (e *UnexpectedArgError) Error() string {
	return fmt.Sprintf("unexpected argument %q", e.Key)
}
