package domain

import "fmt"

// SchemaError means the input has no usable country column. Fatal to a run.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string { return "schema error: " + e.Reason }

// ShapeError means neither a wide nor a long MBTI layout was recognized. Fatal to a run.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string { return "shape error: " + e.Reason }

// IOError means an input could not be read or decoded under any attempted encoding.
type IOError struct {
	Source string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Source, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FetchError means optional reference data was unavailable. The pipeline
// recovers from it by leaving geo fields absent.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
