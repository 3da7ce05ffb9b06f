package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError lists what is wrong with one request field.
type ValidationError struct {
	Code     int      `json:"code"`
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, strings.Join(e.Messages, ", "))
}

// ValidationErrorCollector gathers field errors across a request body.
// Messages for the same field are merged; Errors is ordered by field.
type ValidationErrorCollector struct {
	byField map[string]*ValidationError
}

func NewValidationErrorCollector() *ValidationErrorCollector {
	return &ValidationErrorCollector{byField: make(map[string]*ValidationError)}
}

func (c *ValidationErrorCollector) Add(code int, field string, messages ...string) {
	if e, ok := c.byField[field]; ok {
		e.Messages = append(e.Messages, messages...)
		return
	}
	c.byField[field] = &ValidationError{Code: code, Field: field, Messages: messages}
}

func (c *ValidationErrorCollector) HasError() bool {
	return len(c.byField) > 0
}

func (c *ValidationErrorCollector) Errors() []*ValidationError {
	out := make([]*ValidationError, 0, len(c.byField))
	for _, e := range c.byField {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// Err returns the collector as an error, or nil when nothing was added.
func (c *ValidationErrorCollector) Err() error {
	if !c.HasError() {
		return nil
	}
	return c
}

func (c *ValidationErrorCollector) Error() string {
	errs := c.Errors()
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
