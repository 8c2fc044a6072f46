// Package errors provides structured error types for better observability
// and programmatic error handling across the collection pipeline.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTimeout,
//	    "failed to collect node status",
//	    ctx.Err(),
//	    map[string]interface{}{
//	        "command": "pbsnodes -a",
//	        "system": systemName,
//	    },
//	)
package errors
