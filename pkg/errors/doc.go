// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTimeout,
//	    "import workflow did not become available",
//	    ctx.Err(),
//	    map[string]any{
//	        "repo":     repoName,
//	        "workflow": workflowFile,
//	    },
//	)
package errors
