/*
Package errors implements the error taxonomy used across the splitter client.

Every failure returned by this module wraps exactly one of the root errors
declared in this package. A root error carries a numeric code that is stable
and can be used by callers (a CLI exit path, an HTTP handler) to classify a
failure without inspecting the message.

Create errors at the point of failure using ErrXyz.New("...") or
errors.Wrap(ErrXyz, "..."). The innermost wrap attaches a stack trace. Test the
kind of an error with ErrXyz.Is(err).

Once you have an error, you can use fmt.Printf/Sprintf to get more context
	%s is just the error message
	%+v is the full stack trace
*/
package errors
