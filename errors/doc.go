/*
Package errors implements the error kinds used across the dashboard migration
engine.

Every error returned by the engine wraps one of the root errors declared in
this package. Use Is to test an error against a kind, for example

	if errors.ErrStructure.Is(err) {
		// the document does not have the shape a schema rule expects
	}

If you want to register a custom error kind, use Register(code, description).
To create an error instance use ErrXyz.New, ErrXyz.Newf or Wrap at the point
of creation, so that a stack trace is attached. If you wrap multiple times,
only the first wrap records the stack trace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
for the error
	%s is just the error message
	%+v is the message followed by the stack trace of the creation point

Field errors carry the dotted path of the document node that caused them,
for example children.0.children.2. Use FieldErrors to extract them.
*/
package errors
