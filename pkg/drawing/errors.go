package drawing

// FormatError reports that an input lacks a structure the conversion cannot
// do without: the drawing environment, the construction block, or a
// readable container entry. It is fatal for that one input.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return e.Msg
}

// NewFormatError returns a *FormatError with the given message.
func NewFormatError(msg string) error {
	return &FormatError{Msg: msg}
}
