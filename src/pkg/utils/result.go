package utils

// Result is what every usecase returns: either Data or Error is set.
type Result struct {
	Data  interface{}
	Error error
}
