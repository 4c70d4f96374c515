package driven

// Environment looks up environment variables.
// It exists so that tests can supply synthetic environments without
// mutating real process state; production wiring passes an os-backed
// implementation.
type Environment interface {
	// Getenv returns the value of the variable, or "" if unset.
	Getenv(key string) string
}

// EnvironmentFunc adapts a plain function to the Environment interface.
type EnvironmentFunc func(key string) string

// Getenv implements Environment.
func (f EnvironmentFunc) Getenv(key string) string {
	return f(key)
}
