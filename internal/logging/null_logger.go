package logging

// NullLogger drops everything.
type NullLogger struct{}

func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (*NullLogger) Verbose(string, ...any) {}
func (*NullLogger) Info(string, ...any)    {}
func (*NullLogger) Error(string, ...any)   {}
