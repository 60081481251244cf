package log

// TB is the subset of testing.TB the Testing logger needs.
type TB interface {
	Errorf(string, ...any)
	Logf(string, ...any)
	Helper()
}

// Testing routes messages to a test's log. Error messages do not fail the test.
type Testing struct {
	TB
	Tags []any
}

// NewTesting returns a logger bound to t.
func NewTesting(t TB) *Testing {
	return &Testing{TB: t}
}

func (l *Testing) Debug(m string, s ...any) {
	l.Helper()
	l.Logf("%s", tfmt("DEB ", m, s, l.Tags))
}

func (l *Testing) Info(m string, s ...any) {
	l.Helper()
	l.Logf("%s", tfmt("INF ", m, s, l.Tags))
}

func (l *Testing) Error(m string, s ...any) {
	l.Helper()
	l.Logf("%s", tfmt("ERR ", m, s, l.Tags))
}

func (l *Testing) With(tags ...any) Logger {
	t := make([]any, 0, len(tags)+len(l.Tags))
	t = append(t, l.Tags...)
	t = append(t, tags...)

	return &Testing{TB: l.TB, Tags: t}
}
