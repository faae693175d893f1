package p4

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// newMockP4 returns a P4 wired to a MockRunner, with a fixed executable and
// POSIX path handling.
func newMockP4(t *testing.T) (*P4, *MockRunner) {
	t.Helper()
	ctrl := gomock.NewController(t)
	runner := NewMockRunner(ctrl)
	return &P4{Executable: "p4", Runner: runner, BatchSize: DefaultBatchSize}, runner
}

// expectRun expects one invocation of argv and answers it with stdout and
// a zero exit code.
func expectRun(r *MockRunner, argv []string, stdout string) *gomock.Call {
	return r.EXPECT().Run(gomock.Any(), argv).Return(&Result{Stdout: stdout}, nil)
}

// expectFormRun expects "p4 <command> -i < file", captures the form text
// written to the file and answers with stdout. The file must be gone by the
// end of the test.
func expectFormRun(t *testing.T, r *MockRunner, command string, form *string, stdout string) *gomock.Call {
	t.Helper()
	return r.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, argv []string) (*Result, error) {
			if len(argv) != 5 || argv[1] != command || argv[2] != "-i" || argv[3] != "<" {
				t.Errorf("unexpected form argv %q", argv)
				return &Result{}, nil
			}
			if !strings.HasPrefix(argv[4], os.TempDir()) || !strings.Contains(argv[4], "p4form-") {
				t.Errorf("form file %q not in temp dir", argv[4])
			}
			data, err := os.ReadFile(argv[4])
			if err != nil {
				t.Fatalf("reading form file: %v", err)
			}
			*form = string(data)
			assertRemovedAtEnd(t, argv[4])
			return &Result{Stdout: stdout}, nil
		})
}

func assertRemovedAtEnd(t *testing.T, path string) {
	t.Cleanup(func() {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("form file %s left behind (stat error = %v)", path, err)
		}
	})
}

// captureLog records engine log entries for the rest of the test.
func captureLog(t *testing.T) *logtest.Hook {
	t.Helper()
	hooks := logger.ReplaceHooks(make(logrus.LevelHooks))
	t.Cleanup(func() { logger.ReplaceHooks(hooks) })
	return logtest.NewLocal(logger)
}
