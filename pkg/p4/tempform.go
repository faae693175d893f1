package p4

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// writeTempForm writes form text to a uniquely named file in the system
// temp directory. The returned cleanup removes it and must be deferred by
// the caller.
func writeTempForm(text string) (string, func(), error) {
	path := filepath.Join(os.TempDir(), "p4form-"+uuid.NewString()+".txt")
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return "", func() {}, fmt.Errorf("writing form file: %w", err)
	}
	logger.WithField("path", path).Debug("wrote form file")
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.WithFields(logrus.Fields{"path": path, "error": err}).Warn("could not remove form file")
		}
	}
	return path, cleanup, nil
}

// writeForm sends a form to "p4 <command> -i" through a temporary file and
// returns stdout.
func (p *P4) writeForm(ctx context.Context, command string, form *Form) (string, error) {
	path, cleanup, err := writeTempForm(MakeForm(form))
	if err != nil {
		return "", err
	}
	defer cleanup()
	return p.output(ctx, command, "-i", "<", path)
}
