package mailer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/acmeops/backlog-alerts/workflow"
)

// DryRunDispatcher writes the attachment to OutputDir instead of sending.
// Used by local runs and the ALERT_DRY_RUN toggle.
type DryRunDispatcher struct {
	OutputDir string
	Logger    *logrus.Logger
}

func (d *DryRunDispatcher) Send(_ context.Context, n *workflow.Notification) error {
	dir := d.OutputDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, n.AttachmentName)
	if err := os.WriteFile(path, n.Attachment, 0o644); err != nil {
		return err
	}
	d.Logger.WithFields(logrus.Fields{
		"to":      n.To,
		"cc":      n.Cc,
		"subject": n.Subject,
		"file":    path,
	}).Info("dry run: notification not sent, report written locally")
	return nil
}
