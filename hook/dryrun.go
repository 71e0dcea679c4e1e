package hook

import (
	"context"

	"github.com/grovetools/cmux-notify/pkg/cmux"
	"github.com/sirupsen/logrus"
)

// DryRunSidebar logs sidebar updates instead of performing them.
type DryRunSidebar struct {
	log *logrus.Entry
}

// NewDryRunSidebar creates a sidebar that only logs.
func NewDryRunSidebar(log *logrus.Entry) *DryRunSidebar {
	return &DryRunSidebar{log: log}
}

func (d *DryRunSidebar) RenameWorkspace(_ context.Context, title string) error {
	d.log.WithField("title", title).Info("rename-workspace")
	return nil
}

func (d *DryRunSidebar) SetStatus(_ context.Context, status cmux.Status) error {
	d.log.WithFields(logrus.Fields{
		"channel": status.Channel,
		"message": status.Message,
	}).Info("set-status")
	return nil
}

func (d *DryRunSidebar) ClearStatus(_ context.Context, channel cmux.StatusChannel) error {
	d.log.WithField("channel", channel).Info("clear-status")
	return nil
}

func (d *DryRunSidebar) SignalHook(_ context.Context, phase cmux.HookPhase) error {
	d.log.WithField("phase", phase).Info("claude-hook")
	return nil
}
