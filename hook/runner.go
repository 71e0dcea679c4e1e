// Package hook runs one hook invocation: read the payload, let the policy
// decide, deliver the outcome.
package hook

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/grovetools/cmux-notify/notify"
	"github.com/grovetools/cmux-notify/payload"
	"github.com/grovetools/cmux-notify/policy"
	"github.com/sirupsen/logrus"
)

// Delivery shows a notification.
type Delivery interface {
	Deliver(ctx context.Context, n notify.Notification)
}

// Runner processes a single event. It never fails: every problem is logged
// and the invocation still completes.
type Runner struct {
	Policy   *policy.Policy
	Delivery Delivery
	Env      payload.Env
	// DryRun prints the decided notification to Stdout instead of
	// delivering it.
	DryRun bool
	Stdout io.Writer
	Stderr io.Writer
	log    *logrus.Entry
}

// Run handles event with the JSON payload read from stdin.
func (r *Runner) Run(ctx context.Context, event string, stdin io.Reader) {
	log := r.log.WithField("event", event)

	var data []byte
	if stdin != nil {
		var err error
		if data, err = io.ReadAll(stdin); err != nil {
			log.WithError(err).Debug("Failed to read hook payload")
			data = nil
		}
	}

	p, err := payload.Parse(data)
	if err != nil {
		cause := stderrors.Unwrap(err)
		if cause == nil {
			cause = err
		}
		fmt.Fprintf(r.Stderr, "cmux-notify: invalid hook payload: %v\n", cause)
	}

	ec := payload.Extract(p, r.Env)
	log.WithFields(logrus.Fields{
		"tool":    ec.ToolName,
		"project": ec.ProjectName,
	}).Debug("Evaluating hook event")

	n := r.Policy.Evaluate(ctx, event, ec)

	if r.DryRun {
		encoder := json.NewEncoder(r.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(n); err != nil {
			log.WithError(err).Debug("Failed to print notification")
		}
		return
	}

	if n == nil {
		log.Debug("No notification")
		return
	}
	if r.Delivery != nil {
		r.Delivery.Deliver(ctx, *n)
	}
}
