// Package focus decides whether the user is already looking at the surface
// that raised a hook event, in which case popups are pointless.
package focus

import (
	"context"

	"github.com/grovetools/cmux-notify/pkg/cmux"
	"github.com/sirupsen/logrus"
)

// DefaultBundleID is the cmux application identifier on macOS.
const DefaultBundleID = "com.cmuxterm.app"

// FrontmostQuerier reports the bundle identifier of the frontmost application.
type FrontmostQuerier interface {
	FrontmostBundleID(ctx context.Context) (string, error)
}

// Identifier reports which surface is focused and which is calling.
type Identifier interface {
	Identify(ctx context.Context) (*cmux.Identity, error)
}

// Oracle combines the OS view (is cmux frontmost) with cmux's own focus
// model (is the caller's surface the focused one).
type Oracle struct {
	Frontmost  FrontmostQuerier
	Identifier Identifier
	BundleID   string
	log        *logrus.Entry
}

// NewOracle creates an Oracle. A nil querier or identifier makes the oracle
// always report "not active".
func NewOracle(frontmost FrontmostQuerier, identifier Identifier, bundleID string, log *logrus.Entry) *Oracle {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Oracle{
		Frontmost:  frontmost,
		Identifier: identifier,
		BundleID:   bundleID,
		log:        log,
	}
}

// IsActive reports true only when cmux is the frontmost application and the
// focused surface and workspace are the caller's. Any failure answers false.
func (o *Oracle) IsActive(ctx context.Context) bool {
	if o == nil || o.Frontmost == nil || o.Identifier == nil || o.BundleID == "" {
		return false
	}

	bundleID, err := o.Frontmost.FrontmostBundleID(ctx)
	if err != nil {
		o.log.WithError(err).Debug("Could not query frontmost application")
		return false
	}
	if bundleID != o.BundleID {
		o.log.WithField("frontmost", bundleID).Debug("cmux is not frontmost")
		return false
	}

	identity, err := o.Identifier.Identify(ctx)
	if err != nil {
		o.log.WithError(err).Debug("Could not identify focused surface")
		return false
	}
	return identity.CallerFocused()
}
