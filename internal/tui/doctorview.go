package tui

import (
	"bytes"
	"context"

	"github.com/lamchakchan/devtool-installer/internal/doctor"
)

// newStatusReport pages the doctor report for cat. Version lookups run a
// process per tool, so the report loads asynchronously.
func newStatusReport(ctx context.Context, cat doctor.Catalog, theme *Theme) *pagerView {
	return newLazyPager("Status", func() (string, error) {
		var buf bytes.Buffer
		if _, err := doctor.RunTo(ctx, &buf, cat, doctor.Options{Versions: true}); err != nil {
			return "", err
		}
		return buf.String(), nil
	}, theme)
}
