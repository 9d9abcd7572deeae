package render

import "github.com/gogpu/gg"

// withTransform saves the context state, applies a transform and paints.
// The saved state is restored on every exit path, panics included.
func withTransform(dc *gg.Context, apply func(dc *gg.Context), paint func(dc *gg.Context) error) error {
	dc.Push()
	defer dc.Pop()

	if apply != nil {
		apply(dc)
	}
	return paint(dc)
}
