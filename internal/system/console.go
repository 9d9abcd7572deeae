// Package system holds the Linux console glue for the framebuffer binary.
package system

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// EnterGraphicsConsole switches the console to graphics mode and hides
// the cursor. The returned function undoes both. Failures are logged only.
func EnterGraphicsConsole(l logger) (restore func()) {
	logResult(l, "KD_GRAPHICS set", "KD_GRAPHICS failed", SetGraphicsMode())
	logResult(l, "cursor hidden", "hide cursor failed", HideCursor())
	return func() {
		logResult(l, "cursor shown", "show cursor failed", ShowCursor())
		logResult(l, "KD_TEXT set", "KD_TEXT failed", RestoreTextMode())
	}
}

func logResult(l logger, ok, failed string, err error) {
	if l == nil {
		return
	}
	if err != nil {
		l.Errorf("tty", "%s: %v", failed, err)
		return
	}
	l.Infof("tty", "%s", ok)
}
