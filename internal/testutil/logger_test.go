package testutil

import "testing"

func TestLogger(t *testing.T) {
	log := Logger(t)
	log.Debug("visible with -v", "rows", 3)
	log.Info("loaded")
}
