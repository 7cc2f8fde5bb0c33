package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	assert.Equal(t, "login_failed_2025-03-04_05-06-07.png", Filename("login failed", ts))
	assert.Equal(t, "post-login_check_2025-03-04_05-06-07.png", Filename("post-login/check", ts))
}

func TestNewScreenShotDebugger_DefaultDir(t *testing.T) {
	assert.Equal(t, "logs/screenshots", NewScreenShotDebugger("").outputDir)
	assert.Equal(t, "shots", NewScreenShotDebugger("shots").outputDir)
}
