package notify

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"studyhub/internal/logging"
)

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logging.New(&buf, time.UTC))

	n.Success("Document ajouté", "cours.pdf")
	n.Error("Erreur", "upload failed")

	out := buf.String()
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"msg":"Document ajouté"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"notice":"upload failed"`)
	assert.Contains(t, out, `"component":"notify"`)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Success("ok", "done")
	r.Error("ko", "boom")

	got := r.Notices()
	assert.Equal(t, []Notice{
		{Level: LevelSuccess, Title: "ok", Message: "done"},
		{Level: LevelError, Title: "ko", Message: "boom"},
	}, got)
}
