package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurkol/mailsweep/internal/graph"
)

// recordingForwarder captures Forward calls instead of dialing SMTP.
type recordingForwarder struct {
	sent []recordedSend
	err  error
}

type recordedSend struct {
	to          string
	subject     string
	body        string
	attachments []graph.Attachment
}

func (f *recordingForwarder) Forward(to, subject, body string, attachments []graph.Attachment) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, recordedSend{to: to, subject: subject, body: body, attachments: attachments})
	return nil
}

func TestRunForward(t *testing.T) {
	srv := newMailboxServer(t)
	defer srv.Close()

	p := testPipeline(t, srv, t.TempDir())
	forwarder := &recordingForwarder{}

	require.NoError(t, runForward(context.Background(), p, forwarder, "dest@example.com", 0))

	// M1 carries an attachment and is sent; M2 is empty and only recorded
	require.Len(t, forwarder.sent, 1)
	send := forwarder.sent[0]
	assert.Equal(t, "dest@example.com", send.to)
	assert.Equal(t, "mailsweep: report.pdf", send.subject)
	assert.Contains(t, send.body, "report.pdf (application/pdf, 4 bytes)")
	require.Len(t, send.attachments, 1)
	assert.Equal(t, "report.pdf", send.attachments[0].Name)

	assert.True(t, p.ignored.Contains("M1"))
	assert.True(t, p.ignored.Contains("M2"))
}

func TestRunForwardSkipsHandledMessages(t *testing.T) {
	srv := newMailboxServer(t)
	defer srv.Close()

	dumpDir := t.TempDir()
	p := testPipeline(t, srv, dumpDir)
	forwarder := &recordingForwarder{}
	require.NoError(t, runForward(context.Background(), p, forwarder, "dest@example.com", 0))
	require.Len(t, forwarder.sent, 1)

	// A second run over the same ignore list sends nothing new
	reloaded := testPipeline(t, srv, dumpDir)
	require.NoError(t, runForward(context.Background(), reloaded, forwarder, "dest@example.com", 0))
	assert.Len(t, forwarder.sent, 1)
}

func TestRunForwardHonorsMax(t *testing.T) {
	srv := newMailboxServer(t)
	defer srv.Close()

	p := testPipeline(t, srv, t.TempDir())
	forwarder := &recordingForwarder{}

	require.NoError(t, runForward(context.Background(), p, forwarder, "dest@example.com", 1))

	assert.True(t, p.ignored.Contains("M1"))
	assert.False(t, p.ignored.Contains("M2"))
}

func TestRunForwardStopsOnSendFailure(t *testing.T) {
	srv := newMailboxServer(t)
	defer srv.Close()

	p := testPipeline(t, srv, t.TempDir())
	sendErr := errors.New("connection refused")
	forwarder := &recordingForwarder{err: sendErr}

	err := runForward(context.Background(), p, forwarder, "dest@example.com", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, sendErr)

	// The failed message stays unhandled so the next run retries it
	assert.False(t, p.ignored.Contains("M1"))
}