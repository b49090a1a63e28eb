package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/amavislog/internal/engine"
	"github.com/hejijunhao/amavislog/internal/engine/classifier"
	"github.com/hejijunhao/amavislog/internal/engine/summary"
	"github.com/hejijunhao/amavislog/internal/model"
	"github.com/hejijunhao/amavislog/internal/output/report"
	"github.com/hejijunhao/amavislog/internal/source"
)

const sampleLog = `Oct  8 07:02:21 mx1 amavis[13087]: starting. /usr/sbin/amavisd-new at mx1.domain amavisd-new-2.7.1 (20120429)
Oct  8 07:02:22 mx1 amavis[13096]: Module Amavis::Conf        2.303
Oct  8 07:02:27 mx1 amavis[13102]: (13102-01) Passed CLEAN {RelayedOpenRelay}, [209.18.93.165]:27081
Oct  8 07:02:54 mx1 amavis[13102]: (13102-02-5) Blocked SPAM {DiscardedOpenRelay,Quarantined}, [198.52.240.237]:51464
Oct  8 07:03:01 mx1 postfix/smtpd[4411]: connect from unknown[10.0.0.10]
Oct  7 06:21:36 mx1 amavis[7156]: (07156-04) (!)do_unzip: p003, unsupported compr. method: 9
Oct  8 08:23:48 mx1 amavis[18584]: (18584-10) INFO: unfolded 1 illegal all-whitespace continuation lines
Oct  8 08:23:49 mx1 amavis[18584]: (18584-10) ...continued
`

func writeLog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(opts ...engine.Option) *Pipeline {
	eng := engine.New(classifier.New(""), summary.New(), opts...)
	return New(eng, WithLogger(quietLogger()))
}

func TestRunSingleFile(t *testing.T) {
	path := writeLog(t, t.TempDir(), "mail.log", sampleLog)
	p := newTestPipeline()

	snap, err := p.Run(context.Background(), []string{path})
	require.NoError(t, err)

	assert.Equal(t, 2, snap.Total())
	assert.Equal(t, 1, snap.Count("Passed CLEAN"))
	assert.Equal(t, 1, snap.Count("Blocked SPAM"))
	assert.Len(t, snap.Errors, 1)
	assert.Len(t, snap.Info, 1)
	assert.Equal(t, []string{
		"starting. /usr/sbin/amavisd-new at mx1.domain amavisd-new-2.7.1 (20120429)",
		"Module Amavis::Conf        2.303",
	}, snap.Startup)

	stats := p.Stats()
	assert.Equal(t, 8, stats.Lines)
	assert.Equal(t, 1, stats.OtherService)
	assert.Equal(t, 1, stats.Routed[model.Continuation])
	assert.Equal(t, 2, stats.Routed[model.Action])
}

func TestRunFilesInArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a.log", "Oct  8 08:00:00 mx1 amavis[1]: (00001-01) INFO: first\n")
	b := writeLog(t, dir, "b.log", "Oct  8 08:00:00 mx1 amavis[1]: (00001-02) INFO: second\n")

	snap, err := newTestPipeline().Run(context.Background(), []string{b, a})
	require.NoError(t, err)
	assert.Equal(t, []string{"(00001-02) INFO: second", "(00001-01) INFO: first"}, snap.Info)
}

func TestRunMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	good := writeLog(t, dir, "mail.log", sampleLog)

	_, err := newTestPipeline().Run(context.Background(), []string{good, filepath.Join(dir, "missing.log")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrUnreadableFile))
}

func TestRunMalformedLineFails(t *testing.T) {
	path := writeLog(t, t.TempDir(), "mail.log", sampleLog+"this is not syslog\n")

	_, err := newTestPipeline().Run(context.Background(), []string{path})
	require.Error(t, err)
	assert.True(t, errors.Is(err, classifier.ErrMalformedLine))
	assert.Contains(t, err.Error(), "mail.log:9")
}

func TestRunSkipMalformed(t *testing.T) {
	path := writeLog(t, t.TempDir(), "mail.log", "garbage\n"+sampleLog)

	var logs bytes.Buffer
	eng := engine.New(classifier.New(""), summary.New())
	p := New(eng, WithSkipMalformed(true), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	snap, err := p.Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Total())
	assert.Equal(t, 1, p.Stats().Malformed)
	assert.Contains(t, logs.String(), "skipping malformed line")
}

func TestRunLogsLineCounts(t *testing.T) {
	path := writeLog(t, t.TempDir(), "mail.log", sampleLog)

	var logs bytes.Buffer
	eng := engine.New(classifier.New(""), summary.New())
	p := New(eng, WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))))

	_, err := p.Run(context.Background(), []string{path})
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "path="+path)
	assert.Contains(t, out, "line=5 reason=other_service")
	assert.Contains(t, out, "routed.startup=2 routed.continuation=1 routed.error=1 routed.action=2 routed.info=1")
}

func TestRunYesterdayExcludesOlderLines(t *testing.T) {
	now := time.Date(2026, time.October, 9, 12, 0, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)
	path := writeLog(t, t.TempDir(), "mail.log", sampleLog)

	p := newTestPipeline(engine.WithDay(yesterday))
	snap, err := p.Run(context.Background(), []string{path})
	require.NoError(t, err)

	assert.Empty(t, snap.Errors, "Oct 7 error line is two days old")
	assert.Equal(t, 2, snap.Total())
	assert.Equal(t, 1, p.Stats().OutsideDay)
}

func TestRunCancelled(t *testing.T) {
	path := writeLog(t, t.TempDir(), "mail.log", sampleLog)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline().Run(ctx, []string{path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadDecodesWithConfiguredEncoding(t *testing.T) {
	eng := engine.New(classifier.New(""), summary.New())
	p := New(eng, WithEncoding("latin1"), WithLogger(quietLogger()))

	err := p.Read(context.Background(), "stdin", strings.NewReader("Oct  8 08:00:00 mx1 amavis[1]: (00001-01) INFO: r\xe9sum\xe9 ok\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"(00001-01) INFO: résumé ok"}, p.Snapshot().Info)
}

func TestReadUnknownEncoding(t *testing.T) {
	eng := engine.New(classifier.New(""), summary.New())
	p := New(eng, WithEncoding("ebcdic"), WithLogger(quietLogger()))
	assert.Error(t, p.Read(context.Background(), "stdin", strings.NewReader("")))
}

func TestReportEndToEnd(t *testing.T) {
	path := writeLog(t, t.TempDir(), "mail.log", sampleLog)
	p := newTestPipeline()

	snap, err := p.Run(context.Background(), []string{path})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, p.Report(&out, snap, report.Options{}))

	text := out.String()
	assert.Contains(t, text, "2   total processed\n")
	assert.Contains(t, text, "1   Blocked SPAM (50.0%)\n")
	assert.Contains(t, text, "0700-0800         1         1\n")
	assert.Contains(t, text, "(07156-04) (!)do_unzip")
	assert.Contains(t, text, "startup details: none\n")
}
