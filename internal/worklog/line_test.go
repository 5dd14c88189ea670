package worklog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantKind Kind
		wantDir  string
		wantGit  string
		wantTags []string
	}{
		{
			name:     "record with git summary",
			in:       "20240101-0900 /home/u/repo/worklog [main ! github.com/u/worklog.git 1a2b3c4]\n",
			wantKind: KindRecord,
			wantDir:  "/home/u/repo/worklog",
			wantGit:  "[main ! github.com/u/worklog.git 1a2b3c4]",
		},
		{
			name:     "record without git summary keeps trailing space format",
			in:       "20240101-0900 /tmp \n",
			wantKind: KindRecord,
			wantDir:  "/tmp",
		},
		{
			name:     "empty brackets are an empty summary",
			in:       "20240101-0900 /home/u/proj []",
			wantKind: KindRecord,
			wantDir:  "/home/u/proj",
		},
		{
			name:     "directory with spaces",
			in:       "20240101-0900 /home/u/My Documents [dev  origin abc]",
			wantKind: KindRecord,
			wantDir:  "/home/u/My Documents",
			wantGit:  "[dev  origin abc]",
		},
		{
			name:     "tags line",
			in:       "tags: alpha  beta\tgamma\n",
			wantKind: KindTags,
			wantTags: []string{"alpha", "beta", "gamma"},
		},
		{
			name:     "empty tags line",
			in:       "tags:",
			wantKind: KindTags,
		},
		{name: "free text", in: "fixed the flaky test", wantKind: KindText},
		{name: "timestamp without separator space", in: "20240101-0900/tmp", wantKind: KindText},
		{name: "short timestamp", in: "2024011-0900 /tmp", wantKind: KindText},
		{name: "impossible month", in: "20241301-0900 /tmp", wantKind: KindText},
		{name: "indented timestamp", in: " 20240101-0900 /tmp", wantKind: KindText},
		{name: "invalid utf-8", in: "20240101-0900 /tmp/caf\xc3", wantKind: KindText},
		{name: "empty line", in: "\n", wantKind: KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := ParseLine(tt.in)
			assert.Equal(t, tt.wantKind, line.Kind)
			switch tt.wantKind {
			case KindRecord:
				assert.Equal(t, tt.wantDir, line.Record.Dir)
				assert.Equal(t, tt.wantGit, line.Record.Git)
			case KindTags:
				if tt.wantTags == nil {
					assert.Empty(t, line.Tags)
				} else {
					assert.Equal(t, tt.wantTags, line.Tags)
				}
			case KindText:
				assert.NotContains(t, line.Text, "\n")
			}
		})
	}
}

func TestParseLine_RecordTime(t *testing.T) {
	line := ParseLine("20240101-0915 /home/u/proj []\n")
	require.Equal(t, KindRecord, line.Kind)
	assert.True(t, line.Record.Time.Equal(time.Date(2024, 1, 1, 9, 15, 0, 0, time.Local)))
	assert.Equal(t, "20240101-0915 /home/u/proj []", line.Record.Raw)
}

func TestTimestampRoundTrip(t *testing.T) {
	stamps := []string{"20240101-0900", "19991231-2359", "20240229-1200", "20300615-0001"}
	for _, stamp := range stamps {
		t.Run(stamp, func(t *testing.T) {
			parsed, err := ParseTime(stamp)
			require.NoError(t, err)
			assert.Equal(t, stamp, FormatTime(parsed))
		})
	}
}

func TestFormatRecord(t *testing.T) {
	at := time.Date(2024, 3, 5, 7, 8, 59, 0, time.Local)
	assert.Equal(t, "20240305-0708 /srv [main 1a2b]\n", FormatRecord(at, "/srv", "[main 1a2b]"))
	assert.Equal(t, "20240305-0708 /srv \n", FormatRecord(at, "/srv", ""))

	line := ParseLine(FormatRecord(at, "/srv", ""))
	require.Equal(t, KindRecord, line.Kind)
	assert.Equal(t, "/srv", line.Record.Dir)
	assert.Empty(t, line.Record.Git)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "record", KindRecord.String())
	assert.Equal(t, "tags", KindTags.String())
	assert.Equal(t, "text", KindText.String())
}
