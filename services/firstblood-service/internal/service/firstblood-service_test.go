package service

import (
	"bytes"
	"context"
	"errors"
	"path"
	"testing"
	"time"

	apperrors "github.com/burakmert236/firstblood/common/errors"
	"github.com/burakmert236/firstblood/common/logger"
	"github.com/burakmert236/firstblood/common/models"
	"github.com/burakmert236/firstblood/internal/export"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicUsers = `{"results": [
	{"id": 100, "name": "alice", "banned": false, "hidden": false, "team_id": 10},
	{"id": 200, "name": "bob", "banned": false, "hidden": false, "team_id": 20}
]}`

const basicSubmissions = `{"results": [
	{"id": 1, "user_id": 200, "team_id": 20, "challenge_id": 1, "type": "correct", "date": "2024-01-01T10:00:00Z"},
	{"id": 2, "user_id": 100, "team_id": 10, "challenge_id": 1, "type": "correct", "date": "2024-01-01T09:00:00Z"},
	{"id": 3, "user_id": 100, "team_id": 10, "challenge_id": 2, "type": "incorrect", "date": "2024-01-01T08:00:00Z"}
]}`

func basicExport(teams string) map[string]string {
	return map[string]string{
		export.SolvesFile:      `{"results": [{"id": 2, "user_id": 100, "team_id": 10, "challenge_id": 1, "date": "2024-01-01T09:00:00Z"}]}`,
		export.SubmissionsFile: basicSubmissions,
		export.ChallengesFile:  `{"results": [{"id": 1, "name": "pwn1"}, {"id": 2, "name": "web1"}]}`,
		export.TeamsFile:       teams,
		export.UsersFile:       basicUsers,
	}
}

func writeExport(t *testing.T, fs afero.Fs, root string, collections map[string]string) {
	t.Helper()
	for file, body := range collections {
		require.NoError(t, afero.WriteFile(fs, path.Join(root, "db", file), []byte(body), 0o644))
	}
}

type memorySink struct {
	name    string
	err     error
	reports []*models.Report
}

func (s *memorySink) Name() string { return s.name }

func (s *memorySink) Save(ctx context.Context, report *models.Report) error {
	if s.err != nil {
		return s.err
	}
	s.reports = append(s.reports, report)
	return nil
}

func newTestService(fs afero.Fs, sinks ...ReportSink) *firstBloodService {
	svc := NewFirstBloodService(export.NewLoader(fs, logger.Nop()), sinks, 1, logger.Nop()).(*firstBloodService)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "run-test" }
	return svc
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		teams string
		want  []models.AwardRecord
	}{
		{
			name:  "earliest submission wins",
			teams: `{"results": [{"id": 10, "name": "Alpha", "banned": false}, {"id": 20, "name": "Beta", "banned": false}]}`,
			want: []models.AwardRecord{
				{ChallengeName: "pwn1", TeamName: "Alpha", TeamMembers: []string{"alice"}},
			},
		},
		{
			name:  "banned team is skipped",
			teams: `{"results": [{"id": 10, "name": "Alpha", "banned": true}, {"id": 20, "name": "Beta", "banned": false}]}`,
			want: []models.AwardRecord{
				{ChallengeName: "pwn1", TeamName: "Beta", TeamMembers: []string{"bob"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeExport(t, fs, "export", basicExport(tt.teams))
			svc := newTestService(fs)

			report, err := svc.Generate(context.Background(), "export")
			require.NoError(t, err)

			assert.Equal(t, "run-test", report.RunID)
			assert.Equal(t, "export", report.Source)
			assert.Equal(t, tt.want, report.Awards)
		})
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeExport(t, fs, "export", basicExport(`{"results": [{"id": 10, "name": "Alpha"}, {"id": 20, "name": "Beta", "banned": false}]}`))
	svc := newTestService(fs)

	first, err := svc.Generate(context.Background(), "export")
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), "export")
	require.NoError(t, err)

	assert.Equal(t, first.Awards, second.Awards)
}

func TestGenerateMalformedExport(t *testing.T) {
	fs := afero.NewMemMapFs()
	collections := basicExport(`{"results": []}`)
	collections[export.TeamsFile] = `[{"id": 10}]`
	writeExport(t, fs, "export", collections)

	sink := &memorySink{name: "memory"}
	svc := newTestService(fs, sink)

	report, err := svc.Generate(context.Background(), "export")
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeMalformedInput))
	assert.Contains(t, err.Error(), export.TeamsFile)
	assert.Empty(t, sink.reports)
}

func TestGenerateMissingExport(t *testing.T) {
	svc := newTestService(afero.NewMemMapFs())

	_, err := svc.Generate(context.Background(), "nowhere")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
}

func TestPublish(t *testing.T) {
	report := &models.Report{RunID: "run-1"}

	t.Run("every sink receives the report", func(t *testing.T) {
		first := &memorySink{name: "first"}
		second := &memorySink{name: "second"}
		svc := newTestService(afero.NewMemMapFs(), first, second)

		require.NoError(t, svc.Publish(context.Background(), report))
		assert.Len(t, first.reports, 1)
		assert.Len(t, second.reports, 1)
	})

	t.Run("failure does not stop later sinks", func(t *testing.T) {
		broken := &memorySink{name: "broken", err: errors.New("connection refused")}
		after := &memorySink{name: "after"}
		svc := newTestService(afero.NewMemMapFs(), broken, after)

		err := svc.Publish(context.Background(), report)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeOutputWriteError))
		assert.Contains(t, err.Error(), "broken")
		assert.Len(t, after.reports, 1)
	})
}

func TestGenerateWarnsAboutDanglingReferences(t *testing.T) {
	fs := afero.NewMemMapFs()
	collections := basicExport(`{"results": [{"id": 10, "name": "Alpha", "banned": false}, {"id": 20, "name": "Beta", "banned": false}]}`)
	collections[export.SubmissionsFile] = `{"results": [
		{"id": 1, "user_id": 999, "team_id": 10, "challenge_id": 1, "type": "correct", "date": "2024-01-01T08:00:00Z"},
		{"id": 2, "user_id": 100, "team_id": 10, "challenge_id": 1, "type": "correct", "date": "2024-01-01T09:00:00Z"}
	]}`
	writeExport(t, fs, "export", collections)

	var logs bytes.Buffer
	log := logger.New(logger.Config{Level: "warn", Output: &logs})
	svc := NewFirstBloodService(export.NewLoader(fs, log), nil, 1, log)

	report, err := svc.Generate(context.Background(), "export")
	require.NoError(t, err)
	require.Len(t, report.Awards, 1)
	assert.Equal(t, "Alpha", report.Awards[0].TeamName)

	assert.Contains(t, logs.String(), apperrors.CodeDanglingReference)
	assert.Contains(t, logs.String(), `"excluded":1`)
}
