package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
	"github.com/Prateek-coditas/color-extractor/internal/extraction"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	jobs     map[uuid.UUID]*entity.Job
	statuses []entity.JobStatus
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{jobs: map[uuid.UUID]*entity.Job{}}
}

func (r *fakeRepo) Create(_ context.Context, job *entity.Job) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeRepo) Update(_ context.Context, job *entity.Job) error {
	r.jobs[job.ID] = job
	r.statuses = append(r.statuses, job.Status)
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, errors.New("job not found")
	}
	return job, nil
}

type fakeStorage struct {
	err   error
	calls int
}

func (s *fakeStorage) DownloadVideo(_ context.Context, _ string, _ string) error {
	s.calls++
	return s.err
}

type fakeProber struct {
	duration float64
	err      error
}

func (p *fakeProber) ProbeDuration(_ context.Context, _ string) (float64, error) {
	return p.duration, p.err
}

type fakeColorExtractor struct {
	results []entity.ColorResult
	err     error
	calls   int
	gotTs   []int64
}

func (e *fakeColorExtractor) ExtractColors(_ context.Context, _ string, timestampsMs []int64) ([]entity.ColorResult, error) {
	e.calls++
	e.gotTs = timestampsMs
	if e.err != nil {
		return nil, e.err
	}
	return e.results, nil
}

type fakeStatusPublisher struct {
	published [][]byte
}

func (p *fakeStatusPublisher) PublishStatus(_ context.Context, msg []byte) error {
	p.published = append(p.published, msg)
	return nil
}

func (p *fakeStatusPublisher) last(t *testing.T) entity.ColorStatusMessage {
	t.Helper()
	require.NotEmpty(t, p.published)
	var msg entity.ColorStatusMessage
	require.NoError(t, json.Unmarshal(p.published[len(p.published)-1], &msg))
	return msg
}

type fakeDLQ struct {
	bodies  [][]byte
	reasons []string
}

func (d *fakeDLQ) PublishToDLQ(_ context.Context, msg []byte, reason string) error {
	d.bodies = append(d.bodies, msg)
	d.reasons = append(d.reasons, reason)
	return nil
}

type fakeNotifier struct {
	recipients []string
}

func (n *fakeNotifier) NotifyFailure(_ context.Context, userEmail, _, _, _ string) error {
	n.recipients = append(n.recipients, userEmail)
	return nil
}

type ucFixture struct {
	uc        *ProcessExtractionUseCase
	repo      *fakeRepo
	storage   *fakeStorage
	prober    *fakeProber
	extractor *fakeColorExtractor
	publisher *fakeStatusPublisher
	dlq       *fakeDLQ
	notifier  *fakeNotifier
}

func newFixture(t *testing.T) *ucFixture {
	f := &ucFixture{
		repo:      newFakeRepo(),
		storage:   &fakeStorage{},
		prober:    &fakeProber{duration: 10.0},
		extractor: &fakeColorExtractor{},
		publisher: &fakeStatusPublisher{},
		dlq:       &fakeDLQ{},
		notifier:  &fakeNotifier{},
	}
	f.uc = NewProcessExtractionUseCase(
		f.repo, f.storage, f.prober, f.extractor,
		f.publisher, f.dlq, f.notifier,
		zap.NewNop(),
		ProcessExtractionConfig{
			TempDir:    t.TempDir(),
			MaxRetries: 3,
			NotifyTo:   "ops@colorext.local",
		},
	)
	return f
}

func marshalMsg(t *testing.T, msg entity.ColorExtractionMessage) []byte {
	t.Helper()
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	return raw
}

func TestExecuteHappyPath(t *testing.T) {
	f := newFixture(t)
	f.extractor.results = []entity.ColorResult{
		{TimestampMs: 1000, HexColor: "#AA0000"},
		{TimestampMs: 5000, HexColor: "#00BB00"},
	}

	jobID := uuid.New()
	raw := marshalMsg(t, entity.ColorExtractionMessage{
		JobID:        jobID,
		UserID:       "user-1",
		VideoKey:     "user-1/clip.mp4",
		TimestampsMs: []int64{1000, 5000},
		UserEmail:    "user@test.local",
	})

	err := f.uc.Execute(context.Background(), raw)
	require.NoError(t, err)

	job := f.repo.jobs[jobID]
	require.NotNil(t, job)
	assert.Equal(t, entity.JobStatusCompleted, job.Status)
	assert.Len(t, job.Results, 2)
	assert.Equal(t, 10.0, job.VideoDuration)
	assert.NotNil(t, job.CompletedAt)

	assert.Equal(t, []int64{1000, 5000}, f.extractor.gotTs)
	assert.Empty(t, f.dlq.bodies)
	assert.Empty(t, f.notifier.recipients)

	status := f.publisher.last(t)
	assert.Equal(t, jobID, status.JobID)
	assert.Equal(t, entity.JobStatusCompleted, status.Status)
	assert.Len(t, status.Results, 2)
	assert.Equal(t, "#AA0000", status.Results[0].HexColor)
}

func TestExecuteMalformedMessageGoesToDLQ(t *testing.T) {
	f := newFixture(t)

	err := f.uc.Execute(context.Background(), []byte(`{not json`))
	require.NoError(t, err)

	require.Len(t, f.dlq.bodies, 1)
	assert.Equal(t, `{not json`, string(f.dlq.bodies[0]))
	assert.Contains(t, f.dlq.reasons[0], "unmarshal_error")
	assert.Empty(t, f.repo.jobs)
	assert.Equal(t, 0, f.extractor.calls)
}

func TestExecutePartialExtractionIsPermanent(t *testing.T) {
	f := newFixture(t)
	f.extractor.err = &extraction.PartialExtractionError{
		Requested:           2,
		Produced:            1,
		MissingTimestampsMs: []int64{5000},
	}

	jobID := uuid.New()
	raw := marshalMsg(t, entity.ColorExtractionMessage{
		JobID:        jobID,
		UserID:       "user-1",
		VideoKey:     "user-1/clip.mp4",
		TimestampsMs: []int64{1000, 5000},
		UserEmail:    "user@test.local",
	})

	err := f.uc.Execute(context.Background(), raw)
	require.NoError(t, err, "permanent failures must not be redelivered")

	assert.Equal(t, entity.JobStatusFailed, f.repo.jobs[jobID].Status)
	require.Len(t, f.dlq.bodies, 1)
	assert.Equal(t, []string{"user@test.local"}, f.notifier.recipients)
	assert.Equal(t, entity.JobStatusFailed, f.publisher.last(t).Status)
}

func TestExecuteDecodeFailureIsRetryable(t *testing.T) {
	f := newFixture(t)
	f.extractor.err = &extraction.DecodeError{Diagnostic: "broken pipe", Err: errors.New("exit status 1")}

	jobID := uuid.New()
	raw := marshalMsg(t, entity.ColorExtractionMessage{
		JobID:        jobID,
		UserID:       "user-1",
		VideoKey:     "user-1/clip.mp4",
		TimestampsMs: []int64{1000},
		UserEmail:    "user@test.local",
	})

	err := f.uc.Execute(context.Background(), raw)
	require.Error(t, err, "retryable failures must be redelivered")

	job := f.repo.jobs[jobID]
	assert.Equal(t, entity.JobStatusFailed, job.Status)
	assert.Equal(t, 1, job.Attempt)
	assert.Empty(t, f.dlq.bodies)
	assert.Empty(t, f.notifier.recipients)
}

func TestExecuteRetryExhaustionGoesToDLQ(t *testing.T) {
	f := newFixture(t)

	jobID := uuid.New()
	job := entity.NewJob("user-1", "user-1/clip.mp4", []int64{1000}, 3)
	job.ID = jobID
	job.Attempt = 3
	f.repo.jobs[jobID] = job

	raw := marshalMsg(t, entity.ColorExtractionMessage{
		JobID:        jobID,
		UserID:       "user-1",
		VideoKey:     "user-1/clip.mp4",
		TimestampsMs: []int64{1000},
		UserEmail:    "user@test.local",
	})

	err := f.uc.Execute(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 0, f.extractor.calls)
	require.Len(t, f.dlq.reasons, 1)
	assert.Contains(t, f.dlq.reasons[0], "max retries exceeded")
}

func TestExecuteRejectsEmptyTimestamps(t *testing.T) {
	f := newFixture(t)

	raw := marshalMsg(t, entity.ColorExtractionMessage{
		JobID:    uuid.New(),
		UserID:   "user-1",
		VideoKey: "user-1/clip.mp4",
	})

	err := f.uc.Execute(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 0, f.storage.calls)
	require.Len(t, f.dlq.reasons, 1)
	assert.Contains(t, f.dlq.reasons[0], "no timestamps requested")
}

func TestExecuteRejectsNegativeTimestamp(t *testing.T) {
	f := newFixture(t)

	raw := marshalMsg(t, entity.ColorExtractionMessage{
		JobID:        uuid.New(),
		UserID:       "user-1",
		VideoKey:     "user-1/clip.mp4",
		TimestampsMs: []int64{1000, -5},
	})

	err := f.uc.Execute(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 0, f.storage.calls)
	require.Len(t, f.dlq.reasons, 1)
	assert.Contains(t, f.dlq.reasons[0], "negative timestamp")
}

func TestExecuteRejectsTimestampBeyondDuration(t *testing.T) {
	f := newFixture(t)
	f.prober.duration = 2.0

	raw := marshalMsg(t, entity.ColorExtractionMessage{
		JobID:        uuid.New(),
		UserID:       "user-1",
		VideoKey:     "user-1/clip.mp4",
		TimestampsMs: []int64{5000},
		UserEmail:    "user@test.local",
	})

	err := f.uc.Execute(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 0, f.extractor.calls)
	require.Len(t, f.dlq.reasons, 1)
	assert.Contains(t, f.dlq.reasons[0], "beyond video duration")
}

func TestExecuteDownloadFailureIsRetryable(t *testing.T) {
	f := newFixture(t)
	f.storage.err = errors.New("connection reset")

	raw := marshalMsg(t, entity.ColorExtractionMessage{
		JobID:        uuid.New(),
		UserID:       "user-1",
		VideoKey:     "user-1/clip.mp4",
		TimestampsMs: []int64{1000},
	})

	err := f.uc.Execute(context.Background(), raw)
	require.Error(t, err)
	assert.Equal(t, 0, f.extractor.calls)
	assert.Empty(t, f.dlq.bodies)
}

func TestExecuteNotifiesFallbackRecipient(t *testing.T) {
	f := newFixture(t)
	f.extractor.err = &extraction.NoFramesError{}

	raw := marshalMsg(t, entity.ColorExtractionMessage{
		JobID:        uuid.New(),
		UserID:       "user-1",
		VideoKey:     "user-1/clip.mp4",
		TimestampsMs: []int64{1000},
	})

	err := f.uc.Execute(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"ops@colorext.local"}, f.notifier.recipients)
}

func TestIsPermanentExtractionError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		permanent bool
	}{
		{"unsupported source", &extraction.UnsupportedSourceError{Source: "x.mp4"}, true},
		{"no frames", &extraction.NoFramesError{}, true},
		{"partial", &extraction.PartialExtractionError{Requested: 2, Produced: 1}, true},
		{"no swatch", &extraction.NoSwatchError{TimestampMs: 100}, true},
		{"no timestamps", extraction.ErrNoTimestamps, true},
		{"unreachable", &extraction.SourceUnreachableError{Source: "x.mp4"}, false},
		{"decode", &extraction.DecodeError{Err: errors.New("exit status 1")}, false},
		{"plain", errors.New("disk full"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.permanent, isPermanentExtractionError(tc.err))
		})
	}
}
