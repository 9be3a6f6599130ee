package export

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

type RunnerSuite struct {
	suite.Suite
	runner *Runner
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerSuite))
}

func (s *RunnerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.runner = NewRunner(logger, nil, nil)
}

func (s *RunnerSuite) TestDocumentLifecycle() {
	snap := fixtureSnapshot(s.T())

	artifact, err := s.runner.Request(context.Background(), snap, KindDocument)
	s.Require().NoError(err)
	s.Equal(StatusQueued, artifact.Status)
	s.Equal(KindDocument, artifact.Kind)
	s.Equal(snap.NIT, artifact.NIT)

	s.runner.Wait()

	done, err := s.runner.Get(artifact.ID)
	s.Require().NoError(err)
	s.Equal(StatusSucceeded, done.Status)
	s.Equal("image/png", done.ContentType)
	s.Equal(2, done.Pages)
	s.Positive(done.SizeBytes)
	s.NotNil(done.CompletedAt)

	payload, contentType, err := s.runner.Content(artifact.ID, 1)
	s.Require().NoError(err)
	s.Equal("image/png", contentType)
	s.NotEmpty(payload)

	_, _, err = s.runner.Content(artifact.ID, 3)
	s.Require().Error(err)
	s.True(pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func (s *RunnerSuite) TestSummaryHasSinglePage() {
	snap := fixtureSnapshot(s.T())

	artifact, err := s.runner.Request(context.Background(), snap, KindSummary)
	s.Require().NoError(err)
	s.runner.Wait()

	done, err := s.runner.Get(artifact.ID)
	s.Require().NoError(err)
	s.Equal(StatusSucceeded, done.Status)
	s.Equal(1, done.Pages)
}

func (s *RunnerSuite) TestUnknownKindRejected() {
	_, err := s.runner.Request(context.Background(), fixtureSnapshot(s.T()), Kind("pdf"))
	s.Require().Error(err)
	s.True(pkgerrors.Is(err, pkgerrors.CodeInvalidInput))

	_, err = ParseKind("pdf")
	s.Require().Error(err)
	kind, err := ParseKind("summary")
	s.Require().NoError(err)
	s.Equal(KindSummary, kind)
}

func (s *RunnerSuite) TestUnknownArtifact() {
	_, err := s.runner.Get(uuid.New())
	s.Require().Error(err)
	s.True(pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, _, err = s.runner.Content(uuid.New(), 1)
	s.Require().Error(err)
	s.True(pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
