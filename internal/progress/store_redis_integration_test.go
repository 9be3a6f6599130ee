//go:build integration

package progress_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/progress"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/testutil/containers"
)

type RedisProgressStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *progress.RedisStore
}

func TestRedisProgressStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisProgressStoreSuite))
}

func (s *RedisProgressStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = progress.NewRedisStore(s.redis.Client)
}

func (s *RedisProgressStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisProgressStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	nit := domain.NIT("1234567890")

	state := progress.NewState()
	s.Require().NoError(state.SetApproval(1, domain.ApprovalApproved))
	state.SetEvidence(1, "captura")
	s.Require().NoError(s.store.Save(ctx, nit, state))

	loaded, err := s.store.Load(ctx, nit)
	s.Require().NoError(err)
	s.Equal(domain.ApprovalApproved, loaded.Approval(1))
	s.Equal("captura", loaded.Evidence(1))
}

func (s *RedisProgressStoreSuite) TestLoadMissing() {
	_, err := s.store.Load(context.Background(), domain.NIT("9999999999"))
	s.ErrorIs(err, progress.ErrNotFound)
}

// Finalizing removes the current blob and every historical key variant in
// one pass.
func (s *RedisProgressStoreSuite) TestDeleteRemovesLegacyVariants() {
	ctx := context.Background()
	nit := domain.NIT("1234567890")

	s.Require().NoError(s.store.Save(ctx, nit, progress.NewState()))
	for _, key := range []string{
		"evidencias_1234567890",
		"progreso_1234567890",
		"checklist_1234567890",
		"datos_1234567890",
		"autosave_1234567890",
	} {
		s.Require().NoError(s.redis.Client.Set(ctx, key, "{}", 0).Err())
	}

	s.Require().NoError(s.store.Delete(ctx, nit))

	keys, err := s.redis.Client.Keys(ctx, "*1234567890").Result()
	s.Require().NoError(err)
	s.Empty(keys)
}

// A blob written by the old portal, alias keys and junk included, loads
// cleanly.
func (s *RedisProgressStoreSuite) TestLoadsLegacyBlob() {
	ctx := context.Background()
	nit := domain.NIT("1234567890")
	blob := `{"aprobado_1":"Aprobado","observaciones_2":"nota antigua","autosave_ts":"171234"}`
	s.Require().NoError(s.redis.Client.Set(ctx, "avances_1234567890", blob, 0).Err())

	loaded, err := s.store.Load(ctx, nit)
	s.Require().NoError(err)
	s.Equal(domain.ApprovalApproved, loaded.Approval(1))
	s.Equal("nota antigua", loaded.Evidence(2))
	s.Equal(2, loaded.Len())
}
