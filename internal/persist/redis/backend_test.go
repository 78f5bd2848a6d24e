package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/sangsom/minime/internal/persist"
)

type BackendSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	backend *Backend
	ctx     context.Context
}

func TestBackendSuite(t *testing.T) {
	suite.Run(t, new(BackendSuite))
}

func (s *BackendSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.backend = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *BackendSuite) TearDownTest() {
	if s.backend != nil {
		_ = s.backend.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *BackendSuite) TestWriteAndReadSnapshot() {
	doc := []byte(`{"profiles":[{"id":"alice"}]}`)
	s.Require().NoError(s.backend.WriteSnapshot(s.ctx, doc))

	data, err := s.backend.ReadSnapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(doc, data)
}

func (s *BackendSuite) TestReadMissingKey() {
	_, err := s.backend.ReadSnapshot(s.ctx)
	s.ErrorIs(err, persist.ErrNoSnapshot)
}

func (s *BackendSuite) TestWriteReplacesValue() {
	s.Require().NoError(s.backend.WriteSnapshot(s.ctx, []byte(`{"v":1}`)))
	s.Require().NoError(s.backend.WriteSnapshot(s.ctx, []byte(`{"v":2}`)))

	data, err := s.backend.ReadSnapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(`{"v":2}`, string(data))
}

func (s *BackendSuite) TestNewRejectsBadURL() {
	cfg := DefaultConfig()
	cfg.URL = "not-a-url"
	_, err := New(cfg)
	s.Error(err)
}
