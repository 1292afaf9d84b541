package host_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/gloss-dev/glossbridge/application/config"
	"github.com/gloss-dev/glossbridge/domain/entities"
	"github.com/gloss-dev/glossbridge/host"
	"github.com/gloss-dev/glossbridge/hostfuncs"
	"github.com/gloss-dev/glossbridge/internal/testutil"
	glog "github.com/gloss-dev/glossbridge/log"
)

func TestNewExecutor(t *testing.T) {
	ctx := context.Background()
	e, err := host.NewExecutor(ctx, host.WithLogger(glog.Discard()))
	require.NoError(t, err)
	assert.NotNil(t, e.Table())
	assert.NotNil(t, e.Runtime())
	assert.NoError(t, e.Close(ctx))
}

func TestNewExecutor_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxFraction = 1.5
	_, err := host.NewExecutor(context.Background(), host.WithConfig(cfg))
	assert.ErrorContains(t, err, "MaxFraction")
}

// ExecutorSuite loads the probe module into a real runtime.
type ExecutorSuite struct {
	suite.Suite
	ctx      context.Context
	executor *host.Executor
}

func (s *ExecutorSuite) SetupTest() {
	s.ctx = context.Background()
	cfg := config.Default()
	cfg.MemoryLimitPages = 16
	e, err := host.NewExecutor(s.ctx, host.WithConfig(cfg), host.WithLogger(glog.Discard()))
	s.Require().NoError(err)
	s.executor = e
}

func (s *ExecutorSuite) TearDownTest() {
	s.Require().NoError(s.executor.Close(s.ctx))
}

func (s *ExecutorSuite) load(limits []byte) *host.Module {
	m, err := s.executor.Load(s.ctx, testutil.ProbeModule(limits...), "probe")
	s.Require().NoError(err)
	return m
}

func (s *ExecutorSuite) TestLoadBuildsBridgeState() {
	m := s.load(testutil.OnePageMax16)
	s.Equal("probe", m.Name())
	s.Equal(uint64(65536), m.Arena().Capacity())
	s.Same(s.executor.Table(), m.Table())
	s.Empty(m.Output())
}

func (s *ExecutorSuite) TestCallbackThroughImport() {
	m := s.load(testutil.OnePageMax16)
	var rows []int32
	id := s.executor.Table().Register(hostfuncs.HandleFunc(func(_ context.Context, row, _ int32) entities.Handle {
		rows = append(rows, row)
		return 42
	}).Handler())

	h, err := m.Call(s.ctx, "probe", uint64(id), uint64(^uint32(0)), 0)
	s.Require().NoError(err)
	s.Equal(uint64(42), h)
	s.Equal([]int32{-1}, rows)

	h, err = m.Call(s.ctx, "probe", uint64(id)+100, 0, 0)
	s.Require().NoError(err)
	s.Zero(h, "unknown id degrades to the null handle")
}

func (s *ExecutorSuite) TestRuntimeCeilingRefusesGrowth() {
	m := s.load(testutil.OnePageUnbounded)

	s.True(m.EnsureOutput(0))
	s.Equal(uint64(2*65536), m.Arena().Capacity())

	s.False(m.EnsureOutput(600_000), "16 page ceiling")
	s.Equal(uint64(2*65536), m.Arena().Capacity())

	enc, err := m.WriteString("still usable")
	s.Require().NoError(err)
	got, err := m.Marshaller().ReadString(enc.Ptr, enc.Len)
	s.Require().NoError(err)
	s.Equal("still usable", got)
	m.Discard()
}

func (s *ExecutorSuite) TestLoadRejectsGarbage() {
	_, err := s.executor.Load(s.ctx, []byte("not wasm"), "junk")
	s.Error(err)
}

func (s *ExecutorSuite) TestClosedModule() {
	m := s.load(testutil.OnePageMax16)
	s.Require().NoError(m.Close(s.ctx))
	_, err := m.Call(s.ctx, "probe", 1, 0, 0)
	s.Error(err)
}

func TestExecutorSuite(t *testing.T) {
	suite.Run(t, new(ExecutorSuite))
}
