package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"resona/internal/platform/metrics"
	"resona/internal/realtime"
	"resona/internal/realtime/realtimetest"
	"resona/pkg/domain"
)

type RegistrySuite struct {
	suite.Suite
	reg *Registry
}

func (s *RegistrySuite) SetupTest() {
	s.reg = New(metrics.NewForTesting())
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) TestRegisterAndLookup() {
	userID := domain.NewUserID()
	conn := realtimetest.NewConn(userID)

	s.reg.Register(conn)

	got, ok := s.reg.Lookup(userID)
	s.Require().True(ok)
	s.Same(conn, got)
	s.Equal(1, s.reg.Len())

	_, ok = s.reg.Lookup(domain.NewUserID())
	s.False(ok)
}

func (s *RegistrySuite) TestReplaceClosesDisplacedConnection() {
	userID := domain.NewUserID()
	first := realtimetest.NewConn(userID)
	second := realtimetest.NewConn(userID)

	s.reg.Register(first)
	s.reg.Register(second)

	s.Equal(1, s.reg.Len())
	got, ok := s.reg.Lookup(userID)
	s.Require().True(ok)
	s.Same(second, got)

	s.True(first.Closed())
	s.Equal(realtime.CloseSuperseded, first.CloseReason())
	s.False(second.Closed())
}

func (s *RegistrySuite) TestUnregisterIsOwnerChecked() {
	userID := domain.NewUserID()
	first := realtimetest.NewConn(userID)
	second := realtimetest.NewConn(userID)

	s.reg.Register(first)
	s.reg.Register(second)

	// The superseded connection's teardown must not evict its replacement.
	s.False(s.reg.Unregister(first))
	got, ok := s.reg.Lookup(userID)
	s.Require().True(ok)
	s.Same(second, got)

	s.True(s.reg.Unregister(second))
	_, ok = s.reg.Lookup(userID)
	s.False(ok)
	s.Equal(0, s.reg.Len())
}

func (s *RegistrySuite) TestConcurrentRegisterKeepsOneEntry() {
	userID := domain.NewUserID()
	const racers = 32

	conns := make([]*realtimetest.Conn, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		conns[i] = realtimetest.NewConn(userID)
		wg.Add(1)
		go func(c *realtimetest.Conn) {
			defer wg.Done()
			s.reg.Register(c)
		}(conns[i])
	}
	wg.Wait()

	s.Equal(1, s.reg.Len())

	winner, ok := s.reg.Lookup(userID)
	s.Require().True(ok)

	// Every connection except the winner must have been closed.
	closed := 0
	for _, c := range conns {
		if c == winner {
			s.False(c.Closed())
			continue
		}
		if c.Closed() {
			closed++
		}
	}
	s.Equal(racers-1, closed)
}

func (s *RegistrySuite) TestCloseAll() {
	a := realtimetest.NewConn(domain.NewUserID())
	b := realtimetest.NewConn(domain.NewUserID())
	s.reg.Register(a)
	s.reg.Register(b)

	s.reg.CloseAll()

	s.Equal(0, s.reg.Len())
	s.True(a.Closed())
	s.True(b.Closed())
	s.Equal(realtime.CloseNormal, a.CloseReason())
}
