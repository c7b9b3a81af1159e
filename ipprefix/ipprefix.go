package ipprefix

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/bitrise-io/go-utils/v2/log"
)

// Defaults of the loopback range scanned for a free prefix.
const (
	DefaultFirstBlock = 1
	DefaultLastBlock  = 125
	DefaultLockPort   = 48783
)

// ErrResourceExhausted is returned when every prefix of the range is claimed,
// either by concurrent runs or by clusters which were not cleaned up.
var ErrResourceExhausted = errors.New("no free cluster ip prefix")

// Lock keeps a prefix claimed until released.
type Lock interface {
	Release() error
}

// Allocator ...
type Allocator interface {
	Acquire() (Lock, string, error)
}

type allocator struct {
	logger     log.Logger
	firstBlock int
	lastBlock  int
	port       int
	listen     func(network, address string) (net.Listener, error)
}

// NewAllocator returns an allocator scanning 127.0.1. - 127.0.125.
func NewAllocator(logger log.Logger) Allocator {
	return NewAllocatorWithRange(logger, DefaultFirstBlock, DefaultLastBlock, DefaultLockPort)
}

// NewAllocatorWithRange ...
func NewAllocatorWithRange(logger log.Logger, firstBlock, lastBlock, port int) Allocator {
	return &allocator{
		logger:     logger,
		firstBlock: firstBlock,
		lastBlock:  lastBlock,
		port:       port,
		listen:     net.Listen,
	}
}

// Acquire claims the first prefix whose first address can be bound on the lock port.
// The OS guarantees only one listener per address, so the bound socket is the lock.
func (a *allocator) Acquire() (Lock, string, error) {
	a.logger.Infof("Getting machine-unique ip prefix to support parallel tests...")

	for block := a.firstBlock; block <= a.lastBlock; block++ {
		prefix := fmt.Sprintf("127.0.%d.", block)
		address := net.JoinHostPort(prefix+"1", fmt.Sprintf("%d", a.port))

		listener, err := a.listen("tcp", address)
		if err != nil {
			a.logger.Debugf("Prefix %s is taken: %s", prefix, err)
			continue
		}

		a.logger.Donef("Cluster ip prefix acquired: %s", prefix)
		return &lock{closer: listener}, prefix, nil
	}

	return nil, "", fmt.Errorf("%w in 127.0.%d. - 127.0.%d., looks like clusters are not cleared properly", ErrResourceExhausted, a.firstBlock, a.lastBlock)
}

type lock struct {
	closer io.Closer
	once   sync.Once
	err    error
}

func (l *lock) Release() error {
	l.once.Do(func() {
		l.err = l.closer.Close()
	})
	return l.err
}
