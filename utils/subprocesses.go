package utils

import "sync"

// Subprocesses tracks goroutines started through Go so that Wait can block
// until all of them return.
type Subprocesses struct {
	wg sync.WaitGroup
}

func (s *Subprocesses) Go(f func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		f()
	}()
}

func (s *Subprocesses) Wait() {
	s.wg.Wait()
}
