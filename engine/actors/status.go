package actors

import (
	"github.com/sasha-s/go-deadlock"
)

var terminateChan chan struct{}
var waitGroup = &deadlock.WaitGroup{}

func SetTerminateChan(term chan struct{}) {
	terminateChan = term
}

func GetTerminateChan() chan struct{} {
	return terminateChan
}

// GetWaitGroup is incremented by every long running goroutine so shutdown can wait for them.
func GetWaitGroup() *deadlock.WaitGroup {
	return waitGroup
}
