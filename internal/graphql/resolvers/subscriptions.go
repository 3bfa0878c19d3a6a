package resolvers

import (
	"context"

	"validator-monitor/internal/types"
)

// headsBufferCapacity is the number of heads waiting for a slow subscriber.
const headsBufferCapacity = 16

// NewHeads resolves subscription to the chain heads observed on the endpoint.
func (rs *RootResolver) NewHeads(ctx context.Context, args struct{ Endpoint string }) (<-chan *Head, error) {
	sink := make(chan types.Head, headsBufferCapacity)
	sub, err := rs.repo.SubscribeHeads(args.Endpoint, sink)
	if err != nil {
		rs.log.Warningf("heads subscription to %s refused; %s", args.Endpoint, err.Error())
		return nil, err
	}

	out := make(chan *Head, headsBufferCapacity)
	go func() {
		defer func() {
			sub.Unsubscribe()
			close(out)
			rs.log.Debugf("heads subscriber of %s left", args.Endpoint)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				if err != nil {
					rs.log.Errorf("heads subscription of %s failed; %s", args.Endpoint, err.Error())
				}
				return
			case h := <-sink:
				select {
				case out <- &Head{Head: h}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
