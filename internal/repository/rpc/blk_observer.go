package rpc

import (
	"time"

	gstypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"validator-monitor/internal/types"
)

// observeHeads collects new heads from the blockchain node
// and posts them to the heads feed subscribers.
func (con *Connection) observeHeads() {
	var sub HeadSubscription
	defer func() {
		if sub != nil {
			sub.Unsubscribe()
		}
		con.log.Noticef("heads observer of %s done", con.address)
		con.wg.Done()
	}()

	sub = con.headSubscription()
	for {
		// re-subscribe if the subscription ref is not valid
		if sub == nil {
			tm := time.NewTimer(con.resubscribeTick)
			select {
			case <-con.sigClose:
				tm.Stop()
				return
			case <-tm.C:
				sub = con.headSubscription()
				continue
			}
		}

		// use the subscription
		select {
		case <-con.sigClose:
			return
		case hdr, ok := <-sub.Chan():
			if !ok {
				sub = nil
				continue
			}
			con.publish(hdr)
		case err := <-sub.Err():
			if err != nil {
				con.log.Errorf("heads subscription of %s failed; %s", con.address, err.Error())
			}
			sub.Unsubscribe()
			sub = nil
		}
	}
}

// headSubscription provides a subscription for new heads received
// by the connected blockchain node.
func (con *Connection) headSubscription() HeadSubscription {
	sub, err := con.node.SubscribeHeads()
	if err != nil {
		con.log.Errorf("can not observe new heads of %s; %s", con.address, err.Error())
		return nil
	}
	return sub
}

// publish updates the best known block and sends the head to subscribers.
func (con *Connection) publish(hdr gstypes.Header) {
	num := uint64(hdr.Number)
	if num > con.best.Load() {
		con.best.Store(num)
	}

	con.heads.Send(types.Head{
		Number:         num,
		ParentHash:     hdr.ParentHash.Hex(),
		StateRoot:      hdr.StateRoot.Hex(),
		ExtrinsicsRoot: hdr.ExtrinsicsRoot.Hex(),
	})
}
