package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"

	"validator-monitor/internal/logger"
	"validator-monitor/internal/types"
)

// SlashAmountMethod is the name of the slash amount aggregation operation.
const SlashAmountMethod = "custom/getSlashAmount"

// errSlashAmountFailed is reported for any failure to obtain the events;
// the cause is logged, but not forwarded to the caller.
var errSlashAmountFailed = &Error{Kind: KindHandler, Msg: callFailedMessage(SlashAmountMethod)}

// slashComputer derives the slashed amount of an account from the events of a block.
type slashComputer struct {
	query *Dispatcher
	log   logger.Logger
}

// customOperations lists the derived operations layered on top of the query dispatcher.
func customOperations(query *Dispatcher, log logger.Logger) []Operation {
	sc := &slashComputer{query: query, log: log}
	return []Operation{
		{
			Name: SlashAmountMethod,
			Params: []Param{
				{Name: paramBlockHash},
				{Name: paramAccountAddress, Required: true, Missing: "Missing account address parameter."},
			},
			Handler: sc.slashAmount,
			Pin:     paramBlockHash,
		},
	}
}

// slashAmount sums the amounts of all staking slash events of the account
// in the given block, or in the best block if the hash is not given.
func (sc *slashComputer) slashAmount(con *Connection, p Params) (interface{}, error) {
	account, ok := p.Value(1)
	if !ok {
		return nil, errMissingParameter("Missing account address parameter.")
	}

	var q Params
	if hash, ok := p.Value(0); ok {
		q = Params{hash}
	}

	// handlers run detached from the caller; the query table timeout bounds the fetch
	res, err := sc.query.Call(context.Background(), con, "system/events", q)
	if err != nil {
		sc.log.Errorf("events of %s not available for slash amount; %s", con.address, err.Error())
		return nil, errSlashAmountFailed
	}

	records, ok := res.([]types.EventRecord)
	if !ok {
		sc.log.Errorf("unexpected events collection %T from %s", res, con.address)
		return nil, errSlashAmountFailed
	}
	return slashTotal(records, account, sc.log), nil
}

// slashTotal sums the amounts of the staking slash events of the account.
// Malformed slash events are skipped.
func slashTotal(records []types.EventRecord, account string, log logger.Logger) *big.Int {
	total := new(big.Int)
	for i, rec := range records {
		if !isSlashEvent(rec) {
			continue
		}

		ev, err := parseSlashEvent(rec)
		if err != nil {
			log.Warningf("slash event #%d skipped; %s", i, err.Error())
			continue
		}

		if ev.Account == account {
			total.Add(total, ev.Amount)
		}
	}
	return total
}

// isSlashEvent checks if the event record is a staking slash event.
// Older runtimes name the event Slash, newer ones Slashed.
func isSlashEvent(rec types.EventRecord) bool {
	return rec.Section == "staking" && (rec.Method == "Slash" || rec.Method == "Slashed")
}

// parseSlashEvent decodes the [account, amount] payload of a slash event.
func parseSlashEvent(rec types.EventRecord) (*types.SlashEvent, error) {
	dec := json.NewDecoder(strings.NewReader(rec.Data))
	dec.UseNumber()

	var fields []interface{}
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if len(fields) < 2 {
		return nil, errors.New("missing slash event fields")
	}

	account, ok := fields[0].(string)
	if !ok || account == "" {
		return nil, errors.New("invalid slashed account")
	}

	amount, err := parseAmount(fields[1])
	if err != nil {
		return nil, err
	}

	return &types.SlashEvent{
		Section: rec.Section,
		Method:  rec.Method,
		Account: account,
		Amount:  amount,
	}, nil
}

// parseAmount decodes a non-negative integer amount given as a number,
// a decimal string, or a 0x prefixed hex string.
func parseAmount(v interface{}) (*big.Int, error) {
	var s string
	switch val := v.(type) {
	case json.Number:
		s = val.String()
	case string:
		s = strings.TrimSpace(val)
	default:
		return nil, errors.New("invalid slashed amount")
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}

	amount, ok := new(big.Int).SetString(s, base)
	if !ok || amount.Sign() < 0 {
		return nil, errors.New("invalid slashed amount")
	}
	return amount, nil
}
