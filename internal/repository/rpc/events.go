package rpc

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/registry"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/parser"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"validator-monitor/internal/types"
)

// eventRecords converts decoded events into their textual records.
func eventRecords(evs []*parser.Event, ss58 uint16) []types.EventRecord {
	list := make([]types.EventRecord, 0, len(evs))
	for _, ev := range evs {
		if ev == nil {
			continue
		}
		list = append(list, eventRecord(ev, ss58))
	}
	return list
}

// eventRecord converts a decoded event into its textual record;
// i.e. Staking.Slashed becomes section "staking" and method "Slashed".
func eventRecord(ev *parser.Event, ss58 uint16) types.EventRecord {
	section, method := ev.Name, ""
	if i := strings.LastIndex(ev.Name, "."); i >= 0 {
		section, method = ev.Name[:i], ev.Name[i+1:]
	}
	if section != "" {
		section = strings.ToLower(section[:1]) + section[1:]
	}

	values := make([]interface{}, 0, len(ev.Fields))
	for _, f := range ev.Fields {
		if f == nil {
			values = append(values, nil)
			continue
		}
		values = append(values, renderValue(f.Value, ss58, isAccountField(f.Name)))
	}

	data, err := json.Marshal(values)
	if err != nil {
		data = []byte("[]")
	}
	return types.EventRecord{Section: section, Method: method, Data: string(data)}
}

// isAccountField reports whether the decoded field name carries
// the type path of an account id, i.e. sp_core.crypto.AccountId32.who.
func isAccountField(name string) bool {
	return strings.Contains(name, "AccountId")
}

// renderValue turns a decoded field value into its JSON friendly form.
// Account ids are rendered as SS58 addresses, integers as JSON numbers
// and other byte strings as hex.
func renderValue(v interface{}, ss58 uint16, account bool) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case registry.DecodedFields:
		// single field composites are new types around the inner value
		if len(val) == 1 && val[0] != nil {
			return renderValue(val[0].Value, ss58, account || isAccountField(val[0].Name))
		}
		list := make([]interface{}, 0, len(val))
		for _, f := range val {
			if f == nil {
				list = append(list, nil)
				continue
			}
			list = append(list, renderValue(f.Value, ss58, isAccountField(f.Name)))
		}
		return list
	case *registry.DecodedField:
		if val == nil {
			return nil
		}
		return renderValue(val.Value, ss58, account || isAccountField(val.Name))
	case *big.Int:
		if val == nil {
			return nil
		}
		return json.Number(val.String())
	}

	rv := reflect.ValueOf(v)
	if raw, ok := byteString(rv); ok {
		if account && len(raw) == ss58PublicKeyLength {
			if addr, err := encodeSS58(raw, ss58); err == nil {
				return addr
			}
		}
		return hexutil.Encode(raw)
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return json.Number(fmt.Sprint(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return json.Number(fmt.Sprint(rv.Uint()))
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		list := make([]interface{}, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			list = append(list, renderValue(rv.Index(i).Interface(), ss58, false))
		}
		return list
	}

	// big numbers (U128, U256, ...) are stringers over big.Int
	if s, ok := v.(fmt.Stringer); ok {
		str := s.String()
		if _, isInt := new(big.Int).SetString(str, 10); isInt {
			return json.Number(str)
		}
		return str
	}
	return fmt.Sprint(v)
}

// byteString extracts the bytes of an array or slice whose elements are all bytes.
func byteString(rv reflect.Value) ([]byte, bool) {
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Len() == 0 {
		return nil, false
	}

	raw := make([]byte, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		el := rv.Index(i)
		for el.Kind() == reflect.Interface && !el.IsNil() {
			el = el.Elem()
		}
		if el.Kind() != reflect.Uint8 {
			return nil, false
		}
		raw[i] = byte(el.Uint())
	}
	return raw, true
}
